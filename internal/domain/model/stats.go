package model

import "time"

// SyncStatus reports the state of the external data sync.
type SyncStatus string

const (
	SyncSynced  SyncStatus = "synced"
	SyncSyncing SyncStatus = "syncing"
	SyncError   SyncStatus = "error"
)

// DashboardStats is the derived pipeline snapshot shown on the dashboard.
type DashboardStats struct {
	TotalCandidates int        `json:"totalCandidates"`
	Phase1Count     int        `json:"phase1Count"`
	Phase2Count     int        `json:"phase2Count"`
	HiredCount      int        `json:"hiredCount"`
	InterviewsToday int        `json:"interviewsToday"`
	SyncStatus      SyncStatus `json:"syncStatus"`
	LastSync        *time.Time `json:"lastSync"`
}

// Activity item kinds.
const (
	ActivityCandidate = "candidate"
	ActivityInterview = "interview"
	ActivitySync      = "sync"
)

// ActivityItem is one row of the recent-activity feed.
type ActivityItem struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	CandidateName string    `json:"candidateName,omitempty"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
	Interviewer   string    `json:"interviewer,omitempty"`
	Count         int       `json:"count,omitempty"`
}

// SyncRun records the outcome of one sync attempt.
type SyncRun struct {
	Seq      int64
	At       time.Time
	Imported int
	Err      string
}
