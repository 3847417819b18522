package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventKind names what happened in the pipeline.
type EventKind string

const (
	EventCandidateCreated       EventKind = "candidate_created"
	EventCandidateStatusChanged EventKind = "candidate_status_changed"
	EventCandidateDeleted       EventKind = "candidate_deleted"
	EventInterviewScheduled     EventKind = "interview_scheduled"
	EventInterviewCompleted     EventKind = "interview_completed"
	EventInterviewCancelled     EventKind = "interview_cancelled"
	EventInterviewReminder      EventKind = "interview_reminder"
	EventSyncCompleted          EventKind = "sync_completed"
	EventSyncFailed             EventKind = "sync_failed"
)

// Event is an internal pipeline event published after a mutation.
// ID is used for idempotency: two events with the same ID produce one notification.
type Event struct {
	ID            string
	Kind          EventKind
	CandidateID   int64
	InterviewID   int64
	CandidateName string
	Position      string
	Interviewer   string
	InterviewType InterviewType
	Status        string
	ScheduledAt   time.Time
	Count         int
	Message       string
	At            time.Time
}

// NotificationType groups notifications in the inbox.
type NotificationType string

const (
	NotificationCandidate NotificationType = "candidate"
	NotificationInterview NotificationType = "interview"
	NotificationReminder  NotificationType = "reminder"
	NotificationSystem    NotificationType = "system"
)

// Priority orders notifications by urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Notification is a user-facing inbox entry.
type Notification struct {
	ID            string           `json:"id"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	Timestamp     time.Time        `json:"timestamp"`
	Read          bool             `json:"read"`
	Priority      Priority         `json:"priority"`
	CandidateName string           `json:"candidateName,omitempty"`
	Interviewer   string           `json:"interviewer,omitempty"`
}

const scheduleLayout = "Jan 2 at 15:04"

// NotificationFor turns an event into its inbox entry. ok is false for unknown kinds.
func NotificationFor(e Event) (n Notification, ok bool) {
	n = Notification{
		ID:            uuid.NewString(),
		Timestamp:     e.At,
		CandidateName: e.CandidateName,
		Interviewer:   e.Interviewer,
		Priority:      PriorityMedium,
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	switch e.Kind {
	case EventCandidateCreated:
		n.Type = NotificationCandidate
		n.Title = "New Candidate Application"
		n.Message = fmt.Sprintf("%s has applied for %s position", e.CandidateName, e.Position)
		n.Priority = PriorityHigh
	case EventCandidateStatusChanged:
		n.Type = NotificationCandidate
		n.Title = "Candidate Status Update"
		n.Message = fmt.Sprintf("%s moved to %s stage", e.CandidateName, e.Status)
		switch CandidateStatus(e.Status) {
		case StatusOfferExtended, StatusHired:
			n.Priority = PriorityHigh
		case StatusRejected:
			n.Priority = PriorityLow
		}
	case EventCandidateDeleted:
		n.Type = NotificationSystem
		n.Title = "Candidate Removed"
		n.Message = fmt.Sprintf("%s was removed from the pipeline", e.CandidateName)
		n.Priority = PriorityLow
	case EventInterviewScheduled:
		n.Type = NotificationInterview
		n.Title = "Interview Scheduled"
		n.Message = fmt.Sprintf("%s interview with %s scheduled for %s",
			e.InterviewType, e.CandidateName, e.ScheduledAt.Format(scheduleLayout))
	case EventInterviewCompleted:
		n.Type = NotificationInterview
		n.Title = "Interview Feedback Required"
		n.Message = fmt.Sprintf("Please provide feedback for %s interview", e.CandidateName)
		n.Priority = PriorityHigh
	case EventInterviewCancelled:
		n.Type = NotificationInterview
		n.Title = "Interview Cancelled"
		n.Message = fmt.Sprintf("Interview with %s was cancelled", e.CandidateName)
	case EventInterviewReminder:
		n.Type = NotificationReminder
		n.Title = "Interview Reminder"
		n.Message = fmt.Sprintf("You have an interview with %s at %s",
			e.CandidateName, e.ScheduledAt.Format("15:04"))
		n.Priority = PriorityHigh
	case EventSyncCompleted:
		n.Type = NotificationSystem
		n.Title = "Data Sync Complete"
		n.Message = fmt.Sprintf("Successfully synced %d %s", e.Count, plural(e.Count, "candidate"))
		n.Priority = PriorityLow
	case EventSyncFailed:
		n.Type = NotificationSystem
		n.Title = "Data Sync Failed"
		n.Message = strings.TrimSpace("Sync failed: " + e.Message)
		n.Priority = PriorityHigh
	default:
		return Notification{}, false
	}
	return n, true
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
