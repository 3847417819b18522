// Package pipeline computes the read-side projections of the hiring pipeline:
// dashboard stats and the recent-activity feed.
package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/talentflow/internal/domain/model"
)

// DefaultActivityLimit is the feed size when the caller asks for none.
const DefaultActivityLimit = 10

// DayWindow returns the local day containing t as the half-open range [start, end).
func DayWindow(t time.Time, loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	start = time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ComputeStats counts candidates per phase, hires, and interviews scheduled in [start, end).
// Sync fields are left for the caller to fill.
func ComputeStats(candidates []model.Candidate, interviews []model.Interview, start, end time.Time) model.DashboardStats {
	s := model.DashboardStats{TotalCandidates: len(candidates)}
	for _, c := range candidates {
		switch c.Phase {
		case model.PhaseScreening:
			s.Phase1Count++
		case model.PhaseInterviewing:
			s.Phase2Count++
		}
		if c.Status == model.StatusHired {
			s.HiredCount++
		}
	}
	window := model.InterviewFilter{From: start, To: end}
	for _, i := range interviews {
		if window.Matches(i) {
			s.InterviewsToday++
		}
	}
	return s
}

// BuildActivity merges the newest candidates, interviews and sync runs into a feed
// sorted by timestamp, newest first, truncated to limit.
//
// Candidates and interviews are taken as the last limit entries by id; their
// timestamps are lastUpdated and scheduledDate respectively.
func BuildActivity(candidates []model.Candidate, interviews []model.Interview, runs []model.SyncRun, limit int) []model.ActivityItem {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	names := make(map[int64]string, len(candidates))
	for _, c := range candidates {
		names[c.ID] = c.FullName()
	}

	cands := lastByID(candidates, func(c model.Candidate) int64 { return c.ID }, limit)
	ivs := lastByID(interviews, func(i model.Interview) int64 { return i.ID }, limit)

	items := make([]model.ActivityItem, 0, len(cands)+len(ivs)+len(runs))
	for _, c := range cands {
		items = append(items, model.ActivityItem{
			ID:            "candidate-" + strconv.FormatInt(c.ID, 10),
			Type:          model.ActivityCandidate,
			CandidateName: c.FullName(),
			Action:        "moved to " + string(c.Status),
			Timestamp:     c.LastUpdated,
		})
	}
	for _, i := range ivs {
		items = append(items, model.ActivityItem{
			ID:            "interview-" + strconv.FormatInt(i.ID, 10),
			Type:          model.ActivityInterview,
			CandidateName: names[i.CandidateID],
			Action:        "Interview " + strings.ToLower(string(i.Status)),
			Timestamp:     i.ScheduledDate,
			Interviewer:   i.Interviewer,
		})
	}
	for _, r := range runs {
		item := model.ActivityItem{
			ID:        "sync-" + strconv.FormatInt(r.Seq, 10),
			Type:      model.ActivitySync,
			Timestamp: r.At,
			Count:     r.Imported,
		}
		if r.Err != "" {
			item.Action = "Sync failed: " + r.Err
		} else {
			item.Action = fmt.Sprintf("Synced %d candidates", r.Imported)
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Timestamp.After(items[b].Timestamp)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func lastByID[T any](in []T, id func(T) int64, n int) []T {
	out := append([]T(nil), in...)
	sort.SliceStable(out, func(a, b int) bool { return id(out[a]) < id(out[b]) })
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
