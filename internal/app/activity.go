package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/internal/domain/pipeline"
)

// Activity returns the newest candidate, interview and sync entries, newest
// first. limit <= 0 uses the configured default.
func (s *Service) Activity(ctx context.Context, limit int) ([]model.ActivityItem, error) {
	if limit <= 0 {
		limit = s.activityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	candidates, err := s.store.ListCandidates(ctx, model.CandidateFilter{})
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	interviews, err := s.store.ListInterviews(ctx, model.InterviewFilter{})
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}

	s.mu.RLock()
	runs := append([]model.SyncRun(nil), s.syncRuns...)
	s.mu.RUnlock()

	return pipeline.BuildActivity(candidates, interviews, runs, limit), nil
}

// SetSyncState records the sync status shown on the dashboard.
func (s *Service) SetSyncState(_ context.Context, status model.SyncStatus, lastSync *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.SyncStatus = status
	if lastSync != nil {
		t := *lastSync
		s.stats.LastSync = &t
	}
}

// RecordSync appends run to the activity history and publishes its event.
func (s *Service) RecordSync(ctx context.Context, run model.SyncRun) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncSeq++
	run.Seq = s.syncSeq
	s.syncRuns = append(s.syncRuns, run)
	if len(s.syncRuns) > maxSyncRuns {
		s.syncRuns = s.syncRuns[len(s.syncRuns)-maxSyncRuns:]
	}

	e := model.Event{
		ID:    fmt.Sprintf("sync-%d", run.Seq),
		Kind:  model.EventSyncCompleted,
		Count: run.Imported,
		At:    run.At,
	}
	if run.Err != "" {
		e.Kind = model.EventSyncFailed
		e.Message = run.Err
	}
	s.publish(ctx, e)
}
