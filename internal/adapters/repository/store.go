// Package repository provides candidate and interview storage.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/pkg/metrics"
)

// Store provides read/write access to candidates and interviews.
type Store interface {
	// ListCandidates returns candidates matching f ordered by id.
	ListCandidates(ctx context.Context, f model.CandidateFilter) ([]model.Candidate, error)
	// GetCandidate returns ErrNotFound if id is unknown.
	GetCandidate(ctx context.Context, id int64) (model.Candidate, error)
	// FindCandidateByEmail matches case-insensitively. Returns ErrNotFound if absent.
	FindCandidateByEmail(ctx context.Context, email string) (model.Candidate, error)
	// CreateCandidate assigns the id, fills defaults and stamps both timestamps.
	CreateCandidate(ctx context.Context, c model.Candidate) (model.Candidate, error)
	// UpdateCandidate merges p and refreshes lastUpdated.
	UpdateCandidate(ctx context.Context, id int64, p model.CandidatePatch) (model.Candidate, error)
	// DeleteCandidate removes the candidate and its interviews and reports whether it existed.
	DeleteCandidate(ctx context.Context, id int64) (bool, error)
	CountCandidates(ctx context.Context) (int, error)

	// ListInterviews returns interviews matching f ordered by scheduled date, then id.
	ListInterviews(ctx context.Context, f model.InterviewFilter) ([]model.Interview, error)
	GetInterview(ctx context.Context, id int64) (model.Interview, error)
	// CreateInterview fills defaults. Returns ErrCandidateMissing for an unknown candidate.
	CreateInterview(ctx context.Context, i model.Interview) (model.Interview, error)
	UpdateInterview(ctx context.Context, id int64, p model.InterviewPatch) (model.Interview, error)
	DeleteInterview(ctx context.Context, id int64) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// observe records latency for one store operation and counts unexpected failures.
func observe(backend, op string, start time.Time, err error) {
	metrics.RecordRepositoryLatency(backend, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordRepositoryError(backend, op)
		metrics.RecordErrorByComponent("repository", op)
	}
}

// Stored times are returned in UTC by every backend.
func cloneCandidate(c model.Candidate) model.Candidate {
	c.AppliedDate = c.AppliedDate.UTC()
	c.LastUpdated = c.LastUpdated.UTC()
	if c.Experience != nil {
		v := *c.Experience
		c.Experience = &v
	}
	return c
}

func cloneInterview(i model.Interview) model.Interview {
	i.ScheduledDate = i.ScheduledDate.UTC()
	if i.Rating != nil {
		v := *i.Rating
		i.Rating = &v
	}
	return i
}
