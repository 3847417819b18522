package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/internal/domain/validation"
	"github.com/okian/talentflow/pkg/logger"
)

// ListCandidates returns candidates matching f ordered by id.
func (s *Service) ListCandidates(ctx context.Context, f model.CandidateFilter) ([]model.Candidate, error) {
	out, err := s.store.ListCandidates(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return out, nil
}

// GetCandidate returns ErrNotFound for an unknown id.
func (s *Service) GetCandidate(ctx context.Context, id int64) (model.Candidate, error) {
	c, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("candidate %d: %w", id, err)
	}
	return c, nil
}

// CreateCandidate validates c, stores it with defaults filled in and publishes
// a candidate_created event.
func (s *Service) CreateCandidate(ctx context.Context, c model.Candidate) (model.Candidate, error) { //nolint:gocritic // hugeParam
	c.ID = 0
	c.ApplyDefaults(s.now())
	if err := s.validate("candidate", c); err != nil {
		return model.Candidate{}, err
	}
	if err := s.checkPhase(c.Phase, c.Status); err != nil {
		return model.Candidate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.store.CreateCandidate(ctx, c)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("create candidate: %w", err)
	}
	s.afterMutationLocked(ctx, "candidate", "create")

	s.publish(ctx, model.Event{
		Kind:          model.EventCandidateCreated,
		CandidateID:   created.ID,
		CandidateName: created.FullName(),
		Position:      created.Position,
		Status:        string(created.Status),
		At:            created.AppliedDate,
	})
	s.logger.Debug(ctx, "candidate created", logger.Int64("id", created.ID))
	return created, nil
}

// UpdateCandidate merges p into candidate id. When the phase or status changes
// the resulting pair must be consistent.
func (s *Service) UpdateCandidate(ctx context.Context, id int64, p model.CandidatePatch) (model.Candidate, error) {
	if p.IsEmpty() {
		return model.Candidate{}, ErrEmptyPatch
	}
	if err := s.validate("candidate", p); err != nil {
		return model.Candidate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("candidate %d: %w", id, err)
	}
	if p.Phase != nil || p.Status != nil {
		merged := current
		merged.Apply(p, s.now())
		if err := s.checkPhase(merged.Phase, merged.Status); err != nil {
			return model.Candidate{}, err
		}
	}

	updated, err := s.store.UpdateCandidate(ctx, id, p)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("update candidate %d: %w", id, err)
	}
	s.afterMutationLocked(ctx, "candidate", "update")

	if updated.Status != current.Status {
		s.publish(ctx, model.Event{
			Kind:          model.EventCandidateStatusChanged,
			CandidateID:   updated.ID,
			CandidateName: updated.FullName(),
			Position:      updated.Position,
			Status:        string(updated.Status),
			At:            updated.LastUpdated,
		})
	}
	return updated, nil
}

// DeleteCandidate removes the candidate and its interviews.
func (s *Service) DeleteCandidate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		return fmt.Errorf("candidate %d: %w", id, err)
	}
	existed, err := s.store.DeleteCandidate(ctx, id)
	if err != nil {
		return fmt.Errorf("delete candidate %d: %w", id, err)
	}
	if !existed {
		return fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	s.afterMutationLocked(ctx, "candidate", "delete")

	s.publish(ctx, model.Event{
		Kind:          model.EventCandidateDeleted,
		CandidateID:   id,
		CandidateName: c.FullName(),
		Position:      c.Position,
	})
	return nil
}

// ImportCandidates creates every valid record whose email is not already
// present and returns how many were created. Invalid records are skipped.
func (s *Service) ImportCandidates(ctx context.Context, records []model.Candidate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := 0
	defer func() {
		if created > 0 {
			s.afterMutationLocked(ctx, "candidate", "import")
		}
	}()

	for i := range records {
		c := records[i]
		c.ID = 0
		c.ApplyDefaults(s.now())
		if err := s.validate("candidate", c); err != nil {
			s.logger.Warn(ctx, "skipping invalid import record", logger.String("email", c.Email), logger.Error(err))
			continue
		}
		if s.checkPhase(c.Phase, c.Status) != nil {
			s.logger.Warn(ctx, "skipping import record with mismatched phase", logger.String("email", c.Email))
			continue
		}

		if _, err := s.store.FindCandidateByEmail(ctx, c.Email); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return created, fmt.Errorf("lookup %s: %w", c.Email, err)
		}

		if _, err := s.store.CreateCandidate(ctx, c); err != nil {
			if errors.Is(err, ErrDuplicateEmail) {
				continue
			}
			return created, fmt.Errorf("import %s: %w", c.Email, err)
		}
		created++
	}
	return created, nil
}

// checkPhase rejects a status that does not belong to phase when enforcement is on.
func (s *Service) checkPhase(phase model.Phase, status model.CandidateStatus) error {
	if !s.enforcePhase || phase.Allows(status) {
		return nil
	}
	verr := validation.Field("status", fmt.Sprintf("%q is not a phase %d status", status, phase))
	return fmt.Errorf("%w: %w", ErrPhaseStatusMismatch, verr)
}
