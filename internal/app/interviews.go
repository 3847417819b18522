package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/talentflow/internal/adapters/repository"
	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/internal/domain/pipeline"
	"github.com/okian/talentflow/internal/domain/validation"
)

func unknownCandidate(id int64) error {
	return fmt.Errorf("%w %d: %w", ErrUnknownCandidate, id,
		validation.Field("candidateId", "does not reference an existing candidate"))
}

// ListInterviews returns interviews matching f ordered by scheduled date.
func (s *Service) ListInterviews(ctx context.Context, f model.InterviewFilter) ([]model.Interview, error) {
	out, err := s.store.ListInterviews(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	return out, nil
}

// CandidateInterviews lists the interviews of one candidate. ErrNotFound if the candidate is unknown.
func (s *Service) CandidateInterviews(ctx context.Context, candidateID int64) ([]model.Interview, error) {
	if _, err := s.store.GetCandidate(ctx, candidateID); err != nil {
		return nil, fmt.Errorf("candidate %d: %w", candidateID, err)
	}
	return s.ListInterviews(ctx, model.InterviewFilter{CandidateID: candidateID})
}

// InterviewsForDate lists interviews scheduled on the local day containing date.
func (s *Service) InterviewsForDate(ctx context.Context, date time.Time) ([]model.Interview, error) {
	start, end := pipeline.DayWindow(date, s.loc)
	return s.ListInterviews(ctx, model.InterviewFilter{From: start, To: end})
}

// InterviewsToday lists interviews scheduled today.
func (s *Service) InterviewsToday(ctx context.Context) ([]model.Interview, error) {
	return s.InterviewsForDate(ctx, s.now())
}

// Location is the time zone that defines a day.
func (s *Service) Location() *time.Location {
	return s.loc
}

// GetInterview returns ErrNotFound for an unknown id.
func (s *Service) GetInterview(ctx context.Context, id int64) (model.Interview, error) {
	i, err := s.store.GetInterview(ctx, id)
	if err != nil {
		return model.Interview{}, fmt.Errorf("interview %d: %w", id, err)
	}
	return i, nil
}

// CreateInterview validates and stores i and publishes interview_scheduled.
func (s *Service) CreateInterview(ctx context.Context, i model.Interview) (model.Interview, error) { //nolint:gocritic // hugeParam
	i.ID = 0
	i.ApplyDefaults()
	if err := s.validate("interview", i); err != nil {
		return model.Interview{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.store.CreateInterview(ctx, i)
	if errors.Is(err, repository.ErrCandidateMissing) {
		return model.Interview{}, unknownCandidate(i.CandidateID)
	}
	if err != nil {
		return model.Interview{}, fmt.Errorf("create interview: %w", err)
	}
	s.afterMutationLocked(ctx, "interview", "create")

	s.publish(ctx, s.interviewEvent(ctx, model.EventInterviewScheduled, created))
	return created, nil
}

// UpdateInterview merges p into interview id. Moving to Completed or
// Cancelled publishes the matching event.
func (s *Service) UpdateInterview(ctx context.Context, id int64, p model.InterviewPatch) (model.Interview, error) {
	if p.IsEmpty() {
		return model.Interview{}, ErrEmptyPatch
	}
	if err := s.validate("interview", p); err != nil {
		return model.Interview{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.GetInterview(ctx, id)
	if err != nil {
		return model.Interview{}, fmt.Errorf("interview %d: %w", id, err)
	}
	updated, err := s.store.UpdateInterview(ctx, id, p)
	if errors.Is(err, repository.ErrCandidateMissing) {
		return model.Interview{}, unknownCandidate(*p.CandidateID)
	}
	if err != nil {
		return model.Interview{}, fmt.Errorf("update interview %d: %w", id, err)
	}
	s.afterMutationLocked(ctx, "interview", "update")

	if updated.Status != current.Status {
		switch updated.Status {
		case model.InterviewCompleted:
			s.publish(ctx, s.interviewEvent(ctx, model.EventInterviewCompleted, updated))
		case model.InterviewCancelled:
			s.publish(ctx, s.interviewEvent(ctx, model.EventInterviewCancelled, updated))
		}
	}
	return updated, nil
}

// DeleteInterview removes interview id.
func (s *Service) DeleteInterview(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existed, err := s.store.DeleteInterview(ctx, id)
	if err != nil {
		return fmt.Errorf("delete interview %d: %w", id, err)
	}
	if !existed {
		return fmt.Errorf("interview %d: %w", id, ErrNotFound)
	}
	s.afterMutationLocked(ctx, "interview", "delete")
	return nil
}

// interviewEvent builds an event for i, resolving the candidate name.
func (s *Service) interviewEvent(ctx context.Context, kind model.EventKind, i model.Interview) model.Event { //nolint:gocritic // hugeParam
	e := model.Event{
		Kind:          kind,
		CandidateID:   i.CandidateID,
		InterviewID:   i.ID,
		Interviewer:   i.Interviewer,
		InterviewType: i.Type,
		Status:        string(i.Status),
		ScheduledAt:   i.ScheduledDate.In(s.loc),
	}
	if c, err := s.store.GetCandidate(ctx, i.CandidateID); err == nil {
		e.CandidateName = c.FullName()
		e.Position = c.Position
	}
	return e
}

// RemindUpcoming publishes a reminder for every scheduled interview that starts
// within the reminder lead. Reminder ids are derived from the interview and its
// start time, so repeated calls notify once per interview slot.
func (s *Service) RemindUpcoming(ctx context.Context) (int, error) {
	now := s.now()
	upcoming, err := s.store.ListInterviews(ctx, model.InterviewFilter{
		Status: model.InterviewScheduled,
		From:   now,
		To:     now.Add(s.reminderLead),
	})
	if err != nil {
		return 0, fmt.Errorf("list upcoming interviews: %w", err)
	}

	for _, i := range upcoming {
		e := s.interviewEvent(ctx, model.EventInterviewReminder, i)
		e.ID = fmt.Sprintf("interview-%d-reminder-%d", i.ID, i.ScheduledDate.Unix())
		s.publish(ctx, e)
	}
	return len(upcoming), nil
}
