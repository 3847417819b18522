package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/talentflow/internal/domain/model"
)

const memBackend = "memory"

// MemStore is a map-backed Store with auto-increment ids. Safe for concurrent use.
type MemStore struct {
	mu              sync.RWMutex
	candidates      map[int64]model.Candidate
	interviews      map[int64]model.Interview
	nextCandidateID int64
	nextInterviewID int64
	opts            options
}

// NewMemStore creates an empty MemStore.
func NewMemStore(opts ...Option) *MemStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemStore{
		candidates:      make(map[int64]model.Candidate),
		interviews:      make(map[int64]model.Interview),
		nextCandidateID: 1,
		nextInterviewID: 1,
		opts:            o,
	}
}

func (s *MemStore) ListCandidates(_ context.Context, f model.CandidateFilter) (out []model.Candidate, err error) {
	defer func(start time.Time) { observe(memBackend, "list_candidates", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out = make([]model.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if f.Matches(c) {
			out = append(out, cloneCandidate(c))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (s *MemStore) GetCandidate(_ context.Context, id int64) (c model.Candidate, err error) {
	defer func(start time.Time) { observe(memBackend, "get_candidate", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.candidates[id]
	if !ok {
		return model.Candidate{}, ErrNotFound
	}
	return cloneCandidate(c), nil
}

func (s *MemStore) FindCandidateByEmail(_ context.Context, email string) (c model.Candidate, err error) {
	defer func(start time.Time) { observe(memBackend, "find_candidate_by_email", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	if existing, ok := s.byEmailLocked(email, 0); ok {
		return cloneCandidate(existing), nil
	}
	return model.Candidate{}, ErrNotFound
}

// byEmailLocked finds a candidate other than skip whose email matches. Caller holds s.mu.
func (s *MemStore) byEmailLocked(email string, skip int64) (model.Candidate, bool) {
	email = strings.TrimSpace(email)
	for id, c := range s.candidates {
		if id != skip && strings.EqualFold(c.Email, email) {
			return c, true
		}
	}
	return model.Candidate{}, false
}

func (s *MemStore) CreateCandidate(_ context.Context, c model.Candidate) (_ model.Candidate, err error) {
	defer func(start time.Time) { observe(memBackend, "create_candidate", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ApplyDefaults(s.opts.now())
	if _, dup := s.byEmailLocked(c.Email, 0); dup {
		return model.Candidate{}, ErrDuplicateEmail
	}
	c.ID = s.nextCandidateID
	s.nextCandidateID++
	s.candidates[c.ID] = cloneCandidate(c)
	return cloneCandidate(c), nil
}

func (s *MemStore) UpdateCandidate(_ context.Context, id int64, p model.CandidatePatch) (_ model.Candidate, err error) {
	defer func(start time.Time) { observe(memBackend, "update_candidate", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.candidates[id]
	if !ok {
		return model.Candidate{}, ErrNotFound
	}
	if p.Email != nil {
		if _, dup := s.byEmailLocked(*p.Email, id); dup {
			return model.Candidate{}, ErrDuplicateEmail
		}
	}
	c.Apply(p, s.opts.now())
	s.candidates[id] = c
	return cloneCandidate(c), nil
}

func (s *MemStore) DeleteCandidate(_ context.Context, id int64) (_ bool, err error) {
	defer func(start time.Time) { observe(memBackend, "delete_candidate", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.candidates[id]; !ok {
		return false, nil
	}
	delete(s.candidates, id)
	for iid, i := range s.interviews {
		if i.CandidateID == id {
			delete(s.interviews, iid)
		}
	}
	return true, nil
}

func (s *MemStore) CountCandidates(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.candidates), nil
}

func (s *MemStore) ListInterviews(_ context.Context, f model.InterviewFilter) (out []model.Interview, err error) {
	defer func(start time.Time) { observe(memBackend, "list_interviews", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out = make([]model.Interview, 0, len(s.interviews))
	for _, i := range s.interviews {
		if f.Matches(i) {
			out = append(out, cloneInterview(i))
		}
	}
	sortInterviews(out)
	return out, nil
}

func sortInterviews(list []model.Interview) {
	sort.Slice(list, func(a, b int) bool {
		if !list[a].ScheduledDate.Equal(list[b].ScheduledDate) {
			return list[a].ScheduledDate.Before(list[b].ScheduledDate)
		}
		return list[a].ID < list[b].ID
	})
}

func (s *MemStore) GetInterview(_ context.Context, id int64) (i model.Interview, err error) {
	defer func(start time.Time) { observe(memBackend, "get_interview", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.interviews[id]
	if !ok {
		return model.Interview{}, ErrNotFound
	}
	return cloneInterview(i), nil
}

func (s *MemStore) CreateInterview(_ context.Context, i model.Interview) (_ model.Interview, err error) {
	defer func(start time.Time) { observe(memBackend, "create_interview", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.candidates[i.CandidateID]; !ok {
		return model.Interview{}, ErrCandidateMissing
	}
	i.ApplyDefaults()
	i.ID = s.nextInterviewID
	s.nextInterviewID++
	s.interviews[i.ID] = cloneInterview(i)
	return cloneInterview(i), nil
}

func (s *MemStore) UpdateInterview(_ context.Context, id int64, p model.InterviewPatch) (_ model.Interview, err error) {
	defer func(start time.Time) { observe(memBackend, "update_interview", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.interviews[id]
	if !ok {
		return model.Interview{}, ErrNotFound
	}
	if p.CandidateID != nil {
		if _, ok := s.candidates[*p.CandidateID]; !ok {
			return model.Interview{}, ErrCandidateMissing
		}
	}
	i.Apply(p)
	s.interviews[id] = i
	return cloneInterview(i), nil
}

func (s *MemStore) DeleteInterview(_ context.Context, id int64) (_ bool, err error) {
	defer func(start time.Time) { observe(memBackend, "delete_interview", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.interviews[id]; !ok {
		return false, nil
	}
	delete(s.interviews, id)
	return true, nil
}

// Ping always succeeds.
func (s *MemStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemStore) Close() error { return nil }
