// Package seeder loads demo candidates and interviews, either straight into
// the service at startup or over HTTP into a running server.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/talentflow/internal/adapters/repository"
	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/pkg/logger"
)

// Target receives seeded records. *service.Service and *Client satisfy it.
type Target interface {
	CreateCandidate(ctx context.Context, c model.Candidate) (model.Candidate, error)
	CreateInterview(ctx context.Context, i model.Interview) (model.Interview, error)
}

// Config controls how much demo data is produced and how it is submitted.
type Config struct {
	// Generated is the number of synthetic candidates added after the named five.
	Generated int
	// Interviews is the number of synthetic interviews added after the fixed three.
	Interviews int
	// Workers bounds concurrent submissions. Values < 1 mean runtime.NumCPU().
	Workers int
	// EmailSuffix makes generated emails unique across runs.
	EmailSuffix string
	// Now anchors interview dates. Zero means time.Now().
	Now time.Time
}

// Stats summarises one seeding run.
type Stats struct {
	CandidatesCreated   int           `json:"candidatesCreated"`
	CandidatesDuplicate int           `json:"candidatesDuplicate"`
	CandidatesFailed    int           `json:"candidatesFailed"`
	InterviewsCreated   int           `json:"interviewsCreated"`
	InterviewsFailed    int           `json:"interviewsFailed"`
	Duration            time.Duration `json:"duration"`
}

// Seed submits the named and generated candidates to t, then interviews for
// the candidates it created. Duplicate emails are counted, not fatal.
func Seed(ctx context.Context, t Target, cfg Config) (Stats, error) {
	start := time.Now()
	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	log := logger.Get().Named("seeder")

	candidates := append(NamedCandidates(), GeneratedCandidates(cfg.Generated, cfg.EmailSuffix)...)
	log.Info(ctx, "seeding candidates", logger.Int("count", len(candidates)), logger.Int("workers", cfg.Workers))

	var (
		stats   Stats
		created atomic.Int64
		dup     atomic.Int64
		failed  atomic.Int64
		mu      sync.Mutex
		ids     []int64
	)
	submit(ctx, cfg.Workers, candidates, func(c model.Candidate) {
		out, err := t.CreateCandidate(ctx, c)
		switch {
		case err == nil:
			created.Add(1)
			mu.Lock()
			ids = append(ids, out.ID)
			mu.Unlock()
		case isDuplicate(err):
			dup.Add(1)
		default:
			failed.Add(1)
			log.Warn(ctx, "candidate not created", logger.String("email", c.Email), logger.Error(err))
		}
	})
	stats.CandidatesCreated = int(created.Load())
	stats.CandidatesDuplicate = int(dup.Load())
	stats.CandidatesFailed = int(failed.Load())

	if err := ctx.Err(); err != nil {
		stats.Duration = time.Since(start)
		return stats, fmt.Errorf("seed candidates: %w", err)
	}
	if len(ids) == 0 {
		stats.Duration = time.Since(start)
		if stats.CandidatesDuplicate > 0 {
			log.Info(ctx, "demo data already present")
			return stats, nil
		}
		return stats, ErrNoCandidates
	}

	// Workers finish out of order; sort so interview assignment is stable.
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	var ivCreated, ivFailed atomic.Int64
	submit(ctx, cfg.Workers, Interviews(ids, cfg.Now, cfg.Interviews), func(i model.Interview) {
		if _, err := t.CreateInterview(ctx, i); err != nil {
			ivFailed.Add(1)
			log.Warn(ctx, "interview not created", logger.Int64("candidateId", i.CandidateID), logger.Error(err))
			return
		}
		ivCreated.Add(1)
	})
	stats.InterviewsCreated = int(ivCreated.Load())
	stats.InterviewsFailed = int(ivFailed.Load())
	stats.Duration = time.Since(start)

	log.Info(ctx, "seeding completed",
		logger.Int("candidatesCreated", stats.CandidatesCreated),
		logger.Int("candidatesDuplicate", stats.CandidatesDuplicate),
		logger.Int("candidatesFailed", stats.CandidatesFailed),
		logger.Int("interviewsCreated", stats.InterviewsCreated),
		logger.Int("interviewsFailed", stats.InterviewsFailed),
		logger.Duration("duration", stats.Duration),
	)
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("seed interviews: %w", err)
	}
	return stats, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, repository.ErrDuplicateEmail)
}

// submit feeds items to workers goroutines and waits for them to finish.
func submit[T any](ctx context.Context, workers int, items []T, fn func(T)) {
	ch := make(chan T, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range ch {
				if ctx.Err() != nil {
					continue
				}
				fn(item)
			}
		}()
	}

	go func() {
		defer close(ch)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case ch <- item:
			}
		}
	}()
	wg.Wait()
}
