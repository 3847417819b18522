// Package scheduler runs named background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/talentflow/pkg/logger"
	"github.com/okian/talentflow/pkg/metrics"
)

// Job is the unit of work run on each tick.
type Job func(ctx context.Context)

// Scheduler wraps a cron runner and keys its entries by name so they can be
// replaced when configuration changes.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	loc     *time.Location
	ctx     context.Context
	started bool
	logger  logger.Logger
}

// New creates a stopped Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		entries: make(map[string]cron.EntryID),
		loc:     time.Local,
		ctx:     context.Background(),
		logger:  logger.Get().Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	cl := cronLogger{log: s.logger}
	s.cron = cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return s
}

// Every returns the cron expression for a fixed interval.
func Every(d time.Duration) string {
	return "@every " + d.String()
}

// Schedule registers fn under name, replacing any job already using that name.
func (s *Scheduler) Schedule(name, spec string, fn Job) error {
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		start := time.Now()
		fn(ctx)
		s.logger.Debug(ctx, "job finished",
			logger.String("job", name),
			logger.Duration("elapsed", time.Since(start)),
		)
	})
	if err != nil {
		metrics.RecordErrorByComponent("scheduler", "invalid_spec")
		return fmt.Errorf("%w %q for job %s: %v", ErrInvalidSpec, spec, name, err)
	}

	if old, ok := s.entries[name]; ok {
		s.cron.Remove(old)
	}
	s.entries[name] = id
	s.logger.Info(s.ctx, "job scheduled", logger.String("job", name), logger.String("spec", spec))
	return nil
}

// Remove unregisters name. It reports whether a job was removed.
func (s *Scheduler) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return false
	}
	s.cron.Remove(id)
	delete(s.entries, name)
	return true
}

// Has reports whether a job named name is registered.
func (s *Scheduler) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[name]
	return ok
}

// Next returns when name runs next. ok is false if the job is unknown or
// the scheduler has not computed a run time yet.
func (s *Scheduler) Next(name string) (next time.Time, ok bool) {
	s.mu.Lock()
	id, found := s.entries[name]
	s.mu.Unlock()
	if !found {
		return time.Time{}, false
	}

	entry := s.cron.Entry(id)
	if !entry.Valid() || entry.Next.IsZero() {
		return time.Time{}, false
	}
	return entry.Next, true
}

// Start runs the scheduler in the background. ctx is handed to every job.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.ctx = ctx
	s.started = true
	s.cron.Start()
	s.logger.Info(ctx, "scheduler started", logger.Int("jobs", len(s.entries)))
}

// Stop halts the scheduler and waits for running jobs or ctx, whichever is first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info(ctx, "scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// cronLogger routes cron's internal logging through the service logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug(context.Background(), msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	metrics.RecordErrorByComponent("scheduler", "job_error")
	c.log.Error(context.Background(), msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, logger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return fields
}
