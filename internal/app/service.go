// Package service implements the recruiting pipeline behind the HTTP API:
// candidate and interview CRUD, the dashboard projections, and the
// notification pipeline fed by every mutation.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/talentflow/internal/adapters/inbox"
	eventqueue "github.com/okian/talentflow/internal/adapters/mq/queue"
	workerpool "github.com/okian/talentflow/internal/adapters/mq/worker"
	"github.com/okian/talentflow/internal/adapters/repository"
	"github.com/okian/talentflow/internal/domain/dedupe"
	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/internal/domain/pipeline"
	"github.com/okian/talentflow/internal/domain/validation"
	"github.com/okian/talentflow/pkg/logger"
	"github.com/okian/talentflow/pkg/metrics"
)

const (
	defaultQueueSize         = 10_000
	defaultDedupeSize        = 50_000
	defaultNotificationLimit = 200
	defaultReminderLead      = time.Hour
	maxActivityLimit         = 100
	maxSyncRuns              = 50
)

// Service is safe for concurrent use. Every mutation and the stats recompute
// that follows it run under one lock, so readers never see stale counts.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	validator *validation.Validator

	// notification pipeline, built in Start
	inbox      *inbox.Inbox
	eventQueue atomic.Pointer[eventqueue.InMemoryQueue]
	workerPool *workerpool.Pool
	stopPool   context.CancelFunc

	// derived state
	stats    model.DashboardStats
	statsDay time.Time
	syncRuns []model.SyncRun
	syncSeq  int64

	// configuration
	workerCount       int
	queueSize         int
	dedupeSize        int
	notificationLimit int
	activityLimit     int
	enforcePhase      bool
	reminderLead      time.Duration
	loc               *time.Location
	now               func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:             store,
		workerCount:       runtime.NumCPU(),
		queueSize:         defaultQueueSize,
		dedupeSize:        defaultDedupeSize,
		notificationLimit: defaultNotificationLimit,
		activityLimit:     pipeline.DefaultActivityLimit,
		enforcePhase:      true,
		reminderLead:      defaultReminderLead,
		loc:               time.Local,
		now:               time.Now,
		stats:             model.DashboardStats{SyncStatus: model.SyncSynced},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = validation.New()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start builds the notification pipeline and computes the initial stats.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting recruiting service...")

	s.inbox = inbox.New(
		inbox.WithLimit(s.notificationLimit),
		inbox.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))),
	)
	q := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, q, s.inbox)
	s.eventQueue.Store(q)
	// Workers outlive ctx so events published during shutdown still reach the inbox; Stop ends them.
	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stopPool = cancel
	s.workerPool.Start(poolCtx)

	if err := s.recomputeLocked(ctx); err != nil {
		return fmt.Errorf("initial stats: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "recruiting service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("enforcePhaseStatus", s.enforcePhase),
	)
	return nil
}

// Stop drains pending events into the inbox and stops the workers.
// The store is left open for the caller to close.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	pool, cancel := s.workerPool, s.stopPool
	s.mu.Unlock()
	defer cancel()

	s.logger.Info(ctx, "stopping recruiting service...")
	if err := pool.Shutdown(ctx); err != nil {
		pool.Stop()
		return fmt.Errorf("stop workers: %w", err)
	}
	s.logger.Info(ctx, "recruiting service stopped")
	return nil
}

// Health reports whether the store is reachable plus pipeline gauges.
type Health struct {
	Status      string `json:"status"`
	Store       string `json:"store"`
	QueueLength int    `json:"queueLength"`
	Workers     int    `json:"workers"`
}

// Health pings the store.
func (s *Service) Health(ctx context.Context) (Health, error) {
	h := Health{Status: "ok", Store: "ok"}

	s.mu.RLock()
	if q := s.eventQueue.Load(); q != nil {
		h.QueueLength = q.Len(ctx)
	}
	if s.workerPool != nil {
		h.Workers = s.workerPool.Size()
	}
	s.mu.RUnlock()

	if err := s.store.Ping(ctx); err != nil {
		h.Status, h.Store = "unavailable", err.Error()
		return h, fmt.Errorf("store ping: %w", err)
	}
	return h, nil
}

// Stats returns the dashboard snapshot, recomputing it first if the day rolled over.
func (s *Service) Stats(ctx context.Context) (model.DashboardStats, error) {
	start, _ := pipeline.DayWindow(s.now(), s.loc)

	s.mu.RLock()
	if s.statsDay.Equal(start) {
		out := s.statsCopyLocked()
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.statsDay.Equal(start) {
		if err := s.recomputeLocked(ctx); err != nil {
			return model.DashboardStats{}, err
		}
	}
	return s.statsCopyLocked(), nil
}

func (s *Service) statsCopyLocked() model.DashboardStats {
	out := s.stats
	if out.LastSync != nil {
		t := *out.LastSync
		out.LastSync = &t
	}
	return out
}

// recomputeLocked rebuilds the counts from the store. Caller holds s.mu for writing.
func (s *Service) recomputeLocked(ctx context.Context) error {
	start, end := pipeline.DayWindow(s.now(), s.loc)

	candidates, err := s.store.ListCandidates(ctx, model.CandidateFilter{})
	if err != nil {
		return fmt.Errorf("list candidates: %w", err)
	}
	today, err := s.store.ListInterviews(ctx, model.InterviewFilter{From: start, To: end})
	if err != nil {
		return fmt.Errorf("list interviews: %w", err)
	}

	next := pipeline.ComputeStats(candidates, today, start, end)
	next.SyncStatus = s.stats.SyncStatus
	next.LastSync = s.stats.LastSync
	s.stats = next
	s.statsDay = start

	metrics.RecordStatsRecompute()
	metrics.UpdatePipelineCounts(next.TotalCandidates, next.Phase1Count, next.Phase2Count, next.HiredCount, next.InterviewsToday)
	return nil
}

// afterMutationLocked refreshes stats once a write succeeded. A failed refresh
// is logged; the write itself stands.
func (s *Service) afterMutationLocked(ctx context.Context, entity, op string) {
	metrics.RecordMutation(entity, op)
	if err := s.recomputeLocked(ctx); err != nil {
		metrics.RecordErrorByComponent("service", "stats_recompute")
		s.logger.Error(ctx, "stats recompute failed", logger.String("entity", entity), logger.String("op", op), logger.Error(err))
	}
}

// publish hands e to the notification pipeline. A full queue drops the event.
func (s *Service) publish(ctx context.Context, e model.Event) { //nolint:gocritic // hugeParam
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = s.now()
	}
	q := s.eventQueue.Load()
	if q == nil {
		s.logger.Debug(ctx, "event dropped, service not started", logger.String("kind", string(e.Kind)))
		return
	}
	if !q.Enqueue(ctx, e) {
		s.logger.Warn(ctx, "event queue full, dropping event",
			logger.String("eventID", e.ID),
			logger.String("kind", string(e.Kind)),
		)
	}
}

// validate runs struct validation and counts failures per entity.
func (s *Service) validate(entity string, v any) error {
	if err := s.validator.Struct(v); err != nil {
		metrics.RecordValidationError(entity)
		return err
	}
	return nil
}
