// Package worker delivers queued pipeline events to a Notifier.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/pkg/logger"
	"github.com/okian/talentflow/pkg/metrics"
)

const (
	metricsUpdateInterval = 5 * time.Second
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Event is what workers read off the queue.
type Event = model.Event

// Notifier consumes a single pipeline event.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes events until its queue is drained or it is told to stop.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the event in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing events.
type InMemoryWorker struct {
	queue    Queue
	notifier Notifier
	name     string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	onProcessed func()
	logger      logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, notifier Notifier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		notifier: notifier,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	eventChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing event", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker and waits for Run to return.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.signal()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) signal() {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
}

func (w *InMemoryWorker) processEvent(ctx context.Context, event Event) error { //nolint:gocritic // hugeParam: Event must be passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.notifier.Notify(ctx, event); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "notify_error")
		metrics.RecordErrorByType("notify_error", "medium")
		w.logger.Error(ctx, "notification failed for event",
			logger.String("eventID", event.ID),
			logger.String("kind", string(event.Kind)),
			logger.Error(err),
		)
		return fmt.Errorf("notify event %s: %w", event.ID, err)
	}

	if w.onProcessed != nil {
		w.onProcessed()
	}
	return nil
}

// Pool manages multiple workers reading from one queue.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	notifier Notifier

	shutdown     chan struct{}
	shutdownOnce sync.Once

	processed atomic.Int64

	logger logger.Logger
}

// NewPool creates a new worker pool. workerCount < 1 means one worker per CPU.
func NewPool(workerCount int, queue Queue, notifier Notifier) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		notifier: notifier,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			notifier,
			WithName("worker-"+strconv.Itoa(i)),
			withCounter(func() { pool.processed.Add(1) }),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Processed returns how many events were delivered successfully.
func (p *Pool) Processed() int64 {
	return p.processed.Load()
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics(ctx)
		}
	}
}

func (p *Pool) updateMetrics(ctx context.Context) {
	if l, ok := p.queue.(interface{ Len(context.Context) int }); ok {
		metrics.UpdateQueueSize(l.Len(ctx))
	}
}

func (p *Pool) signal() {
	p.shutdownOnce.Do(func() { close(p.shutdown) })
}

// Stop stops all workers without draining the queue.
func (p *Pool) Stop() {
	p.signal()
	for _, worker := range p.workers {
		worker.signal()
	}

	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerCount(0)
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	p.signal()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			timedOut = true
			worker.signal()
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)

	if timedOut {
		return fmt.Errorf("pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
