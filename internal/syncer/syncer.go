// Package syncer pulls candidates from an external source on demand or on a schedule.
package syncer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/talentflow/internal/adapters/scheduler"
	"github.com/okian/talentflow/internal/config"
	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/pkg/logger"
	"github.com/okian/talentflow/pkg/metrics"
)

const (
	jobName        = "auto-sync"
	maskedURL      = "***configured***"
	noDatabaseURL  = "No database URL configured"
	runResultOK    = "success"
	runResultError = "error"
)

// Config is the user-editable sync configuration.
type Config struct {
	DatabaseURL string `json:"databaseUrl"`
	AutoSync    bool   `json:"autoSync"`
	Frequency   string `json:"syncFrequency"`
}

// Masked hides the database URL.
func (c Config) Masked() Config {
	if c.DatabaseURL != "" {
		c.DatabaseURL = maskedURL
	}
	return c
}

// ConfigPatch carries a partial configuration update. Nil fields are left untouched.
type ConfigPatch struct {
	DatabaseURL *string `json:"databaseUrl"`
	AutoSync    *bool   `json:"autoSync"`
	Frequency   *string `json:"syncFrequency"`
}

// Status reports connectivity and sync timing.
type Status struct {
	IsConnected    bool       `json:"isConnected"`
	AutoSyncActive bool       `json:"autoSyncActive"`
	LastSync       *time.Time `json:"lastSync,omitempty"`
	NextSync       *time.Time `json:"nextSync,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// RunResult describes one completed sync attempt.
type RunResult struct {
	Status   model.SyncStatus `json:"status"`
	Fetched  int              `json:"fetched"`
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	At       time.Time        `json:"at"`
	Error    string           `json:"error,omitempty"`
}

// Target receives imported records and sync state.
type Target interface {
	ImportCandidates(ctx context.Context, records []model.Candidate) (int, error)
	SetSyncState(ctx context.Context, status model.SyncStatus, lastSync *time.Time)
	RecordSync(ctx context.Context, run model.SyncRun)
}

// Pinger checks connectivity to the configured database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler registers the periodic sync job.
type Scheduler interface {
	Schedule(name, spec string, fn scheduler.Job) error
	Remove(name string) bool
	Has(name string) bool
	Next(name string) (time.Time, bool)
}

// Manager owns the sync configuration and runs imports.
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	lastSync *time.Time
	lastErr  string

	running atomic.Bool

	target    Target
	scheduler Scheduler
	importer  Importer
	pinger    Pinger
	now       func() time.Time
	logger    logger.Logger
}

// NewManager creates a Manager. Call Start to register the auto-sync job.
func NewManager(cfg Config, target Target, sched Scheduler, opts ...Option) *Manager {
	cfg.Frequency = strings.TrimSpace(cfg.Frequency)
	if cfg.Frequency == "" {
		cfg.Frequency = config.SyncHourly
	}
	m := &Manager{
		cfg:       cfg,
		target:    target,
		scheduler: sched,
		importer:  NoopImporter{},
		now:       time.Now,
		logger:    logger.Get().Named("syncer"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Interval maps a sync frequency to its period. Manual and unknown values map to zero.
func Interval(frequency string) time.Duration {
	switch strings.TrimSpace(frequency) {
	case config.Sync15Min:
		return 15 * time.Minute
	case config.SyncHourly:
		return time.Hour
	case config.SyncDaily:
		return 24 * time.Hour
	default:
		return 0
	}
}

// Start registers the auto-sync job if the configuration asks for one.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.RLock()
	cfg := m.cfg
	m.mu.RUnlock()
	return m.reschedule(ctx, cfg)
}

func (m *Manager) reschedule(ctx context.Context, cfg Config) error {
	if m.scheduler == nil {
		return nil
	}
	m.scheduler.Remove(jobName)

	interval := Interval(cfg.Frequency)
	if !cfg.AutoSync || cfg.DatabaseURL == "" || interval == 0 {
		m.logger.Info(ctx, "auto-sync disabled")
		return nil
	}

	err := m.scheduler.Schedule(jobName, scheduler.Every(interval), func(jobCtx context.Context) {
		if _, err := m.RunNow(jobCtx); err != nil {
			m.logger.Warn(jobCtx, "scheduled sync failed", logger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule auto-sync: %w", err)
	}
	m.logger.Info(ctx, "auto-sync enabled", logger.String("frequency", cfg.Frequency))
	return nil
}

// Config returns the current configuration, unmasked.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// UpdateConfig merges p into the configuration and reschedules the auto-sync job.
func (m *Manager) UpdateConfig(ctx context.Context, p ConfigPatch) (Config, error) {
	if p.Frequency != nil && !config.ValidSyncFrequency(*p.Frequency) {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, *p.Frequency)
	}

	m.mu.Lock()
	if p.DatabaseURL != nil {
		m.cfg.DatabaseURL = *p.DatabaseURL
	}
	if p.AutoSync != nil {
		m.cfg.AutoSync = *p.AutoSync
	}
	if p.Frequency != nil {
		m.cfg.Frequency = strings.TrimSpace(*p.Frequency)
	}
	cfg := m.cfg
	m.mu.Unlock()

	if err := m.reschedule(ctx, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Status reports the last sync outcome and whether, and when, the next scheduled run happens.
func (m *Manager) Status() Status {
	m.mu.RLock()
	st := Status{
		IsConnected: m.cfg.DatabaseURL != "",
		Error:       m.lastErr,
	}
	if m.lastSync != nil {
		t := *m.lastSync
		st.LastSync = &t
	}
	m.mu.RUnlock()

	if m.scheduler != nil && m.scheduler.Has(jobName) {
		st.AutoSyncActive = true
		if next, ok := m.scheduler.Next(jobName); ok {
			st.NextSync = &next
		}
	}
	return st
}

// TestConnection checks that a database URL is set and the store answers.
func (m *Manager) TestConnection(ctx context.Context) Status {
	m.mu.RLock()
	url := m.cfg.DatabaseURL
	m.mu.RUnlock()

	if url == "" {
		return Status{IsConnected: false, Error: noDatabaseURL}
	}
	if m.pinger != nil {
		if err := m.pinger.Ping(ctx); err != nil {
			metrics.RecordErrorByComponent("syncer", "ping_failed")
			return Status{IsConnected: false, Error: err.Error()}
		}
	}
	st := m.Status()
	st.IsConnected = true
	st.Error = ""
	return st
}

// RunNow fetches records from the importer and hands them to the target.
// Failures are reported in the result and returned as an error.
func (m *Manager) RunNow(ctx context.Context) (RunResult, error) {
	if !m.running.CompareAndSwap(false, true) {
		return RunResult{}, ErrSyncInProgress
	}
	defer m.running.Store(false)

	m.mu.RLock()
	prev := m.lastSync
	m.mu.RUnlock()
	m.target.SetSyncState(ctx, model.SyncSyncing, prev)

	records, err := m.importer.Fetch(ctx)
	imported := 0
	if err == nil {
		imported, err = m.target.ImportCandidates(ctx, records)
	}
	at := m.now()

	res := RunResult{Fetched: len(records), Imported: imported, Skipped: len(records) - imported, At: at}
	if err != nil {
		res.Status = model.SyncError
		res.Error = err.Error()

		m.mu.Lock()
		m.lastErr = res.Error
		m.mu.Unlock()

		m.target.SetSyncState(ctx, model.SyncError, prev)
		m.target.RecordSync(ctx, model.SyncRun{At: at, Imported: imported, Err: res.Error})
		metrics.RecordSyncRun(runResultError, at)
		m.logger.Error(ctx, "sync failed", logger.Error(err))
		return res, fmt.Errorf("sync: %w", err)
	}

	res.Status = model.SyncSynced
	m.mu.Lock()
	m.lastSync = &at
	m.lastErr = ""
	m.mu.Unlock()

	m.target.SetSyncState(ctx, model.SyncSynced, &at)
	m.target.RecordSync(ctx, model.SyncRun{At: at, Imported: imported})
	metrics.RecordSyncRun(runResultOK, at)
	metrics.RecordSyncImported(imported)
	m.logger.Info(ctx, "sync completed",
		logger.Int("fetched", res.Fetched),
		logger.Int("imported", imported),
	)
	return res, nil
}
