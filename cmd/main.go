package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/okian/talentflow/internal/adapters/http/api"
	"github.com/okian/talentflow/internal/adapters/http/swagger"
	"github.com/okian/talentflow/internal/adapters/repository"
	"github.com/okian/talentflow/internal/adapters/scheduler"
	service "github.com/okian/talentflow/internal/app"
	"github.com/okian/talentflow/internal/config"
	"github.com/okian/talentflow/internal/seeder"
	"github.com/okian/talentflow/internal/syncer"
	"github.com/okian/talentflow/pkg/logger"
	"github.com/okian/talentflow/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
	demoGenerated             = 10
	demoInterviews            = 5
	remindersJob              = "interview-reminders"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "server exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run wires every component and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error(ctx, "close store failed", logger.Error(err))
		}
	}()

	svc := service.New(store,
		service.WithLogger(log.Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.EventQueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithNotificationLimit(cfg.NotificationLimit),
		service.WithActivityLimit(cfg.ActivityLimit),
		service.WithPhaseEnforcement(cfg.EnforcePhaseStatus),
		service.WithReminderLead(cfg.ReminderLead),
		service.WithLocation(loc),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			log.Error(stopCtx, "service stop failed", logger.Error(err))
		}
	}()

	if cfg.SeedDemoData {
		seedDemoData(ctx, store, svc)
	}

	sched := scheduler.New(scheduler.WithLocation(loc))
	if err := scheduleReminders(sched, svc, cfg.ReminderInterval); err != nil {
		return err
	}

	mgr := newSyncManager(cfg, svc, sched, store)
	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("start sync: %w", err)
	}

	sched.Start(ctx)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sched.Stop(stopCtx); err != nil {
			log.Warn(stopCtx, "scheduler stop failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg, svc, mgr),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
	return nil
}

// openStore selects the storage backend named by cfg.Store.
func openStore(cfg *config.Config) (repository.Store, error) {
	gormCfg := &gorm.Config{Logger: repository.NewGormLogger(logger.Get().Named("gorm"))}
	switch cfg.Store {
	case config.StorePostgres:
		s, err := repository.OpenPostgres(cfg.DatabaseURL, gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return s, nil
	case config.StoreSQLite:
		s, err := repository.OpenSQLite(cfg.SQLitePath, gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return s, nil
	default:
		return repository.NewMemStore(), nil
	}
}

// seedDemoData loads the demo set into an empty store. Failures are logged only.
func seedDemoData(ctx context.Context, store repository.Store, svc *service.Service) {
	log := logger.Get()
	n, err := store.CountCandidates(ctx)
	if err != nil {
		log.Warn(ctx, "skip demo data; count failed", logger.Error(err))
		return
	}
	if n > 0 {
		log.Info(ctx, "skip demo data; store not empty", logger.Int("candidates", n))
		return
	}
	if _, err := seeder.Seed(ctx, svc, seeder.Config{
		Generated:  demoGenerated,
		Interviews: demoInterviews,
		Workers:    1,
	}); err != nil {
		log.Warn(ctx, "demo data incomplete", logger.Error(err))
	}
}

// scheduleReminders registers the periodic upcoming-interview check.
func scheduleReminders(sched *scheduler.Scheduler, svc *service.Service, every time.Duration) error {
	err := sched.Schedule(remindersJob, scheduler.Every(every), func(ctx context.Context) {
		if _, err := svc.RemindUpcoming(ctx); err != nil {
			logger.Get().Warn(ctx, "interview reminders failed", logger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	return nil
}

func newSyncManager(cfg *config.Config, svc *service.Service, sched *scheduler.Scheduler, store repository.Store) *syncer.Manager {
	var imp syncer.Importer = syncer.NoopImporter{}
	if cfg.ImportPath != "" {
		imp = syncer.FileImporter{Path: cfg.ImportPath}
	}
	return syncer.NewManager(
		syncer.Config{DatabaseURL: cfg.DatabaseURL, AutoSync: cfg.AutoSync, Frequency: cfg.SyncFrequency},
		svc,
		sched,
		syncer.WithImporter(imp),
		syncer.WithPinger(store),
	)
}

// newRouter mounts the docs and API routes.
func newRouter(cfg *config.Config, svc *service.Service, mgr *syncer.Manager) chi.Router {
	r := api.NewRouter(cfg.CORSOrigins)
	swagger.Register(r)
	api.NewServer(svc, mgr).Register(r)
	return r
}

// startSystemMetricsUpdater refreshes the system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
