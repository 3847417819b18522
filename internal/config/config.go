// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and TALENTFLOW_* environment variables on top.
// - Errors returned from this package wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Storage backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Sync frequencies accepted by sync_frequency.
const (
	SyncManual = "manual"
	Sync15Min  = "15min"
	SyncHourly = "1hour"
	SyncDaily  = "daily"
)

const minReminder = time.Second

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the storage backend: memory, postgres or sqlite.
	Store string `koanf:"store"`

	// DatabaseURL is the postgres DSN. It also marks sync as configured.
	DatabaseURL string `koanf:"database_url"`

	// SQLitePath is the database file used when Store is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// SeedDemoData loads the demo candidates at startup.
	SeedDemoData bool `koanf:"seed_demo_data"`

	// Timezone names the location used for "today" windows.
	Timezone string `koanf:"timezone"`

	// EnforcePhaseStatus rejects statuses that do not belong to the candidate's phase.
	EnforcePhaseStatus bool `koanf:"enforce_phase_status"`

	// EventQueueSize bounds the in-memory pipeline event queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of notification workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds how many event ids the inbox remembers.
	DedupeSize int `koanf:"dedupe_size"`

	// NotificationLimit caps the number of notifications kept in the inbox.
	NotificationLimit int `koanf:"notification_limit"`

	// ActivityLimit is the default and maximum size of GET /api/activity.
	ActivityLimit int `koanf:"activity_limit"`

	// AutoSync and SyncFrequency seed the sync configuration.
	AutoSync      bool   `koanf:"auto_sync"`
	SyncFrequency string `koanf:"sync_frequency"`

	// ImportPath points at a YAML or JSON candidate file consumed by sync runs.
	ImportPath string `koanf:"import_path"`

	// ReminderInterval is how often upcoming interviews are checked; ReminderLead how far ahead.
	ReminderInterval time.Duration `koanf:"reminder_interval"`
	ReminderLead     time.Duration `koanf:"reminder_lead"`

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		Store:              StoreMemory,
		SQLitePath:         "talentflow.db",
		SeedDemoData:       false,
		Timezone:           "Local",
		EnforcePhaseStatus: true,
		EventQueueSize:     10_000,
		WorkerCount:        runtime.NumCPU(),
		DedupeSize:         50_000,
		NotificationLimit:  200,
		ActivityLimit:      10,
		AutoSync:           false,
		SyncFrequency:      SyncHourly,
		ReminderInterval:   5 * time.Minute,
		ReminderLead:       time.Hour,
		CORSOrigins:        []string{"*"},
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownStore, c.Store)
	}
	if !ValidSyncFrequency(c.SyncFrequency) {
		return fmt.Errorf("%w: unknown sync_frequency %q", ErrInvalidConfig, c.SyncFrequency)
	}
	if c.ReminderInterval < minReminder {
		return fmt.Errorf("%w: reminder_interval must be at least %s", ErrInvalidConfig, minReminder)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ValidSyncFrequency reports whether f is a known sync frequency.
func ValidSyncFrequency(f string) bool {
	switch strings.TrimSpace(f) {
	case SyncManual, Sync15Min, SyncHourly, SyncDaily:
		return true
	}
	return false
}
