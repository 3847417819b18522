package syncer

import (
	"time"

	"github.com/okian/talentflow/pkg/logger"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithImporter sets where RunNow pulls records from.
func WithImporter(imp Importer) Option {
	return func(m *Manager) {
		if imp != nil {
			m.importer = imp
		}
	}
}

// WithPinger sets what TestConnection checks.
func WithPinger(p Pinger) Option {
	return func(m *Manager) {
		m.pinger = p
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
