package service

import (
	"time"

	"github.com/okian/talentflow/internal/domain/validation"
	"github.com/okian/talentflow/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of notification workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending pipeline events.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many event ids the inbox remembers.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithNotificationLimit caps the inbox size.
func WithNotificationLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.notificationLimit = limit
		}
	}
}

// WithActivityLimit sets the default activity feed length.
func WithActivityLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.activityLimit = limit
		}
	}
}

// WithPhaseEnforcement toggles rejecting statuses that do not belong to the phase.
func WithPhaseEnforcement(on bool) Option {
	return func(s *Service) {
		s.enforcePhase = on
	}
}

// WithReminderLead sets how far ahead RemindUpcoming looks.
func WithReminderLead(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.reminderLead = d
		}
	}
}

// WithLocation sets the time zone that defines "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithValidator replaces the default payload validator.
func WithValidator(v *validation.Validator) Option {
	return func(s *Service) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
