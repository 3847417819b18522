package repository

import "time"

type options struct {
	now func() time.Time
}

func defaultOptions() options {
	return options{now: time.Now}
}

// Option applies a configuration option to a Store implementation.
type Option func(*options)

// WithClock overrides the time source used for appliedDate and lastUpdated.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
