package inbox

import (
	"github.com/okian/talentflow/internal/domain/dedupe"
	"github.com/okian/talentflow/pkg/logger"
)

const defaultLimit = 200

// Option applies a configuration option to the Inbox.
type Option func(*Inbox)

// WithLimit caps how many notifications are kept. Oldest are dropped first.
func WithLimit(limit int) Option {
	return func(b *Inbox) {
		if limit > 0 {
			b.limit = limit
		}
	}
}

// WithDeduper replaces the default event id deduper.
func WithDeduper(d dedupe.Deduper) Option {
	return func(b *Inbox) {
		if d != nil {
			b.dedupe = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(b *Inbox) {
		if l != nil {
			b.logger = l
		}
	}
}
