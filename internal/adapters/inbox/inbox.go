// Package inbox keeps the user-facing notification list fed by pipeline events.
package inbox

import (
	"context"
	"sync"

	"github.com/okian/talentflow/internal/domain/dedupe"
	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/pkg/logger"
	"github.com/okian/talentflow/pkg/metrics"
)

// Inbox stores notifications newest first. It satisfies worker.Notifier.
type Inbox struct {
	mu     sync.RWMutex
	items  []model.Notification // index 0 is newest
	limit  int
	dedupe dedupe.Deduper
	logger logger.Logger
}

// New creates an empty Inbox.
func New(opts ...Option) *Inbox {
	b := &Inbox{
		limit:  defaultLimit,
		logger: logger.Get().Named("inbox"),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.dedupe == nil {
		b.dedupe = dedupe.NewInMemoryDeduper()
	}
	return b
}

// Notify converts e into a notification. Events already seen by id are ignored;
// ids of events that produce no notification are forgotten.
func (b *Inbox) Notify(ctx context.Context, e model.Event) error { //nolint:gocritic // hugeParam
	if e.ID != "" && b.dedupe.SeenAndRecord(ctx, e.ID) {
		metrics.RecordNotificationDuplicate()
		b.logger.Debug(ctx, "duplicate event ignored", logger.String("eventID", e.ID))
		return nil
	}

	n, ok := model.NotificationFor(e)
	if !ok {
		if e.ID != "" {
			b.dedupe.Unrecord(ctx, e.ID)
		}
		b.logger.Debug(ctx, "no notification for event kind", logger.String("kind", string(e.Kind)))
		return nil
	}

	b.mu.Lock()
	b.items = append(b.items, model.Notification{})
	copy(b.items[1:], b.items)
	b.items[0] = n
	if len(b.items) > b.limit {
		b.items = b.items[:b.limit]
	}
	b.mu.Unlock()

	metrics.RecordNotificationCreated(string(n.Type))
	return nil
}

// List returns notifications newest first.
func (b *Inbox) List(unreadOnly bool) []model.Notification {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Notification, 0, len(b.items))
	for _, n := range b.items {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out
}

// MarkRead flags one notification as read.
func (b *Inbox) MarkRead(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.items {
		if b.items[i].ID == id {
			b.items[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

// MarkAllRead flags every notification as read.
func (b *Inbox) MarkAllRead() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.items {
		b.items[i].Read = true
	}
}

// UnreadCount returns how many notifications are unread.
func (b *Inbox) UnreadCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, item := range b.items {
		if !item.Read {
			n++
		}
	}
	return n
}
