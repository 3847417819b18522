package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/talentflow/internal/adapters/inbox"
	"github.com/okian/talentflow/internal/domain/model"
)

// Notifications lists the inbox newest first along with the unread count.
func (s *Service) Notifications(_ context.Context, unreadOnly bool) ([]model.Notification, int) {
	b := s.notificationInbox()
	if b == nil {
		return []model.Notification{}, 0
	}
	return b.List(unreadOnly), b.UnreadCount()
}

// MarkNotificationRead flags one notification. ErrNotFound if id is unknown.
func (s *Service) MarkNotificationRead(_ context.Context, id string) error {
	b := s.notificationInbox()
	if b == nil {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	if err := b.MarkRead(id); err != nil {
		if errors.Is(err, inbox.ErrNotFound) {
			return fmt.Errorf("notification %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

// MarkAllNotificationsRead flags every notification.
func (s *Service) MarkAllNotificationsRead(context.Context) {
	if b := s.notificationInbox(); b != nil {
		b.MarkAllRead()
	}
}

func (s *Service) notificationInbox() *inbox.Inbox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inbox
}
