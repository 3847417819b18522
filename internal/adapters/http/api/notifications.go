package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/talentflow/internal/domain/model"
)

// NotificationDependencies exposes the notification inbox.
type NotificationDependencies interface {
	Notifications(ctx context.Context, unreadOnly bool) ([]model.Notification, int)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context)
}

// NotificationHandler handles /api/notifications.
type NotificationHandler struct {
	deps NotificationDependencies
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(deps NotificationDependencies) *NotificationHandler {
	return &NotificationHandler{deps: deps}
}

type notificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	Unread        int                  `json:"unread"`
}

// HandleList handles GET /api/notifications?unread=.
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	unreadOnly, err := queryBool(r, "unread")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	list, unread := h.deps.Notifications(r.Context(), unreadOnly)
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: listOf(list), Unread: unread})
}

// HandleRead handles POST /api/notifications/{id}/read.
func (h *NotificationHandler) HandleRead(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.MarkNotificationRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "notification", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReadAll handles POST /api/notifications/read-all.
func (h *NotificationHandler) HandleReadAll(w http.ResponseWriter, r *http.Request) {
	h.deps.MarkAllNotificationsRead(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
