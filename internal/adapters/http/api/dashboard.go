package api

import (
	"context"
	"net/http"

	"github.com/okian/talentflow/internal/domain/model"
)

// DashboardDependencies provides the read-side projections.
type DashboardDependencies interface {
	Stats(ctx context.Context) (model.DashboardStats, error)
	Activity(ctx context.Context, limit int) ([]model.ActivityItem, error)
}

// DashboardHandler serves stats and the activity feed.
type DashboardHandler struct {
	deps DashboardDependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleStats handles GET /api/dashboard/stats.
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleActivity handles GET /api/activity?limit=.
func (h *DashboardHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	items, err := h.deps.Activity(r.Context(), int(limit))
	if err != nil {
		writeServiceError(w, r, "activity", err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items))
}
