package api

import (
	"context"
	"net/http"

	service "github.com/okian/talentflow/internal/app"
)

// HealthDependencies reports service health.
type HealthDependencies interface {
	Health(ctx context.Context) (service.Health, error)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps HealthDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /healthz. It answers 503 when the store is unreachable.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Health(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
