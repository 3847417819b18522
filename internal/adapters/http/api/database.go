package api

import (
	"errors"
	"net/http"

	"github.com/okian/talentflow/internal/syncer"
)

// DatabaseHandler handles the external sync endpoints.
type DatabaseHandler struct {
	sync SyncDependencies
}

// NewDatabaseHandler creates a new database handler.
func NewDatabaseHandler(sync SyncDependencies) *DatabaseHandler {
	return &DatabaseHandler{sync: sync}
}

type configUpdateResponse struct {
	Message string        `json:"message"`
	Config  syncer.Config `json:"config"`
}

// HandleStatus handles GET /api/database/status.
func (h *DatabaseHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sync.TestConnection(r.Context()))
}

// HandleGetConfig handles GET /api/database/config. The URL is masked.
func (h *DatabaseHandler) HandleGetConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.sync.Config().Masked())
}

// HandleUpdateConfig handles POST /api/database/config.
func (h *DatabaseHandler) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var p syncer.ConfigPatch
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	cfg, err := h.sync.UpdateConfig(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, "config", err)
		return
	}
	writeJSON(w, http.StatusOK, configUpdateResponse{
		Message: "Database configuration updated successfully",
		Config:  cfg.Masked(),
	})
}

// HandleTestConnection handles POST /api/database/test-connection.
func (h *DatabaseHandler) HandleTestConnection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sync.TestConnection(r.Context()))
}

// HandleRunSync handles POST /api/sync/run. A failed import still answers 202
// with the error in the result; only a concurrent run is rejected.
func (h *DatabaseHandler) HandleRunSync(w http.ResponseWriter, r *http.Request) {
	res, err := h.sync.RunNow(r.Context())
	if errors.Is(err, syncer.ErrSyncInProgress) {
		writeServiceError(w, r, "sync", err)
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}
