// Package api exposes the recruiting service over REST.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/talentflow/internal/app"
	"github.com/okian/talentflow/internal/domain/validation"
	"github.com/okian/talentflow/internal/syncer"
	"github.com/okian/talentflow/pkg/logger"
	"github.com/okian/talentflow/pkg/metrics"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	CandidateDependencies
	InterviewDependencies
	DashboardDependencies
	NotificationDependencies
	HealthDependencies
}

// SyncDependencies is the sync surface. *syncer.Manager satisfies it.
type SyncDependencies interface {
	Config() syncer.Config
	UpdateConfig(ctx context.Context, p syncer.ConfigPatch) (syncer.Config, error)
	Status() syncer.Status
	TestConnection(ctx context.Context) syncer.Status
	RunNow(ctx context.Context) (syncer.RunResult, error)
}

// Server wires HTTP routes for the recruiting API.
type Server struct {
	candidates    *CandidateHandler
	interviews    *InterviewHandler
	dashboard     *DashboardHandler
	notifications *NotificationHandler
	database      *DatabaseHandler
	health        *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, sync SyncDependencies) *Server {
	return &Server{
		candidates:    NewCandidateHandler(deps),
		interviews:    NewInterviewHandler(deps),
		dashboard:     NewDashboardHandler(deps),
		notifications: NewNotificationHandler(deps),
		database:      NewDatabaseHandler(sync),
		health:        NewHealthHandler(deps),
	}
}

// NewRouter returns a chi router with request ids, access logging, panic
// recovery and CORS for origins.
func NewRouter(origins []string) *chi.Mux {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(logger.Get().Named("http")), middleware.Recoverer)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.health.HandleHealth, "healthz"))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/candidates", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(s.candidates.HandleList, "candidates"))
			r.Post("/", MetricsMiddleware(s.candidates.HandleCreate, "candidates"))
			r.Get("/{id}", MetricsMiddleware(s.candidates.HandleGet, "candidate"))
			r.Put("/{id}", MetricsMiddleware(s.candidates.HandleUpdate, "candidate"))
			r.Patch("/{id}", MetricsMiddleware(s.candidates.HandleUpdate, "candidate"))
			r.Delete("/{id}", MetricsMiddleware(s.candidates.HandleDelete, "candidate"))
			r.Get("/{id}/interviews", MetricsMiddleware(s.candidates.HandleInterviews, "candidate_interviews"))
		})

		r.Route("/interviews", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(s.interviews.HandleList, "interviews"))
			r.Post("/", MetricsMiddleware(s.interviews.HandleCreate, "interviews"))
			r.Get("/today", MetricsMiddleware(s.interviews.HandleToday, "interviews_today"))
			r.Get("/{id}", MetricsMiddleware(s.interviews.HandleGet, "interview"))
			r.Put("/{id}", MetricsMiddleware(s.interviews.HandleUpdate, "interview"))
			r.Patch("/{id}", MetricsMiddleware(s.interviews.HandleUpdate, "interview"))
			r.Delete("/{id}", MetricsMiddleware(s.interviews.HandleDelete, "interview"))
		})

		r.Get("/dashboard/stats", MetricsMiddleware(s.dashboard.HandleStats, "dashboard_stats"))
		r.Get("/activity", MetricsMiddleware(s.dashboard.HandleActivity, "activity"))

		r.Get("/notifications", MetricsMiddleware(s.notifications.HandleList, "notifications"))
		r.Post("/notifications/read-all", MetricsMiddleware(s.notifications.HandleReadAll, "notifications_read_all"))
		r.Post("/notifications/{id}/read", MetricsMiddleware(s.notifications.HandleRead, "notification_read"))

		r.Get("/database/status", MetricsMiddleware(s.database.HandleStatus, "database_status"))
		r.Get("/database/config", MetricsMiddleware(s.database.HandleGetConfig, "database_config"))
		r.Post("/database/config", MetricsMiddleware(s.database.HandleUpdateConfig, "database_config"))
		r.Post("/database/test-connection", MetricsMiddleware(s.database.HandleTestConnection, "database_test"))
		r.Post("/sync/run", MetricsMiddleware(s.database.HandleRunSync, "sync_run"))
	})
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service errors onto status codes. Unexpected errors
// are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalid):
		msg := "validation failed"
		switch {
		case errors.Is(err, service.ErrUnknownCandidate):
			msg = service.ErrUnknownCandidate.Error()
		case errors.Is(err, service.ErrPhaseStatusMismatch):
			msg = service.ErrPhaseStatusMismatch.Error()
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "validation_error", Message: msg, Fields: validation.Fields(err)})
	case errors.Is(err, service.ErrEmptyPatch), errors.Is(err, syncer.ErrInvalidFrequency):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%s not found", entity))
	case errors.Is(err, service.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "conflict", service.ErrDuplicateEmail)
	case errors.Is(err, syncer.ErrSyncInProgress):
		writeError(w, http.StatusConflict, "conflict", err)
	default:
		logger.Get().Named("http").Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("requestID", middleware.GetReqID(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
	}
}

// decodeJSON reads a single JSON document from the request body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", ErrBadRequest, err)
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// queryInt parses an optional positive integer query parameter. Absent means 0.
func queryInt(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrBadQuery, name)
	}
	return v, nil
}

// queryDate parses an optional YYYY-MM-DD (or RFC 3339) query parameter in loc.
func queryDate(r *http.Request, name string, loc *time.Location) (time.Time, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD)", ErrBadQuery, name)
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", ErrBadQuery, name)
	}
	return v, nil
}

// listOf keeps empty results encoded as [] rather than null.
func listOf[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
