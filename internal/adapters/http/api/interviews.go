package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/talentflow/internal/domain/model"
	"github.com/okian/talentflow/internal/domain/pipeline"
)

// InterviewDependencies defines the interview operations handlers need.
type InterviewDependencies interface {
	ListInterviews(ctx context.Context, f model.InterviewFilter) ([]model.Interview, error)
	InterviewsToday(ctx context.Context) ([]model.Interview, error)
	GetInterview(ctx context.Context, id int64) (model.Interview, error)
	CreateInterview(ctx context.Context, i model.Interview) (model.Interview, error)
	UpdateInterview(ctx context.Context, id int64, p model.InterviewPatch) (model.Interview, error)
	DeleteInterview(ctx context.Context, id int64) error
	Location() *time.Location
}

// InterviewHandler handles /api/interviews.
type InterviewHandler struct {
	deps InterviewDependencies
}

// NewInterviewHandler creates a new interview handler.
func NewInterviewHandler(deps InterviewDependencies) *InterviewHandler {
	return &InterviewHandler{deps: deps}
}

// HandleList handles GET /api/interviews?candidateId=&date=&status=.
func (h *InterviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var f model.InterviewFilter

	candidateID, err := queryInt(r, "candidateId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	f.CandidateID = candidateID

	if s := r.URL.Query().Get("status"); s != "" {
		f.Status = model.InterviewStatus(s)
		if !f.Status.IsValid() {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: unknown status %q", ErrBadQuery, s))
			return
		}
	}

	loc := h.deps.Location()
	date, ok, err := queryDate(r, "date", loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if ok {
		f.From, f.To = pipeline.DayWindow(date, loc)
	}

	list, err := h.deps.ListInterviews(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, "interview", err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(list))
}

// HandleToday handles GET /api/interviews/today.
func (h *InterviewHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.InterviewsToday(r.Context())
	if err != nil {
		writeServiceError(w, r, "interview", err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(list))
}

// HandleGet handles GET /api/interviews/{id}.
func (h *InterviewHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	i, err := h.deps.GetInterview(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "interview", err)
		return
	}
	writeJSON(w, http.StatusOK, i)
}

// HandleCreate handles POST /api/interviews.
func (h *InterviewHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var i model.Interview
	if err := decodeJSON(r, &i); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	created, err := h.deps.CreateInterview(r.Context(), i)
	if err != nil {
		writeServiceError(w, r, "interview", err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/interviews/%d", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT and PATCH /api/interviews/{id}.
func (h *InterviewHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var p model.InterviewPatch
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	updated, err := h.deps.UpdateInterview(r.Context(), id, p)
	if err != nil {
		writeServiceError(w, r, "interview", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/interviews/{id}.
func (h *InterviewHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.DeleteInterview(r.Context(), id); err != nil {
		writeServiceError(w, r, "interview", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
