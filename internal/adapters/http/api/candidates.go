package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/talentflow/internal/domain/model"
)

// CandidateDependencies defines the candidate operations handlers need.
type CandidateDependencies interface {
	ListCandidates(ctx context.Context, f model.CandidateFilter) ([]model.Candidate, error)
	GetCandidate(ctx context.Context, id int64) (model.Candidate, error)
	CreateCandidate(ctx context.Context, c model.Candidate) (model.Candidate, error)
	UpdateCandidate(ctx context.Context, id int64, p model.CandidatePatch) (model.Candidate, error)
	DeleteCandidate(ctx context.Context, id int64) error
	CandidateInterviews(ctx context.Context, candidateID int64) ([]model.Interview, error)
}

// CandidateHandler handles /api/candidates.
type CandidateHandler struct {
	deps CandidateDependencies
}

// NewCandidateHandler creates a new candidate handler.
func NewCandidateHandler(deps CandidateDependencies) *CandidateHandler {
	return &CandidateHandler{deps: deps}
}

// HandleList handles GET /api/candidates?phase=&status=&source=&search=.
func (h *CandidateHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	f, err := candidateFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	list, err := h.deps.ListCandidates(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, "candidate", err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(list))
}

func candidateFilter(r *http.Request) (model.CandidateFilter, error) {
	q := r.URL.Query()
	f := model.CandidateFilter{Search: strings.TrimSpace(q.Get("search"))}

	phase, err := queryInt(r, "phase")
	if err != nil {
		return f, err
	}
	if phase != 0 {
		f.Phase = model.Phase(phase)
		if !f.Phase.IsValid() {
			return f, fmt.Errorf("%w: phase must be 1 or 2", ErrBadQuery)
		}
	}
	if s := q.Get("status"); s != "" {
		f.Status = model.CandidateStatus(s)
		if !f.Status.IsValid() {
			return f, fmt.Errorf("%w: unknown status %q", ErrBadQuery, s)
		}
	}
	if s := q.Get("source"); s != "" {
		f.Source = model.Source(s)
		if !f.Source.IsValid() {
			return f, fmt.Errorf("%w: unknown source %q", ErrBadQuery, s)
		}
	}
	return f, nil
}

// HandleGet handles GET /api/candidates/{id}.
func (h *CandidateHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	c, err := h.deps.GetCandidate(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "candidate", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleCreate handles POST /api/candidates.
func (h *CandidateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var c model.Candidate
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	created, err := h.deps.CreateCandidate(r.Context(), c)
	if err != nil {
		writeServiceError(w, r, "candidate", err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/candidates/%d", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT and PATCH /api/candidates/{id}. Both merge partially.
func (h *CandidateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var p model.CandidatePatch
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	updated, err := h.deps.UpdateCandidate(r.Context(), id, p)
	if err != nil {
		writeServiceError(w, r, "candidate", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/candidates/{id}.
func (h *CandidateHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.DeleteCandidate(r.Context(), id); err != nil {
		writeServiceError(w, r, "candidate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleInterviews handles GET /api/candidates/{id}/interviews.
func (h *CandidateHandler) HandleInterviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	list, err := h.deps.CandidateInterviews(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "candidate", err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(list))
}
