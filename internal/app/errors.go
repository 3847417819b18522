package service

import (
	"errors"

	"github.com/okian/talentflow/internal/adapters/repository"
)

var (
	// ErrNotFound is returned when a candidate, interview or notification does not exist.
	ErrNotFound = repository.ErrNotFound
	// ErrDuplicateEmail is returned when a candidate email is already taken.
	ErrDuplicateEmail = repository.ErrDuplicateEmail
	// ErrUnknownCandidate is returned when an interview references a missing candidate.
	ErrUnknownCandidate = errors.New("unknown candidate")
	// ErrPhaseStatusMismatch is returned when a status does not belong to the candidate's phase.
	ErrPhaseStatusMismatch = errors.New("status does not belong to phase")
	// ErrEmptyPatch is returned when an update carries no fields.
	ErrEmptyPatch = errors.New("update contains no fields")
)
