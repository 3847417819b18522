package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("a candidate with this email already exists")
	// ErrCandidateMissing is returned when an interview references a candidate that does not exist.
	ErrCandidateMissing = errors.New("referenced candidate does not exist")
)
