package seeder

import "errors"

// Error constants.
var (
	ErrConflict     = errors.New("already exists")
	ErrUnexpected   = errors.New("unexpected response")
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrNoCandidates = errors.New("no candidates created")
)
