package scheduler

import "errors"

var (
	// ErrInvalidSpec is returned when a schedule expression cannot be parsed.
	ErrInvalidSpec = errors.New("invalid schedule")
	// ErrEmptyName is returned when a job is registered without a name.
	ErrEmptyName = errors.New("job name is required")
)
