package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrInvalidID  = errors.New("id must be a positive integer")
	ErrBadQuery   = errors.New("invalid query parameter")
)
