package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")

	// ErrUnknownStore is an ErrInvalidConfig for store values other than memory, postgres and sqlite.
	ErrUnknownStore = fmt.Errorf("%w: unknown store", ErrInvalidConfig)
)
