package syncer

import "errors"

var (
	// ErrSyncInProgress is returned by RunNow while another run is active.
	ErrSyncInProgress = errors.New("sync already in progress")
	// ErrInvalidFrequency is returned for an unknown sync frequency.
	ErrInvalidFrequency = errors.New("invalid sync frequency")
	// ErrUnsupportedFormat is returned when an import file has an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported import format")
)
