package inbox

import "errors"

// ErrNotFound is returned when a notification id is not in the inbox.
var ErrNotFound = errors.New("notification not found")
