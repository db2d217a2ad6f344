package ports

import "errors"

// ErrNotFound is returned by Storage lookups that match nothing
var ErrNotFound = errors.New("not found")
