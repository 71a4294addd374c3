package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned by stores that hold no value for a key.
	ErrNotFound = errors.New("not found")
	// ErrWatchUnsupported is returned when the fragment store cannot report
	// external changes.
	ErrWatchUnsupported = errors.New("fragment store does not support watching")
)
