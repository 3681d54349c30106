package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when no resolution is stored under an ID.
	ErrNotFound = errors.New("resolution not found")

	// ErrInvalidID is returned for IDs that are not valid KV keys.
	ErrInvalidID = errors.New("invalid resolution ID")
)
