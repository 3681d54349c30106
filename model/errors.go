package model

import "errors"

// Registry lookup errors.
var (
	// ErrUnknownRef is returned when a requested nlu ref has no registry entry.
	ErrUnknownRef = errors.New("unknown nlu ref")

	// ErrUnknownComponent is returned when a component key is not configured.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrNoProvider is returned when no component is registered to provide a feature.
	ErrNoProvider = errors.New("no provider")
)
