package pipeline

import "errors"

var (
	// ErrEmptyRef is returned when Load is called without a ref.
	ErrEmptyRef = errors.New("empty nlu ref")

	// ErrNoExecutor is returned by Predict when the pipeline has no executor.
	ErrNoExecutor = errors.New("no executor configured")

	// ErrInvalidOutputLevel is returned for unknown output levels.
	ErrInvalidOutputLevel = errors.New("invalid output level")
)
