package wiring

import (
	"errors"
	"strings"
)

// ErrUnsatisfied is wrapped by every error reporting an unwirable pipeline.
var ErrUnsatisfied = errors.New("unsatisfied pipeline")

// ValidationError lists every problem found in a wired pipeline.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "pipeline validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrUnsatisfied
}

// IsUnsatisfied returns true if err reports an unwirable pipeline.
func IsUnsatisfied(err error) bool {
	return errors.Is(err, ErrUnsatisfied)
}
