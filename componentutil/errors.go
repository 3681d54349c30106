package componentutil

import (
	"errors"
	"fmt"
)

// ErrLookupFailure is wrapped by every LookupError.
var ErrLookupFailure = errors.New("lookup failure")

// LookupError reports a required feature or column missing from a component.
type LookupError struct {
	// What names the kind of column that was looked for (e.g. "NER", "Embed").
	What string
	// Component is the string form of the component inspected.
	Component string
	// Side is the column side that was scanned.
	Side Side
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("could not find %s col on %s side of component=%s", e.What, e.Side, e.Component)
}

func (e *LookupError) Unwrap() error {
	return ErrLookupFailure
}

// IsLookupFailure returns true if err is or wraps a LookupError.
func IsLookupFailure(err error) bool {
	var lookup *LookupError
	return errors.As(err, &lookup)
}
