package componentutil

import (
	"log/slog"
	"strings"

	"github.com/c360studio/nlu/component"
)

// NLURefIdentifier returns the tail of the component's nlu ref, which is unique for
// non-aliased components: the text after the last '.' and then after the last '@'.
// Components without a usable tail (custom components loaded offline) fall back to the
// model UID and a warning is logged.
func NLURefIdentifier(c *component.Component, logger *slog.Logger) string {
	tail := c.NLURef
	if i := strings.LastIndex(tail, "."); i >= 0 {
		tail = tail[i+1:]
	}
	if i := strings.LastIndex(tail, "@"); i >= 0 {
		tail = tail[i+1:]
	}
	if tail != "" {
		return tail
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("Could not deduct tail from component, using model UID",
		"component", c.String(),
		"nlu_ref", c.NLURef)

	if c.Model == nil {
		return "<nil>"
	}
	return c.Model.UID()
}
