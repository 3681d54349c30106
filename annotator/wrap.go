package annotator

import (
	"strings"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

// Wrap reloads c through the wrapper of its annotator type. Types without a wrapper
// are returned unchanged.
func Wrap(src Source, c *component.Component) (*component.Component, error) {
	switch c.Type {
	case nodeid.TypeLemmatizer:
		return Lemmatizer(src, optionsFor(c))
	default:
		return c, nil
	}
}

// optionsFor describes an already resolved component. A component without an NLP ref
// stands for the default model.
func optionsFor(c *component.Component) Options {
	opts := Options{
		Class:                    string(c.Type),
		Language:                 c.Language,
		NLPRef:                   c.NLPRef,
		NLURef:                   c.NLURef,
		GetDefault:               c.NLPRef == "",
		Licensed:                 c.Licensed,
		LoadedFromPretrainedPipe: c.LoadedFromPretrainedPipe,
	}
	if h, ok := c.Model.(interface{ Class() string }); ok && h.Class() != "" {
		opts.Class = strings.ToLower(h.Class())
	}
	return opts
}
