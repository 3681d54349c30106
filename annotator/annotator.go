package annotator

import (
	"errors"
	"fmt"

	"github.com/c360studio/nlu/component"
)

// ErrUnknownClass is returned when a wrapper does not know how to load an annotator class.
var ErrUnknownClass = errors.New("unknown annotator class")

// Source loads pretrained components. model.Registry implements it.
type Source interface {
	// ProviderFor returns the default component providing a feature.
	ProviderFor(featureName string) (*component.Component, error)

	// Pretrained returns the component of a named pretrained model.
	Pretrained(nlpRef, language string) (*component.Component, error)
}

// Options configure a wrapper.
type Options struct {
	// Class is the annotator class to load.
	Class string

	// Language is the ISO code of the pretrained model.
	Language string

	// NLPRef names the pretrained model. Ignored when GetDefault is set.
	NLPRef string

	// NLURef is the ref the component was requested with.
	NLURef string

	// Feature is the feature whose default provider GetDefault loads.
	Feature string

	// GetDefault loads the default model instead of a named one.
	GetDefault bool

	// Model overrides loading entirely.
	Model component.Model

	Licensed                 bool
	LoadedFromPretrainedPipe bool
}

// Pretrained loads the component described by opts from src.
//
// With GetDefault the default provider of opts.Feature is used, otherwise the model
// named by opts.NLPRef in opts.Language. An explicit opts.Model replaces the loaded
// model but keeps the loaded descriptor.
func Pretrained(src Source, opts Options) (*component.Component, error) {
	if src == nil {
		return nil, errors.New("annotator: nil source")
	}

	var (
		c   *component.Component
		err error
	)
	if opts.GetDefault {
		c, err = src.ProviderFor(opts.Feature)
	} else {
		c, err = src.Pretrained(opts.NLPRef, opts.Language)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", describe(opts), err)
	}

	if opts.Model != nil {
		c.Model = opts.Model
	}
	apply(c, opts)
	return c, nil
}

func apply(c *component.Component, opts Options) {
	c.NLURef = opts.NLURef
	if opts.NLPRef != "" && !opts.GetDefault {
		c.NLPRef = opts.NLPRef
	}
	if opts.Language != "" {
		c.Language = opts.Language
	}
	c.Licensed = c.Licensed || opts.Licensed
	c.LoadedFromPretrainedPipe = opts.LoadedFromPretrainedPipe
}

func describe(opts Options) string {
	if opts.GetDefault {
		return fmt.Sprintf("default %s provider", opts.Feature)
	}
	return fmt.Sprintf("%s %s/%s", opts.Class, opts.Language, opts.NLPRef)
}
