package annotator

import (
	"fmt"
	"strings"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

// Lemmatizer defaults.
const (
	LemmatizerClass    = "lemmatizer"
	LemmatizerLanguage = "en"
)

// Lemmatizer returns the lemmatizer component for opts.
//
// An explicit Model is used as is. Otherwise the class must name a lemmatizer and the
// default or named pretrained model is loaded from src.
func Lemmatizer(src Source, opts Options) (*component.Component, error) {
	if opts.Class == "" {
		opts.Class = LemmatizerClass
	}
	if opts.Language == "" {
		opts.Language = LemmatizerLanguage
	}
	opts.Feature = feature.Lemma

	if opts.Model != nil {
		c := component.New(nodeid.Lemmatizer, nodeid.TypeLemmatizer,
			[]string{feature.Token}, []string{feature.Lemma})
		c.Model = opts.Model
		apply(c, opts)
		return c, nil
	}

	if !strings.Contains(strings.ToLower(opts.Class), "lemma") {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, opts.Class)
	}
	return Pretrained(src, opts)
}
