package wiring

import (
	"fmt"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/componentutil"
	"github.com/c360studio/nlu/storageref"
)

// Validate checks a wired pipeline. Names and output columns must be unique, every
// trained embedding consumer must carry a storage ref and match exactly one embedding
// provider, and every component must come after the producers of its inputs.
func Validate(p component.Pipeline) error {
	var problems []string

	names := make(map[string]bool)
	writers := make(map[string]string)
	for _, c := range p {
		if names[c.Name] {
			problems = append(problems, fmt.Sprintf("duplicate component name %s", c.Name))
		}
		names[c.Name] = true
		for _, col := range c.OutputColumns {
			if w, ok := writers[col]; ok && w != c.Name {
				problems = append(problems, fmt.Sprintf("%s and %s both write %s", w, c.Name, col))
			}
			writers[col] = c.Name
		}
	}

	avail := make(map[string]bool)
	for _, c := range p {
		if missing := unavailable(c, avail); len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("%s has no upstream producer for %v", c, missing))
		}
		markAvailable(c, avail)
	}

	for _, consumer := range p {
		if !componentutil.IsEmbeddingConsumer(consumer) || componentutil.IsUntrainedModel(consumer) {
			continue
		}
		ref := storageref.Extract(consumer)
		if ref == "" {
			problems = append(problems, fmt.Sprintf("%s has no storage ref", consumer))
			continue
		}
		matches := 0
		for _, provider := range p {
			if provider == consumer || !componentutil.IsEmbeddingProvider(provider) {
				continue
			}
			if componentutil.AreProducerConsumerMatches(consumer, provider) {
				matches++
			}
		}
		switch {
		case matches == 0:
			problems = append(problems, fmt.Sprintf("no provider for %s with storage ref %s", consumer, ref))
		case matches > 1:
			problems = append(problems, fmt.Sprintf("%d providers match %s with storage ref %s", matches, consumer, ref))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
