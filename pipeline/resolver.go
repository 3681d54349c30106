package pipeline

import (
	"github.com/c360studio/nlu/annotator"
	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/model"
)

// wrappingResolver passes the default providers injected during wiring through their
// annotator wrappers, the same way requested components are.
type wrappingResolver struct {
	*model.Registry
}

func (r wrappingResolver) ProviderFor(featureName string) (*component.Component, error) {
	c, err := r.Registry.ProviderFor(featureName)
	if err != nil {
		return nil, err
	}
	return annotator.Wrap(r.Registry, c)
}
