package component

// Pipeline is an ordered list of components. Order encodes execution order.
type Pipeline []*Component

// Clone deep copies every component.
func (p Pipeline) Clone() Pipeline {
	if p == nil {
		return nil
	}
	out := make(Pipeline, len(p))
	for i, c := range p {
		out[i] = c.Clone()
	}
	return out
}

// Names returns the component names in order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, c := range p {
		names[i] = c.Name
	}
	return names
}

// Find returns the first component with the given name.
func (p Pipeline) Find(name string) (*Component, bool) {
	for _, c := range p {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Outputs returns every output column of the pipeline, in order.
func (p Pipeline) Outputs() []string {
	var cols []string
	for _, c := range p {
		cols = append(cols, c.OutputColumns...)
	}
	return cols
}
