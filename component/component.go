// Package component provides the descriptor of a single NLP pipeline stage.
//
// A Component carries only static metadata: declared input and output feature types,
// the actual column names it reads and writes, the storage reference identifying the
// embedding source it produces or requires, and a handful of capability flags fixed at
// construction. The pretrained model behind it is reachable through the Model handle;
// nothing in this package runs inference.
package component

import (
	"fmt"
	"slices"

	"github.com/c360studio/nlu/vocabulary/nodeid"
)

// Component describes one pipeline stage.
type Component struct {
	// Name is the node identifier, unique within a pipeline (e.g. "ner_dl").
	Name string `json:"name"`

	// Type is the categorical role of the component.
	Type nodeid.Type `json:"type"`

	// NLURef is the short reference the component was requested with (e.g. "en.lemma").
	NLURef string `json:"nlu_ref,omitempty"`

	// NLPRef is the name of the pretrained model (e.g. "lemma_antbnc").
	NLPRef string `json:"nlp_ref,omitempty"`

	// Language is the ISO code of the pretrained model.
	Language string `json:"language,omitempty"`

	// InTypes and OutTypes are the declared feature names, in order.
	InTypes  []string `json:"in_types"`
	OutTypes []string `json:"out_types"`

	// InputColumns and OutputColumns are the actual column names.
	// Embedding columns may carry an @storage_ref suffix once tagged.
	InputColumns  []string `json:"input_columns"`
	OutputColumns []string `json:"output_columns"`

	// StorageRef identifies the embedding source produced or required. Empty until resolved.
	StorageRef string `json:"storage_ref,omitempty"`

	StorageRefProducer bool `json:"storage_ref_producer,omitempty"`
	StorageRefConsumer bool `json:"storage_ref_consumer,omitempty"`

	// Untrained marks a trainable model whose embedding dependencies are not resolved yet.
	Untrained bool `json:"untrained,omitempty"`

	Licensed                 bool `json:"licensed,omitempty"`
	LoadedFromPretrainedPipe bool `json:"loaded_from_pretrained_pipe,omitempty"`

	// Model is the handle of the underlying pretrained model.
	Model Model `json:"-"`
}

// New creates a component whose columns mirror its declared types.
func New(name string, typ nodeid.Type, inTypes, outTypes []string) *Component {
	return &Component{
		Name:          name,
		Type:          typ,
		InTypes:       slices.Clone(inTypes),
		OutTypes:      slices.Clone(outTypes),
		InputColumns:  slices.Clone(inTypes),
		OutputColumns: slices.Clone(outTypes),
	}
}

// Clone returns a deep copy. The model handle is cloned as well so that rewriting the
// copy's columns never leaks into the original.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	cp := *c
	cp.InTypes = slices.Clone(c.InTypes)
	cp.OutTypes = slices.Clone(c.OutTypes)
	cp.InputColumns = slices.Clone(c.InputColumns)
	cp.OutputColumns = slices.Clone(c.OutputColumns)
	if c.Model != nil {
		cp.Model = c.Model.Clone()
	}
	return &cp
}

// String returns a short human readable form used in logs and errors.
func (c *Component) String() string {
	if c == nil {
		return "<nil component>"
	}
	if c.NLURef != "" {
		return fmt.Sprintf("%s(%s)", c.Name, c.NLURef)
	}
	return c.Name
}
