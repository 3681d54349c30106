package wiring

import (
	"fmt"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/componentutil"
	"github.com/c360studio/nlu/storageref"
)

// ConfigChunkEmbedConverter returns a copy of conv whose embedding input column carries
// the converter's storage reference in AT notation. The declared input columns and the
// model's input columns are rewritten together. Consumers are later traced back to the
// converter through that tag.
func ConfigChunkEmbedConverter(conv *component.Component) (*component.Component, error) {
	out := conv.Clone()

	col, err := componentutil.ExtractEmbedCol(out, componentutil.Input)
	if err != nil {
		return nil, err
	}
	ref := storageref.Extract(out)
	if ref == "" {
		return nil, fmt.Errorf("%w: converter %s has no storage ref", ErrUnsatisfied, out)
	}

	tagged := storageref.Tag(col, ref)
	for i, c := range out.InputColumns {
		if c == col {
			out.InputColumns[i] = tagged
			break
		}
	}
	if out.Model != nil {
		out.Model.SetInputCols(out.InputColumns)
	}
	return out, nil
}

// SetStorageRefOfEmbeddingConverters returns a copy of p in which every sentence
// embeddings converter carries the storage reference of the component feeding its
// embedding column. Converters without an upstream provider are left untouched.
func SetStorageRefOfEmbeddingConverters(p component.Pipeline) component.Pipeline {
	out := p.Clone()
	for _, conv := range out {
		if !componentutil.IsEmbeddingProvider(conv) || !componentutil.IsEmbeddingConverter(conv) {
			continue
		}
		embedCol, err := componentutil.ExtractEmbedCol(conv, componentutil.Input)
		if err != nil {
			continue
		}
		for _, upstream := range out {
			if upstream == conv || !feeds(upstream, embedCol) {
				continue
			}
			ref := storageref.FromModel(upstream.Model)
			if ref == "" {
				ref = storageref.Extract(upstream)
			}
			if ref != "" {
				conv.StorageRef = ref
				break
			}
		}
	}
	return out
}

// feeds reports whether upstream writes col. A tagged col only matches an upstream
// carrying the same storage reference.
func feeds(upstream *component.Component, col string) bool {
	name, tag := storageref.Split(col)
	for _, out := range upstream.OutputColumns {
		if storageref.Strip(out) != name {
			continue
		}
		if tag == "" || storageref.Extract(upstream) == tag {
			return true
		}
	}
	return false
}
