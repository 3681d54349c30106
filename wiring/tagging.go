package wiring

import (
	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/componentutil"
	"github.com/c360studio/nlu/storageref"
	"github.com/c360studio/nlu/vocabulary/feature"
)

// TagStorageRefs returns a copy of p with storage references resolved and written in AT
// notation: on the embedding outputs of providers and on the embedding inputs of
// trained consumers. A consumer with no reference of its own adopts the reference of
// the first component producing its embedding feature.
func TagStorageRefs(p component.Pipeline) component.Pipeline {
	out := p.Clone()
	for _, c := range out {
		if componentutil.IsEmbeddingProvider(c) {
			if ref := storageref.Extract(c); ref != "" {
				c.StorageRef = ref
				tagEmbeddings(c.OutputColumns, ref)
			}
		}

		if !componentutil.IsEmbeddingConsumer(c) || componentutil.IsUntrainedModel(c) {
			continue
		}
		ref := storageref.Extract(c)
		if ref == "" {
			ref = adoptRef(out, c)
		}
		if ref == "" {
			continue
		}
		c.StorageRef = ref
		tagEmbeddings(c.InputColumns, ref)
		if c.Model != nil {
			c.Model.SetInputCols(c.InputColumns)
		}
	}
	return out
}

func tagEmbeddings(cols []string, ref string) {
	for i, col := range cols {
		if feature.IsEmbedding(col) {
			cols[i] = storageref.Tag(col, ref)
		}
	}
}

func adoptRef(p component.Pipeline, consumer *component.Component) string {
	col, err := componentutil.ExtractEmbedCol(consumer, componentutil.Input)
	if err != nil {
		return ""
	}
	for _, upstream := range p {
		if upstream == consumer || !feeds(upstream, col) {
			continue
		}
		if ref := storageref.Extract(upstream); ref != "" {
			return ref
		}
	}
	return ""
}
