package componentutil

import (
	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

// HasEmbeddingsRequirement reports whether c depends on some specific embedding
// (glove, bert, elmo, ...).
func HasEmbeddingsRequirement(c *component.Component) bool {
	return c.StorageRefConsumer
}

// HasEmbeddingsProvisions reports whether any declared output feature of c is an embedding.
func HasEmbeddingsProvisions(c *component.Component) bool {
	return FeaturesHaveEmbeddingsProvisions(c.OutTypes)
}

// FeaturesHaveEmbeddingsProvisions reports whether any feature in the collection is an embedding.
func FeaturesHaveEmbeddingsProvisions(features []string) bool {
	for _, f := range features {
		if feature.IsEmbedding(f) {
			return true
		}
	}
	return false
}

// IsEmbeddingProvider reports whether c generates embeddings.
func IsEmbeddingProvider(c *component.Component) bool {
	return c.StorageRefProducer
}

// IsEmbeddingConsumer reports whether c consumes embeddings.
func IsEmbeddingConsumer(c *component.Component) bool {
	return c.StorageRefConsumer
}

// IsEmbeddingConverter reports whether c is the sentence embeddings converter.
func IsEmbeddingConverter(c *component.Component) bool {
	return nodeid.Base(c.Name) == nodeid.SentenceEmbeddingsConverter
}

// IsChunkEmbeddingConverter reports whether c is the chunk embeddings converter.
func IsChunkEmbeddingConverter(c *component.Component) bool {
	return nodeid.Base(c.Name) == nodeid.ChunkEmbeddingsConverter
}

// IsNERProvider reports whether c wraps a NER or NER-medical model.
func IsNERProvider(c *component.Component) bool {
	if nodeid.In(nodeid.Base(c.Name), nodeid.NERProviders) {
		return true
	}
	return c.Type == nodeid.TypeTransformerTokenClassifier
}

// IsNERConverter reports whether c wraps a NER-IOB to entity chunk converter.
func IsNERConverter(c *component.Component) bool {
	return nodeid.In(nodeid.Base(c.Name), nodeid.NERConverters)
}

// IsUntrainedModel reports whether c is a trainable model. Embedding requirements of such
// components are ignored further down the wiring logic.
func IsUntrainedModel(c *component.Component) bool {
	return c.Untrained
}
