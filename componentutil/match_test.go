package componentutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/nlu/vocabulary/feature"
)

func TestAreProducerConsumerMatches(t *testing.T) {
	tests := []struct {
		name     string
		consumer string
		cRef     string
		provider string
		pRef     string
		expected bool
	}{
		{"same ref same level", feature.SentenceEmbeddings, "tfhub_use", feature.SentenceEmbeddings, "tfhub_use", true},
		{"same ref different level", feature.SentenceEmbeddings, "glove_100d", feature.ChunkEmbeddings, "glove_100d", false},
		{"different ref same level", feature.SentenceEmbeddings, "glove_100d", feature.SentenceEmbeddings, "bert_base_cased", false},
		{"different ref different level", feature.DocumentEmbeddings, "a", feature.ChunkEmbeddings, "b", false},
		{"word embeddings same ref", feature.WordEmbeddings, "glove_100d", feature.WordEmbeddings, "glove_100d", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumer := embeddingConsumer(tt.consumer, tt.cRef)
			provider := embeddingProvider(tt.provider, tt.pRef)
			assert.Equal(t, tt.expected, AreProducerConsumerMatches(consumer, provider))
		})
	}
}
