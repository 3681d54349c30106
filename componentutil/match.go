package componentutil

import (
	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/storageref"
)

// AreProducerConsumerMatches reports whether provider can feed consumer: storage
// references must be equal and the consumer's input granularity must equal the
// provider's output granularity.
//
// Only strict equality is supported. Matching through the reference namespace when
// refs differ but denote the same embeddings is a known gap.
func AreProducerConsumerMatches(consumer, provider *component.Component) bool {
	if storageref.Extract(consumer) != storageref.Extract(provider) {
		return false
	}
	return ExtractEmbedLevelIdentity(consumer, Input) == ExtractEmbedLevelIdentity(provider, Output)
}
