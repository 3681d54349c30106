package componentutil

import (
	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

func nerDL(embedCol string) *component.Component {
	c := component.New(nodeid.NERDL, nodeid.TypeNER,
		[]string{feature.Sentence, feature.Token, feature.WordEmbeddings},
		[]string{feature.NamedEntityIOB})
	c.InputColumns[2] = embedCol
	c.StorageRefConsumer = true
	c.NLURef = "en.ner.onto.glove"
	return c
}

func embeddingProvider(out, ref string) *component.Component {
	c := component.New(nodeid.WordEmbeddings, nodeid.TypeTokenEmbeddings,
		[]string{feature.Document, feature.Token}, []string{out})
	c.StorageRefProducer = true
	c.StorageRef = ref
	return c
}

func embeddingConsumer(in, ref string) *component.Component {
	c := component.New(nodeid.ClassifierDL, nodeid.TypeClassifier,
		[]string{in}, []string{feature.Category})
	c.StorageRefConsumer = true
	c.StorageRef = ref
	return c
}
