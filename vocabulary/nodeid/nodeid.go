// Package nodeid provides the closed registry of component identifiers and annotator
// types that pipeline wiring reasons about.
package nodeid

import "strings"

// Open source node identifiers.
const (
	DocumentAssembler           = "document_assembler"
	SentenceDetector            = "sentence_detector"
	SentenceDetectorDL          = "sentence_detector_dl"
	Tokenizer                   = "default_tokenizer"
	Lemmatizer                  = "lemmatizer"
	Stemmer                     = "stemmer"
	POS                         = "pos"
	WordEmbeddings              = "word_embeddings"
	BertEmbeddings              = "bert_embeddings"
	BertSentenceEmbeddings      = "bert_sentence_embeddings"
	UniversalSentenceEncoder    = "universal_sentence_encoder"
	SentenceEmbeddingsConverter = "sentence_embeddings_converter"
	ChunkEmbeddingsConverter    = "chunk_embeddings_converter"
	NERDL                       = "ner_dl"
	TrainableNERDL              = "trainable_ner_dl"
	NERCRF                      = "ner_crf"
	TrainableNERCRF             = "trainable_ner_crf"
	NERConverter                = "ner_converter"
	ClassifierDL                = "classifier_dl"
	TrainableClassifierDL       = "trainable_classifier_dl"
	SentimentDL                 = "sentiment_dl"
	LanguageDetectorDL          = "language_detector_dl"
	DependencyParser            = "dependency_parser"
	TypedDependencyParser       = "typed_dependency_parser"
	Chunker                     = "chunker"
)

// Licensed (healthcare) node identifiers.
const (
	MedicalNER           = "medical_ner"
	TrainableMedicalNER  = "trainable_medical_ner"
	NERConverterInternal = "ner_converter_internal"
)

// NERProviders lists every node that emits NER-IOB tags.
var NERProviders = []string{
	MedicalNER,
	TrainableMedicalNER,
	NERDL,
	TrainableNERDL,
	TrainableNERCRF,
	NERCRF,
}

// NERConverters lists every node that turns NER-IOB tags into entity chunks.
var NERConverters = []string{
	NERConverterInternal,
	NERConverter,
}

// QualifierSeparator joins a node identifier and the qualifier that keeps it unique
// within a pipeline ("ner_dl@onto").
const QualifierSeparator = "@"

// Qualify returns id qualified with q. An empty q leaves id unchanged.
func Qualify(id, q string) string {
	if q == "" {
		return id
	}
	return Base(id) + QualifierSeparator + q
}

// Base strips any qualifier from a component name.
func Base(name string) string {
	id, _, _ := strings.Cut(name, QualifierSeparator)
	return id
}

// In reports whether id is a member of ids.
func In(id string, ids []string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
