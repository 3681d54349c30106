package feature

import "strings"

// NLP features.
const (
	Text                 = "text"
	RawText              = "raw_text"
	RawTexts             = "raw_texts"
	Label                = "label"
	SentimentLabel       = "sentiment_label"
	FeatureElements      = "%%%feature_elements%%%"
	Document             = "document"
	Sentence             = "sentence"
	Token                = "token"
	Lemma                = "lemma"
	Stem                 = "stem"
	POS                  = "pos"
	WordEmbeddings       = "word_embeddings"
	SentenceEmbeddings   = "sentence_embeddings"
	ChunkEmbeddings      = "chunk_embeddings"
	DocumentEmbeddings   = "document_embeddings"
	TokenEmbeddings      = "token_embeddings"
	NamedEntityIOB       = "named_entity_iob"
	NamedEntityConverted = "named_entity_converted"
	Chunk                = "chunk"
	Category             = "category"
	Sentiment            = "sentiment"
	Language             = "language"
	UnlabeledDependency  = "unlabeled_dependency"
	LabeledDependency    = "labeled_dependency"
)

// OCR features. These are read from files and never produced by an annotator.
const (
	BinaryImage = "binary_image"
	FilePath    = "path"
	BinaryDOCX  = "binary_docx"
	BinaryPDF   = "binary_pdf"
)

// EmbedMarker is the substring shared by every embedding feature and column name.
const EmbedMarker = "embed"

// ATSeparator separates a feature name from its storage reference.
const ATSeparator = "@"

// Irrelevant lists the externally supplied or non-structural markers, in removal order.
// Text is listed separately because some callers keep it.
var Irrelevant = []string{
	RawText,
	RawTexts,
	Label,
	SentimentLabel,
	FeatureElements,
	BinaryImage,
	FilePath,
	BinaryDOCX,
	BinaryPDF,
}

// IsIrrelevant reports whether f is one of the Irrelevant markers or Text.
func IsIrrelevant(f string) bool {
	if f == Text {
		return true
	}
	for _, m := range Irrelevant {
		if f == m {
			return true
		}
	}
	return false
}

// IsEmbedding reports whether a feature or column name denotes embeddings.
func IsEmbedding(name string) bool {
	return strings.Contains(name, EmbedMarker)
}

// EmbedLevel is the structural unit an embedding is attached to.
type EmbedLevel string

// Embedding granularities, in resolution priority order.
const (
	LevelDocument EmbedLevel = "document_embeddings"
	LevelSentence EmbedLevel = "sentence_embeddings"
	LevelChunk    EmbedLevel = "chunk_embeddings"
	LevelToken    EmbedLevel = "token_embeddings"
)

// levelMarkers pairs each level with the substring that identifies it. Order matters:
// a name matching several markers resolves to the first (most document-like) level.
var levelMarkers = []struct {
	level  EmbedLevel
	marker string
}{
	{LevelDocument, "document_embed"},
	{LevelSentence, "sentence_embed"},
	{LevelChunk, "chunk_embed"},
	{LevelToken, "token_embed"},
}

// LevelOf classifies a collection of names by embedding granularity.
// Returns the empty level when no name matches.
func LevelOf(names []string) EmbedLevel {
	for _, lm := range levelMarkers {
		for _, n := range names {
			if strings.Contains(n, lm.marker) {
				return lm.level
			}
		}
	}
	return ""
}

// String returns the string representation of the level.
func (l EmbedLevel) String() string {
	return string(l)
}
