package nodeid

// Type is the categorical role of a component within a pipeline.
type Type string

// Annotator types.
const (
	TypeDocumentAssembler          Type = "document_assembler"
	TypeSentenceDetector           Type = "sentence_detector"
	TypeTokenizer                  Type = "tokenizer"
	TypeLemmatizer                 Type = "lemmatizer"
	TypeStemmer                    Type = "stemmer"
	TypePOS                        Type = "pos"
	TypeTokenEmbeddings            Type = "token_embeddings"
	TypeSentenceEmbeddings         Type = "sentence_embeddings"
	TypeChunkEmbeddings            Type = "chunk_embeddings"
	TypeEmbeddingsConverter        Type = "embeddings_converter"
	TypeNER                        Type = "ner"
	TypeNERConverter               Type = "ner_converter"
	TypeClassifier                 Type = "classifier"
	TypeTransformerTokenClassifier Type = "transformer_token_classifier"
	TypeDependency                 Type = "dependency"
	TypeChunker                    Type = "chunker"
	TypeHelper                     Type = "helper"
)

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}
