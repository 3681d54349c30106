// Package feature provides the closed vocabulary of feature names exchanged between
// pipeline components.
//
// Feature names are the semantic types a component declares in its InTypes and OutTypes.
// Actual column names start out equal to the feature name and may later carry a
// storage reference suffix in AT notation:
//
//	word_embeddings@glove_100d
//
// Two families are defined:
//   - NLP features produced and consumed by annotators (document, token, embeddings, ...)
//   - OCR features that are always supplied externally (binary images, PDFs, file paths)
//
// Irrelevant lists the markers that are never produced inside a pipeline and must be
// ignored when checking dependency satisfaction.
package feature
