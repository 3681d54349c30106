package input

import "strings"

// Source kinds.
const (
	SourceText = "text"
	SourceHTML = "html"
)

// Document is one unit of text handed to the executor.
type Document struct {
	// Index is the position of the document in the caller's input.
	Index int `json:"index"`

	// Text is the raw text annotators see.
	Text string `json:"text"`

	// Title is set for documents converted from HTML.
	Title string `json:"title,omitempty"`

	// Source is SourceText or SourceHTML.
	Source string `json:"source"`
}

// FromText wraps each string in a document, preserving order. Empty strings are kept
// so that output rows line up with the input.
func FromText(texts ...string) []Document {
	docs := make([]Document, len(texts))
	for i, t := range texts {
		docs[i] = Document{Index: i, Text: t, Source: SourceText}
	}
	return docs
}

// Texts returns the text of every document.
func Texts(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Text
	}
	return out
}

// IsBlank reports whether every document is empty or whitespace.
func IsBlank(docs []Document) bool {
	for _, d := range docs {
		if strings.TrimSpace(d.Text) != "" {
			return false
		}
	}
	return true
}
