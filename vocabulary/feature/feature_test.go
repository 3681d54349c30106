package feature

import "testing"

func TestLevelOf(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		expected EmbedLevel
	}{
		{"document wins over token", []string{"token_embeddings", "document_embeddings"}, LevelDocument},
		{"sentence", []string{"sentence", "sentence_embeddings@tfhub_use"}, LevelSentence},
		{"chunk", []string{"chunk_embeddings"}, LevelChunk},
		{"token", []string{"token_embeddings"}, LevelToken},
		{"word embeddings are unclassified", []string{"word_embeddings@glove_100d"}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelOf(tt.names); got != tt.expected {
				t.Errorf("LevelOf(%v) = %q, want %q", tt.names, got, tt.expected)
			}
		})
	}
}

func TestIsIrrelevant(t *testing.T) {
	for _, f := range append([]string{Text}, Irrelevant...) {
		if !IsIrrelevant(f) {
			t.Errorf("IsIrrelevant(%q) = false, want true", f)
		}
	}
	for _, f := range []string{Document, Token, WordEmbeddings, NamedEntityIOB} {
		if IsIrrelevant(f) {
			t.Errorf("IsIrrelevant(%q) = true, want false", f)
		}
	}
}

func TestIsEmbedding(t *testing.T) {
	if !IsEmbedding("sentence_embeddings@glove_100d") {
		t.Error("expected sentence embeddings column to be an embedding")
	}
	if IsEmbedding(Token) {
		t.Error("token is not an embedding")
	}
}
