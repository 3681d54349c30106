package componentutil

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

func TestCleanIrrelevantFeatures(t *testing.T) {
	in := []string{
		feature.Text, feature.Document, feature.RawText, feature.Label,
		"word_embeddings@glove_100d", feature.FeatureElements, feature.BinaryPDF,
		feature.Token, feature.SentimentLabel, feature.FilePath, feature.BinaryImage,
		feature.BinaryDOCX, feature.RawTexts,
	}
	orig := append([]string(nil), in...)

	got := CleanIrrelevantFeatures(in, DefaultCleanOptions)
	assert.Equal(t, []string{feature.Document, "word_embeddings@glove_100d", feature.Token}, got)
	assert.Equal(t, orig, in, "input must not be modified")

	got = CleanIrrelevantFeatures(in, CleanOptions{RemoveText: false, RemoveATNotation: true})
	assert.Equal(t, []string{feature.Text, feature.Document, feature.WordEmbeddings, feature.Token}, got)
}

func TestCleanIrrelevantFeaturesRemovesAllMarkers(t *testing.T) {
	in := append([]string{feature.Text, feature.Sentence}, feature.Irrelevant...)
	in = append(in, feature.Lemma)

	got := CleanIrrelevantFeatures(in, CleanOptions{RemoveText: true})
	for _, m := range feature.Irrelevant {
		assert.NotContains(t, got, m)
	}
	assert.NotContains(t, got, feature.Text)
	assert.Equal(t, []string{feature.Sentence, feature.Lemma}, got)
}

func TestRemoveStorageRefFromFeatures(t *testing.T) {
	c := nerDL("word_embeddings@glove_100d")
	c.OutputColumns = []string{"named_entity_iob@x"}

	all := append(append([]string{}, c.InputColumns...), c.OutputColumns...)
	for _, f := range RemoveStorageRefFromFeatures(all) {
		assert.NotContains(t, f, "@")
	}
	assert.Empty(t, RemoveStorageRefFromFeatures(nil))
}

func TestNLURefIdentifier(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	tests := []struct {
		name     string
		ref      string
		expected string
	}{
		{"dotted", "en.ner.onto.glove", "glove"},
		{"single", "pos", "pos"},
		{"at tail", "en.embed_sentence.bert@cased", "cased"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := component.New("x", nodeid.TypeHelper, nil, nil)
			c.NLURef = tt.ref
			assert.Equal(t, tt.expected, NLURefIdentifier(c, logger))
		})
	}
	assert.Empty(t, buf.String())

	custom := component.New("custom", nodeid.TypeHelper, nil, nil)
	custom.Model = component.NewHandle("CustomModel", "", "")
	assert.Equal(t, custom.Model.UID(), NLURefIdentifier(custom, logger))
	assert.Contains(t, buf.String(), "Could not deduct tail")

	trailingDot := component.New("custom", nodeid.TypeHelper, nil, nil)
	trailingDot.NLURef = "en.custom."
	assert.Equal(t, "<nil>", NLURefIdentifier(trailingDot, logger))
}
