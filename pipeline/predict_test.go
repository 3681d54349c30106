package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/nlu/input"
	"github.com/c360studio/nlu/model"
	"github.com/c360studio/nlu/vocabulary/feature"
)

func load(t *testing.T, ref string, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithRegistry(model.NewDefaultRegistry())}, opts...)
	p, err := Load(context.Background(), ref, opts...)
	require.NoError(t, err)
	return p
}

func TestParseOutputLevel(t *testing.T) {
	for _, s := range []string{"", "token", "chunk", "sentence", "document"} {
		l, err := ParseOutputLevel(s)
		require.NoError(t, err)
		assert.Equal(t, OutputLevel(s), l)
	}

	_, err := ParseOutputLevel("paragraph")
	assert.ErrorIs(t, err, ErrInvalidOutputLevel)
}

func TestInferOutputLevel(t *testing.T) {
	tests := []struct {
		ref  string
		want OutputLevel
	}{
		{"pos", LevelToken},
		{"lemma", LevelToken},
		{"ner", LevelChunk},
		{"emotion", LevelDocument},
		{"sentiment", LevelSentence},
		{"en.sentence_detector", LevelSentence},
		{"embed_sentence.use", LevelSentence},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, load(t, tt.ref).InferOutputLevel())
		})
	}

	assert.Equal(t, LevelDocument, (&Pipeline{}).InferOutputLevel())
}

func TestPredictWithoutExecutor(t *testing.T) {
	_, err := load(t, "pos").PredictText(context.Background(), "Part of Speech Tags identify each token")
	assert.ErrorIs(t, err, ErrNoExecutor)
}

func TestPredictDryRun(t *testing.T) {
	p := load(t, "emotion", WithExecutor(DryRunExecutor{}))

	rows, err := p.Predict(context.Background(),
		input.FromText("I love pancaces. I hate Mondays", "I love Fridays"),
		PredictOptions{OutputLevel: LevelDocument, Metadata: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "I love Fridays", rows[1][feature.Text])
	assert.Equal(t, "document", rows[0]["output_level"])
	assert.Contains(t, rows[0], feature.SentenceEmbeddings+"@tfhub_use")
	assert.Contains(t, rows[0], feature.Category)
	require.Contains(t, rows[0], "metadata")
}

func TestPredictDropIrrelevantCols(t *testing.T) {
	exec := &recordingExecutor{rows: []Row{{
		feature.Text:                           "I love Fridays",
		feature.RawText:                        "I love Fridays",
		feature.Label:                          "x",
		feature.SentenceEmbeddings + "@tfhub_use": []float32{0.1},
		feature.Category:                       "joy",
	}}}
	p := load(t, "emotion", WithExecutor(exec))

	rows, err := p.Predict(context.Background(), input.FromText("I love Fridays"), PredictOptions{DropIrrelevantCols: true})
	require.NoError(t, err)

	assert.Equal(t, Row{
		feature.Text:               "I love Fridays",
		feature.SentenceEmbeddings: []float32{0.1},
		feature.Category:           "joy",
	}, rows[0])
	assert.Equal(t, LevelDocument, exec.opts.OutputLevel, "auto level resolved before execution")
}

func TestPredictExecutorGetsCopy(t *testing.T) {
	exec := &recordingExecutor{}
	p := load(t, "sentiment", WithExecutor(exec))

	_, err := p.PredictText(context.Background(), "I love Fridays")
	require.NoError(t, err)

	exec.got[0].InputColumns = append(exec.got[0].InputColumns, "mutated")
	assert.NotContains(t, p.Components[0].InputColumns, "mutated")
}

func TestPredictErrors(t *testing.T) {
	boom := errors.New("executor crashed")
	p := load(t, "pos", WithExecutor(&recordingExecutor{err: boom}))

	_, err := p.PredictText(context.Background(), "text")
	assert.ErrorIs(t, err, boom)

	_, err = p.Predict(context.Background(), nil, PredictOptions{OutputLevel: "paragraph"})
	assert.ErrorIs(t, err, ErrInvalidOutputLevel)
}

func TestDryRunCancelled(t *testing.T) {
	p := load(t, "pos", WithExecutor(DryRunExecutor{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.PredictText(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}
