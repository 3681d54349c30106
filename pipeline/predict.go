package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/componentutil"
	"github.com/c360studio/nlu/input"
	"github.com/c360studio/nlu/metrics"
	"github.com/c360studio/nlu/storageref"
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

// OutputLevel is the granularity of prediction rows.
type OutputLevel string

// Output levels. LevelAuto infers the level from the last component.
const (
	LevelAuto     OutputLevel = ""
	LevelToken    OutputLevel = "token"
	LevelChunk    OutputLevel = "chunk"
	LevelSentence OutputLevel = "sentence"
	LevelDocument OutputLevel = "document"
)

// OutputLevels lists the explicit output levels.
var OutputLevels = []OutputLevel{LevelToken, LevelChunk, LevelSentence, LevelDocument}

// ParseOutputLevel validates s. The empty string selects LevelAuto.
func ParseOutputLevel(s string) (OutputLevel, error) {
	l := OutputLevel(s)
	if l == LevelAuto || slices.Contains(OutputLevels, l) {
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOutputLevel, s)
}

// PredictOptions control a prediction.
type PredictOptions struct {
	// OutputLevel selects the row granularity.
	OutputLevel OutputLevel

	// DropIrrelevantCols removes internal columns from the rows and strips storage
	// references from column names.
	DropIrrelevantCols bool

	// Metadata asks the executor for per annotation metadata such as confidences.
	Metadata bool
}

// Row is one prediction row keyed by column name.
type Row map[string]any

// Executor runs a wired pipeline over documents.
type Executor interface {
	Execute(ctx context.Context, p component.Pipeline, docs []input.Document, opts PredictOptions) ([]Row, error)
}

// Predict runs the pipeline over docs through the configured executor. The executor
// receives its own copy of the components and a resolved output level.
func (p *Pipeline) Predict(ctx context.Context, docs []input.Document, opts PredictOptions) ([]Row, error) {
	if p.executor == nil {
		return nil, ErrNoExecutor
	}
	if _, err := ParseOutputLevel(string(opts.OutputLevel)); err != nil {
		return nil, err
	}
	if opts.OutputLevel == LevelAuto {
		opts.OutputLevel = p.InferOutputLevel()
	}

	rows, err := p.executor.Execute(ctx, p.Components.Clone(), docs, opts)
	if err != nil {
		p.metrics.ObserveFailure(metrics.ReasonExecution)
		return nil, fmt.Errorf("predict %s: %w", p.ID, err)
	}

	if opts.DropIrrelevantCols {
		for i, row := range rows {
			rows[i] = dropIrrelevant(row)
		}
	}

	p.logger.Debug("Predicted",
		"pipeline_id", p.ID,
		"documents", len(docs),
		"rows", len(rows),
		"output_level", opts.OutputLevel)
	return rows, nil
}

// PredictText is Predict over plain strings with default options.
func (p *Pipeline) PredictText(ctx context.Context, texts ...string) ([]Row, error) {
	return p.Predict(ctx, input.FromText(texts...), PredictOptions{})
}

// InferOutputLevel picks the natural row granularity from the last component:
// token level annotators yield tokens, entity converters chunks, classifiers
// sentences when a sentence detector runs before them and documents otherwise.
func (p *Pipeline) InferOutputLevel() OutputLevel {
	if len(p.Components) == 0 {
		return LevelDocument
	}
	last := p.Components[len(p.Components)-1]

	if last.Type == nodeid.TypeClassifier {
		for _, c := range p.Components {
			if c.Type == nodeid.TypeSentenceDetector {
				return LevelSentence
			}
		}
		return LevelDocument
	}

	for _, col := range componentutil.RemoveStorageRefFromFeatures(last.OutTypes) {
		switch col {
		case feature.NamedEntityConverted, feature.Chunk, feature.ChunkEmbeddings:
			return LevelChunk
		case feature.Token, feature.Lemma, feature.Stem, feature.POS,
			feature.WordEmbeddings, feature.NamedEntityIOB:
			return LevelToken
		case feature.Sentence, feature.SentenceEmbeddings:
			return LevelSentence
		}
	}
	return LevelDocument
}

func dropIrrelevant(row Row) Row {
	out := make(Row, len(row))
	for col, v := range row {
		name := storageref.Strip(col)
		if feature.IsIrrelevant(name) && name != feature.Text {
			continue
		}
		out[name] = v
	}
	return out
}
