package wiring

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/componentutil"
	"github.com/c360studio/nlu/storageref"
	"github.com/c360studio/nlu/vocabulary/feature"
)

// DefaultMaxInjectionRounds bounds how many times the Builder goes back to the Resolver.
// Every round adds one layer of upstream dependencies; real pipelines need four or five.
const DefaultMaxInjectionRounds = 8

// Resolver supplies components for features nothing in the pipeline provides.
// model.Registry implements it.
type Resolver interface {
	// ProviderFor returns the default provider of a feature.
	ProviderFor(featureName string) (*component.Component, error)

	// EmbeddingProvider returns a component producing featureName embeddings
	// identified by storageRef.
	EmbeddingProvider(storageRef, featureName string) (*component.Component, error)

	// Converter returns the converter producing embeddings at level from word embeddings.
	Converter(level feature.EmbedLevel) (*component.Component, error)
}

// Builder wires candidate components into a complete, ordered and validated pipeline.
type Builder struct {
	resolver  Resolver
	logger    *slog.Logger
	maxRounds int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used to report injections.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithMaxInjectionRounds overrides DefaultMaxInjectionRounds. Values below one are ignored.
func WithMaxInjectionRounds(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxRounds = n
		}
	}
}

// NewBuilder creates a Builder backed by resolver.
func NewBuilder(resolver Resolver, opts ...Option) *Builder {
	b := &Builder{
		resolver:  resolver,
		maxRounds: DefaultMaxInjectionRounds,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Result is a wired pipeline.
type Result struct {
	// Pipeline is the ordered, tagged and validated pipeline.
	Pipeline component.Pipeline

	// Injected lists the names of components added by the Builder, in injection order.
	Injected []string
}

// Build wires candidates. The argument is never modified.
func (b *Builder) Build(ctx context.Context, candidates component.Pipeline) (*Result, error) {
	p := candidates.Clone()
	var injected []string

	for round := 0; ; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		needs := missingFeatures(p)
		if len(needs) == 0 {
			break
		}
		if round >= b.maxRounds {
			problems := make([]string, 0, len(needs))
			for _, n := range needs {
				problems = append(problems, "unresolved "+n.String())
			}
			return nil, &ValidationError{Problems: problems}
		}

		added, err := b.satisfy(p, needs)
		if err != nil {
			return nil, err
		}
		for _, c := range added {
			b.logger.Debug("Injected component",
				"component", c.String(),
				"round", round)
			injected = append(injected, c.Name)
		}
		p = append(p, added...)
	}

	p, err := Disambiguate(p, b.logger)
	if err != nil {
		return nil, err
	}
	p = SetStorageRefOfEmbeddingConverters(p)
	p = TagStorageRefs(p)

	sorted, err := Sort(p)
	if err != nil {
		return nil, err
	}
	if err := Validate(sorted); err != nil {
		return nil, err
	}

	b.logger.Info("Pipeline wired",
		"components", len(sorted),
		"injected", len(injected))

	return &Result{Pipeline: sorted, Injected: injected}, nil
}

// satisfy resolves components for needs. Needs bound to a storage ref are handled
// first so that a specific embedding provider also satisfies later generic needs.
func (b *Builder) satisfy(p component.Pipeline, needs []need) (component.Pipeline, error) {
	if b.resolver == nil {
		return nil, fmt.Errorf("%w: no resolver for %s", ErrUnsatisfied, needs[0])
	}

	sort.SliceStable(needs, func(i, j int) bool {
		return needs[i].StorageRef != "" && needs[j].StorageRef == ""
	})

	var added component.Pipeline
	for _, n := range needs {
		if isProvided(slices.Concat(p, added), nil, n) {
			continue
		}
		cs, err := b.resolve(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %s required by %s: %w", ErrUnsatisfied, n, n.Consumer, err)
		}
		added = append(added, cs...)
	}
	return added, nil
}

func (b *Builder) resolve(n need) (component.Pipeline, error) {
	if n.StorageRef == "" {
		c, err := b.resolver.ProviderFor(n.Feature)
		if err != nil {
			return nil, err
		}
		return component.Pipeline{c}, nil
	}

	provider, err := b.resolver.EmbeddingProvider(n.StorageRef, n.Feature)
	if err == nil {
		return component.Pipeline{provider}, nil
	}

	level := feature.LevelOf([]string{n.Feature})
	if level != feature.LevelSentence && level != feature.LevelChunk {
		return nil, err
	}

	// Produce the level from word embeddings of the same storage ref. The word embeddings
	// provider itself is picked up by the next round.
	conv, convErr := b.resolver.Converter(level)
	if convErr != nil {
		return nil, fmt.Errorf("%w; %w", err, convErr)
	}
	conv.StorageRef = n.StorageRef
	conv, convErr = ConfigChunkEmbedConverter(conv)
	if convErr != nil {
		return nil, convErr
	}
	return component.Pipeline{conv}, nil
}

// need is an input feature nothing in the pipeline provides yet.
type need struct {
	Feature string
	// StorageRef is set for embedding requirements of trained consumers.
	StorageRef string
	Consumer   string
}

func (n need) String() string {
	return storageref.Tag(n.Feature, n.StorageRef)
}

func missingFeatures(p component.Pipeline) []need {
	var needs []need
	seen := make(map[string]bool)
	for _, c := range p {
		for _, col := range componentutil.CleanIrrelevantFeatures(c.InputColumns, componentutil.DefaultCleanOptions) {
			name, tag := storageref.Split(col)
			n := need{Feature: name, Consumer: c.String()}
			if feature.IsEmbedding(name) && componentutil.IsEmbeddingConsumer(c) && !componentutil.IsUntrainedModel(c) {
				n.StorageRef = tag
				if n.StorageRef == "" {
					n.StorageRef = storageref.Extract(c)
				}
			}
			if isProvided(p, c, n) || seen[n.String()] {
				continue
			}
			seen[n.String()] = true
			needs = append(needs, n)
		}
	}
	return needs
}

// isProvided reports whether a component other than self outputs the feature of n,
// with the right storage ref when n carries one.
func isProvided(p component.Pipeline, self *component.Component, n need) bool {
	for _, c := range p {
		if c == self {
			continue
		}
		for _, col := range c.OutputColumns {
			if storageref.Strip(col) != n.Feature {
				continue
			}
			if n.StorageRef == "" || storageref.Extract(c) == n.StorageRef {
				return true
			}
		}
	}
	return false
}
