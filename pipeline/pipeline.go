package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/nlu/annotator"
	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/events"
	"github.com/c360studio/nlu/metrics"
	"github.com/c360studio/nlu/model"
	"github.com/c360studio/nlu/wiring"
)

// Pipeline is a wired, ready to run component list. It is immutable after Load.
type Pipeline struct {
	// ID identifies this resolution in logs and events.
	ID string

	// Ref is the ref string passed to Load.
	Ref string

	// Keys are the registry keys the refs matched, in request order.
	Keys []string

	// Language is the language of the first resolved ref.
	Language string

	// Components is the wired pipeline in execution order.
	Components component.Pipeline

	// Injected names the components added during wiring.
	Injected []string

	ResolvedAt time.Time

	executor Executor
	logger   *slog.Logger
	metrics  *metrics.Collectors
}

type options struct {
	registry  *model.Registry
	logger    *slog.Logger
	executor  Executor
	metrics   *metrics.Collectors
	publisher events.Publisher
	maxRounds int
}

// Option configures Load.
type Option func(*options)

// WithRegistry resolves refs against r instead of model.Global().
func WithRegistry(r *model.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithLogger sets the logger used by Load, the wiring builder and Predict.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithExecutor sets the executor Predict delegates to.
func WithExecutor(e Executor) Option {
	return func(o *options) { o.executor = e }
}

// WithMetrics records resolutions and failures on c.
func WithMetrics(c *metrics.Collectors) Option {
	return func(o *options) { o.metrics = c }
}

// WithPublisher announces every loaded pipeline on p.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithMaxInjectionRounds bounds dependency injection during wiring.
func WithMaxInjectionRounds(n int) Option {
	return func(o *options) { o.maxRounds = n }
}

// Load resolves ref and wires the result. Several refs may be requested at once,
// separated by spaces ("tokenize pos sentiment"); their components share injected
// dependencies.
func Load(ctx context.Context, ref string, opts ...Option) (*Pipeline, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = model.Global()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	start := time.Now()

	refs := strings.Fields(ref)
	if len(refs) == 0 {
		o.metrics.ObserveFailure(metrics.ReasonUnknownRef)
		return nil, ErrEmptyRef
	}

	p := &Pipeline{
		ID:       uuid.NewString(),
		Ref:      ref,
		executor: o.executor,
		logger:   o.logger,
		metrics:  o.metrics,
	}

	var (
		candidates component.Pipeline
		seen       = make(map[string]bool)
	)
	for _, r := range refs {
		res, err := o.registry.Resolve(r)
		if err != nil {
			o.metrics.ObserveFailure(failureReason(err))
			return nil, fmt.Errorf("load %q: %w", ref, err)
		}
		if slices.Contains(p.Keys, res.Key) {
			o.logger.Debug("Skipping repeated ref", "ref", r, "key", res.Key)
			continue
		}
		if p.Language == "" {
			p.Language = res.Language
		}
		p.Keys = append(p.Keys, res.Key)
		for _, c := range fresh(res, seen) {
			wrapped, err := annotator.Wrap(o.registry, c)
			if err != nil {
				o.metrics.ObserveFailure(failureReason(err))
				return nil, fmt.Errorf("load %q: %w", ref, err)
			}
			candidates = append(candidates, wrapped)
		}
	}

	builder := wiring.NewBuilder(wrappingResolver{o.registry},
		wiring.WithLogger(o.logger.With("pipeline_id", p.ID)),
		wiring.WithMaxInjectionRounds(o.maxRounds))
	built, err := builder.Build(ctx, candidates)
	if err != nil {
		o.metrics.ObserveFailure(failureReason(err))
		return nil, fmt.Errorf("load %q: %w", ref, err)
	}

	p.Components = built.Pipeline
	p.Injected = built.Injected
	p.ResolvedAt = time.Now().UTC()

	o.metrics.ObserveResolution(strings.Join(p.Keys, " "), p.Injected, len(p.Components), time.Since(start))

	o.logger.Info("Loaded pipeline",
		"pipeline_id", p.ID,
		"ref", ref,
		"keys", p.Keys,
		"components", len(p.Components),
		"injected", len(p.Injected))

	if o.publisher != nil {
		if err := o.publisher.PublishResolved(ctx, p.Summary()); err != nil {
			o.logger.Warn("Failed to publish pipeline",
				"pipeline_id", p.ID,
				"error", err)
		}
	}

	return p, nil
}

// fresh returns the components of res whose registry key and NLP ref were not
// already taken by an earlier ref, and marks them as taken.
func fresh(res *model.Resolution, seen map[string]bool) component.Pipeline {
	var out component.Pipeline
	for i, c := range res.Components {
		var keys []string
		if i < len(res.ComponentKeys) {
			keys = append(keys, "key:"+res.ComponentKeys[i])
		}
		if c.NLPRef != "" {
			keys = append(keys, "nlp:"+c.NLPRef)
		}
		if slices.ContainsFunc(keys, func(k string) bool { return seen[k] }) {
			continue
		}
		for _, k := range keys {
			seen[k] = true
		}
		out = append(out, c)
	}
	return out
}

// Summary describes the pipeline as an event payload.
func (p *Pipeline) Summary() *events.PipelineResolved {
	out := &events.PipelineResolved{
		ID:         p.ID,
		Ref:        p.Ref,
		Key:        strings.Join(p.Keys, " "),
		Language:   p.Language,
		ResolvedAt: p.ResolvedAt,
	}
	for _, c := range p.Components {
		out.Components = append(out.Components, events.ComponentInfo{
			Name:          c.Name,
			Type:          c.Type.String(),
			NLURef:        c.NLURef,
			NLPRef:        c.NLPRef,
			StorageRef:    c.StorageRef,
			InputColumns:  c.InputColumns,
			OutputColumns: c.OutputColumns,
			Injected:      !p.requested(c),
		})
	}
	return out
}

// requested reports whether c came from one of the requested refs rather than from
// wiring. Resolved components carry the requested ref, injected ones their own key.
func (p *Pipeline) requested(c *component.Component) bool {
	for _, r := range strings.Fields(p.Ref) {
		if c.NLURef == r {
			return true
		}
	}
	return false
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, model.ErrUnknownRef):
		return metrics.ReasonUnknownRef
	case wiring.IsUnsatisfied(err):
		return metrics.ReasonUnsatisfied
	default:
		return metrics.ReasonOther
	}
}
