// Package metrics exposes Prometheus collectors for pipeline resolution.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "nlu"

// Failure reasons.
const (
	ReasonUnknownRef  = "unknown_ref"
	ReasonUnsatisfied = "unsatisfied"
	ReasonExecution   = "execution"
	ReasonOther       = "other"
)

// Collectors holds the resolution metrics. A nil *Collectors is valid and records nothing.
type Collectors struct {
	Resolutions     *prometheus.CounterVec
	Injections      *prometheus.CounterVec
	Failures        *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
	PipelineSize    prometheus.Histogram
}

// New registers the collectors with reg. A nil reg uses the default registerer.
func New(namespace string, reg prometheus.Registerer) *Collectors {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collectors{
		Resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Pipelines resolved, by registry key",
			},
			[]string{"key"},
		),
		Injections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "injected_components_total",
				Help:      "Components injected during wiring, by component name",
			},
			[]string{"component"},
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failures_total",
				Help:      "Failed resolutions and predictions, by reason",
			},
			[]string{"reason"},
		),
		ResolveDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolve_duration_seconds",
				Help:      "Time spent resolving and wiring a pipeline",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		),
		PipelineSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_components",
				Help:      "Number of components in wired pipelines",
				Buckets:   prometheus.LinearBuckets(1, 2, 8),
			},
		),
	}
}

// ObserveResolution records a successful resolution.
func (c *Collectors) ObserveResolution(key string, injected []string, size int, took time.Duration) {
	if c == nil {
		return
	}
	c.Resolutions.WithLabelValues(key).Inc()
	for _, name := range injected {
		c.Injections.WithLabelValues(name).Inc()
	}
	c.ResolveDuration.Observe(took.Seconds())
	c.PipelineSize.Observe(float64(size))
}

// ObserveFailure records a failure.
func (c *Collectors) ObserveFailure(reason string) {
	if c == nil {
		return
	}
	c.Failures.WithLabelValues(reason).Inc()
}
