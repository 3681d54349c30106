package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/nlu/config"
	"github.com/c360studio/nlu/events"
	"github.com/c360studio/nlu/metrics"
	"github.com/c360studio/nlu/model"
	"github.com/c360studio/nlu/pipeline"
	"github.com/c360studio/nlu/storage"
)

// App wires the registry, metrics and event publication together.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	registry *model.Registry

	// Metrics
	prom    *prometheus.Registry
	metrics *metrics.Collectors

	// Events, nil when NATS is not configured
	publisher *events.NATSPublisher

	// Resolution history, nil unless a history bucket is configured
	history *storage.Store
}

// NewApp creates a new application instance with the built-in registry tables
// overlaid by the configured registry files.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	registry := model.NewDefaultRegistry()
	registry.SetDefaultLanguage(cfg.Registry.DefaultLanguage)

	if len(cfg.Registry.Files) > 0 {
		files, err := registry.MergeFiles(cfg.Registry.Files)
		if err != nil {
			return nil, fmt.Errorf("load registry files: %w", err)
		}
		logger.Debug("Merged registry files", "files", files)
	}
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registry: %w", err)
	}

	prom := prometheus.NewRegistry()
	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		prom:     prom,
		metrics:  metrics.New(cfg.Metrics.Namespace, prom),
	}, nil
}

// Start connects to NATS when configured.
func (a *App) Start(ctx context.Context) error {
	if a.cfg.NATS.URL == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a.logger.Info("Connecting to NATS", "url", a.cfg.NATS.URL)
	pub, err := events.Connect(a.cfg.NATS.URL, a.cfg.NATS.Subject, a.logger)
	if err != nil {
		return err
	}
	a.publisher = pub

	if a.cfg.NATS.HistoryBucket == "" {
		return nil
	}
	js, err := pub.JetStream()
	if err != nil {
		return err
	}
	store, err := storage.NewStore(ctx, js, a.cfg.NATS.HistoryBucket)
	if err != nil {
		return fmt.Errorf("open resolution history: %w", err)
	}
	a.history = store
	a.logger.Debug("Recording resolutions", "bucket", a.cfg.NATS.HistoryBucket)
	return nil
}

// Load resolves and wires ref. A nil executor leaves Predict unavailable.
func (a *App) Load(ctx context.Context, ref string, executor pipeline.Executor) (*pipeline.Pipeline, error) {
	opts := []pipeline.Option{
		pipeline.WithRegistry(a.registry),
		pipeline.WithLogger(a.logger),
		pipeline.WithMetrics(a.metrics),
		pipeline.WithMaxInjectionRounds(a.cfg.Wiring.MaxInjectionRounds),
	}
	if pub := a.eventPublisher(); pub != nil {
		opts = append(opts, pipeline.WithPublisher(pub))
	}
	if executor != nil {
		opts = append(opts, pipeline.WithExecutor(executor))
	}
	return pipeline.Load(ctx, ref, opts...)
}

func (a *App) eventPublisher() events.Publisher {
	var out events.Fanout
	if a.publisher != nil {
		out = append(out, a.publisher)
	}
	if a.history != nil {
		out = append(out, a.history)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// History lists recorded resolutions, newest first, optionally filtered by ref.
func (a *App) History(ctx context.Context, ref string) ([]*events.PipelineResolved, error) {
	if a.history == nil {
		return nil, errors.New("resolution history is not configured (set nats.url and nats.history_bucket)")
	}
	return a.history.List(ctx, ref)
}

// Watch reloads registry files on change and serves metrics until ctx is done.
func (a *App) Watch(ctx context.Context) error {
	if len(a.cfg.Registry.Files) == 0 {
		return errors.New("no registry files configured to watch")
	}

	w, err := model.NewWatcher(a.registry, model.WatcherConfig{
		Patterns:      a.cfg.Registry.Files,
		DebounceDelay: a.cfg.Registry.DebounceDelay,
		Logger:        a.logger,
	})
	if err != nil {
		return fmt.Errorf("create registry watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start registry watcher: %w", err)
	}

	if a.cfg.Metrics.Addr != "" {
		srv := a.metricsServer()
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		a.logger.Info("Serving metrics", "addr", a.cfg.Metrics.Addr)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			a.handleReload(ev)
		}
	}
}

func (a *App) handleReload(ev model.ReloadEvent) {
	if ev.Error != nil {
		a.metrics.ObserveFailure(metrics.ReasonOther)
		a.logger.Warn("Registry reload failed", "error", ev.Error)
		return
	}
	if err := a.registry.Validate(); err != nil {
		a.logger.Warn("Registry invalid after reload", "files", ev.Files, "error", err)
		return
	}
	a.logger.Info("Registry reloaded",
		"files", ev.Files,
		"refs", len(a.registry.ListRefs()))
}

func (a *App) metricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.prom, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Shutdown drains the NATS connection.
func (a *App) Shutdown() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("Failed to drain NATS connection", "error", err)
		}
	}
}
