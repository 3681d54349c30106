package model

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the registry file watcher
type WatcherConfig struct {
	// Patterns are the registry file glob patterns to watch
	Patterns []string

	// DebounceDelay is how long to wait for more changes before reloading
	DebounceDelay time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// ReloadEvent reports one registry reload
type ReloadEvent struct {
	// Files are the registry files merged by the reload
	Files []string

	// Error if the reload failed
	Error error
}

// Watcher reloads registry files into a registry when they change.
// Reloads merge; entries removed from a file stay registered until restart.
type Watcher struct {
	config   WatcherConfig
	registry *Registry
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   bool

	events chan ReloadEvent
}

// NewWatcher creates a new registry file watcher
func NewWatcher(registry *Registry, config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.DebounceDelay == 0 {
		config.DebounceDelay = 200 * time.Millisecond
	}

	return &Watcher{
		config:   config,
		registry: registry,
		watcher:  fsw,
		logger:   logger,
		events:   make(chan ReloadEvent, 16),
	}, nil
}

// Events returns the channel of reload events
func (w *Watcher) Events() <-chan ReloadEvent {
	return w.events
}

// Start watches the directories holding the registry files
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range watchDirs(w.config.Patterns) {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("Failed to watch registry directory",
				"path", dir,
				"error", err)
			continue
		}
		w.logger.Debug("Watching registry directory", "path", dir)
	}

	go w.processEvents(ctx)

	w.logger.Info("Registry watcher started",
		"patterns", w.config.Patterns,
		"debounce", w.config.DebounceDelay)
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Registry watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// handleFSEvent marks a reload as pending when a watched registry file changes
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.matches(event.Name) {
		return
	}

	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()

	w.logger.Debug("Registry file change detected",
		"path", event.Name,
		"op", event.Op.String())
}

func (w *Watcher) matches(path string) bool {
	for _, pattern := range w.config.Patterns {
		if filepath.Clean(pattern) == filepath.Clean(path) {
			return true
		}
		if ok, _ := doublestar.PathMatch(filepath.Clean(pattern), filepath.Clean(path)); ok {
			return true
		}
	}
	return false
}

// flushPending reloads the registry once per debounce window
func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	if !w.pending {
		w.pendingMu.Unlock()
		return
	}
	w.pending = false
	w.pendingMu.Unlock()

	files, err := w.registry.MergeFiles(w.config.Patterns)
	if err != nil {
		w.logger.Warn("Registry reload failed", "error", err)
	} else {
		w.logger.Info("Registry reloaded", "files", len(files))
	}

	select {
	case w.events <- ReloadEvent{Files: files, Error: err}:
	default:
		w.logger.Warn("Reload event channel full, dropping event")
	}
}

// watchDirs returns the deduplicated static base directory of every pattern.
// Directories below a ** base are not watched.
func watchDirs(patterns []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		dir := filepath.FromSlash(base)
		if !strings.ContainsAny(pattern, "*?[{") {
			dir = filepath.Dir(pattern)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
