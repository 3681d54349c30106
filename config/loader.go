package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is looked up in the working directory and its parents.
	ProjectConfigFile = "nlu.yaml"
	// UserConfigDir is relative to the user's home directory.
	UserConfigDir = ".config/nlu"
	// UserConfigFile is the file name inside UserConfigDir.
	UserConfigFile = "config.yaml"
	// EnvConfigFile names a config file applied on top of the user and project layers.
	EnvConfigFile = "NLU_CONFIG"
)

// layer is one config file in precedence order. Optional layers may be missing.
type layer struct {
	name     string
	path     string
	optional bool
}

// Loader merges config layers over DefaultConfig.
type Loader struct {
	logger *slog.Logger

	// homeDir and workDir default to the user's home and the current directory.
	homeDir string
	workDir string

	sources []string
}

// NewLoader creates a loader logging to logger, or slog.Default() when nil.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load merges, lowest precedence first:
//
//	defaults
//	~/.config/nlu/config.yaml
//	the nearest nlu.yaml walking up from the working directory
//	the file named by $NLU_CONFIG
//
// Relative registry file patterns are resolved against the directory of the file
// declaring them. A broken user or project file is skipped with a warning; a broken
// $NLU_CONFIG file is an error since it was asked for explicitly.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.sources = l.sources[:0]

	for _, ly := range l.layers() {
		layerCfg, err := LoadFromFile(ly.path)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist) && ly.optional:
			continue
		case ly.optional:
			l.logger.Warn("Skipping config layer",
				slog.String("layer", ly.name),
				slog.String("path", ly.path),
				slog.String("error", err.Error()))
			continue
		default:
			return nil, fmt.Errorf("%s config: %w", ly.name, err)
		}

		layerCfg.resolveFiles(filepath.Dir(ly.path))
		cfg.Merge(layerCfg)
		l.sources = append(l.sources, ly.path)
		l.logger.Debug("Applied config layer", slog.String("layer", ly.name), slog.String("path", ly.path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Sources lists the files applied by the last Load, lowest precedence first.
func (l *Loader) Sources() []string {
	return append([]string(nil), l.sources...)
}

func (l *Loader) layers() []layer {
	var out []layer
	if p := l.userConfigPath(); p != "" {
		out = append(out, layer{name: "user", path: p, optional: true})
	}
	if p, ok := l.findProjectConfig(); ok {
		out = append(out, layer{name: "project", path: p, optional: true})
	}
	if p := os.Getenv(EnvConfigFile); p != "" {
		out = append(out, layer{name: EnvConfigFile, path: p})
	}
	return out
}

// EnsureUserConfig writes DefaultConfig to the user config path unless a file is
// already there.
func (l *Loader) EnsureUserConfig() error {
	path := l.userConfigPath()
	if path == "" {
		return errors.New("cannot determine home directory")
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return err
	}
	l.logger.Info("Created default user config", slog.String("path", path))
	return nil
}

func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig walks up from the working directory to the filesystem root.
func (l *Loader) findProjectConfig() (string, bool) {
	dir := l.workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", false
		}
		dir = cwd
	}

	for ; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		if filepath.Dir(dir) == dir {
			return "", false
		}
	}
}
