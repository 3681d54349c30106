// Package config provides configuration loading and management for nlu.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the complete nlu configuration
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	Wiring   WiringConfig   `yaml:"wiring"`
	NATS     NATSConfig     `yaml:"nats"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// RegistryConfig configures the model registry
type RegistryConfig struct {
	// DefaultLanguage qualifies refs requested without a language (default: en)
	DefaultLanguage string `yaml:"default_language"`
	// Files are glob patterns of JSON/YAML registry files merged over the built-in tables
	Files []string `yaml:"files"`
	// Watch reloads registry files when they change
	Watch bool `yaml:"watch"`
	// DebounceDelay groups bursts of file events into one reload
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// WiringConfig configures pipeline auto-wiring
type WiringConfig struct {
	// MaxInjectionRounds bounds dependency injection (default: 8)
	MaxInjectionRounds int `yaml:"max_injection_rounds"`
}

// NATSConfig configures event publication
type NATSConfig struct {
	// URL is the NATS server URL (empty = events disabled)
	URL string `yaml:"url"`
	// Subject receives resolved pipeline events
	Subject string `yaml:"subject"`
	// HistoryBucket is the KV bucket resolutions are recorded in (empty = no history)
	HistoryBucket string `yaml:"history_bucket"`
}

// MetricsConfig configures Prometheus metrics
type MetricsConfig struct {
	// Namespace prefixes metric names
	Namespace string `yaml:"namespace"`
	// Addr serves /metrics from long running commands (empty = not served)
	Addr string `yaml:"addr"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			DefaultLanguage: "en",
			DebounceDelay:   500 * time.Millisecond,
		},
		Wiring: WiringConfig{
			MaxInjectionRounds: 8,
		},
		NATS: NATSConfig{
			Subject: "nlu.pipeline.resolved",
		},
		Metrics: MetricsConfig{
			Namespace: "nlu",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Registry.DefaultLanguage == "" {
		return fmt.Errorf("registry.default_language is required")
	}
	for _, pattern := range c.Registry.Files {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return fmt.Errorf("registry.files: invalid pattern %q", pattern)
		}
	}
	if c.Registry.DebounceDelay < 0 {
		return fmt.Errorf("registry.debounce_delay must not be negative")
	}
	if c.Wiring.MaxInjectionRounds < 1 {
		return fmt.Errorf("wiring.max_injection_rounds must be at least 1")
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats.url is set")
	}
	if !slices.Contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v", LogLevels)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values).
// Registry files accumulate rather than replace.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Registry
	if other.Registry.DefaultLanguage != "" {
		c.Registry.DefaultLanguage = other.Registry.DefaultLanguage
	}
	for _, f := range other.Registry.Files {
		if !slices.Contains(c.Registry.Files, f) {
			c.Registry.Files = append(c.Registry.Files, f)
		}
	}
	if other.Registry.Watch {
		c.Registry.Watch = true
	}
	if other.Registry.DebounceDelay != 0 {
		c.Registry.DebounceDelay = other.Registry.DebounceDelay
	}

	// Wiring
	if other.Wiring.MaxInjectionRounds != 0 {
		c.Wiring.MaxInjectionRounds = other.Wiring.MaxInjectionRounds
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.NATS.HistoryBucket != "" {
		c.NATS.HistoryBucket = other.NATS.HistoryBucket
	}

	// Metrics
	if other.Metrics.Namespace != "" {
		c.Metrics.Namespace = other.Metrics.Namespace
	}
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// resolveFiles makes relative registry patterns relative to dir.
func (c *Config) resolveFiles(dir string) {
	for i, f := range c.Registry.Files {
		if !filepath.IsAbs(f) {
			c.Registry.Files[i] = filepath.Join(dir, f)
		}
	}
}
