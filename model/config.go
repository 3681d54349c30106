package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// RegistryConfig represents the file configuration structure for the model registry.
// This is the format used in registry files and in nlu.json under "model_registry".
type RegistryConfig struct {
	Refs       map[string]*RefConfig       `json:"refs" yaml:"refs"`
	Components map[string]*ComponentConfig `json:"components" yaml:"components"`
	Defaults   *DefaultsConfig             `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

// LoadFromFile loads a registry configuration from a JSON or YAML file.
// The format is chosen by extension; anything but .yaml/.yml is read as JSON.
func LoadFromFile(path string) (*Registry, error) {
	cfg, err := ReadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return registryFromConfig(cfg), nil
}

// ReadConfigFile reads a registry configuration without building a registry.
func ReadConfigFile(path string) (*RegistryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return parseJSON(data)
	}
}

// LoadFromJSON loads a registry from JSON data.
// Accepts either a full config with "model_registry" key or just the registry config.
func LoadFromJSON(data []byte) (*Registry, error) {
	cfg, err := parseJSON(data)
	if err != nil {
		return nil, err
	}
	return registryFromConfig(cfg), nil
}

// LoadFromYAML loads a registry from YAML data.
// Accepts either a full config with "model_registry" key or just the registry config.
func LoadFromYAML(data []byte) (*Registry, error) {
	cfg, err := parseYAML(data)
	if err != nil {
		return nil, err
	}
	return registryFromConfig(cfg), nil
}

func parseJSON(data []byte) (*RegistryConfig, error) {
	// First try to parse as a full config with model_registry key
	var fullConfig struct {
		ModelRegistry *RegistryConfig `json:"model_registry"`
	}
	if err := json.Unmarshal(data, &fullConfig); err == nil && fullConfig.ModelRegistry != nil {
		return fullConfig.ModelRegistry, nil
	}

	var regConfig RegistryConfig
	if err := json.Unmarshal(data, &regConfig); err != nil {
		return nil, fmt.Errorf("parse registry config: %w", err)
	}
	return &regConfig, nil
}

func parseYAML(data []byte) (*RegistryConfig, error) {
	var fullConfig struct {
		ModelRegistry *RegistryConfig `yaml:"model_registry"`
	}
	if err := yaml.Unmarshal(data, &fullConfig); err == nil && fullConfig.ModelRegistry != nil {
		return fullConfig.ModelRegistry, nil
	}

	var regConfig RegistryConfig
	if err := yaml.Unmarshal(data, &regConfig); err != nil {
		return nil, fmt.Errorf("parse registry config: %w", err)
	}
	return &regConfig, nil
}

// ExpandPatterns expands glob patterns (including **) to registry files, sorted and
// deduplicated. Patterns without glob characters are returned as given.
func ExpandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches := []string{pattern}
		if strings.ContainsAny(pattern, "*?[{") {
			var err error
			matches, err = doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
			}
			sort.Strings(matches)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// MergeFiles merges every registry file matched by patterns into r, in order.
// Returns the files that were merged.
func (r *Registry) MergeFiles(patterns []string) ([]string, error) {
	files, err := ExpandPatterns(patterns)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		cfg, err := ReadConfigFile(f)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
		r.MergeFromConfig(cfg)
	}
	return files, nil
}

// registryFromConfig converts a RegistryConfig to a Registry.
func registryFromConfig(cfg *RegistryConfig) *Registry {
	defaults := cfg.Defaults
	if defaults == nil {
		defaults = &DefaultsConfig{Language: "en"}
	}

	refs := cfg.Refs
	if refs == nil {
		refs = make(map[string]*RefConfig)
	}
	components := cfg.Components
	if components == nil {
		components = make(map[string]*ComponentConfig)
	}

	return &Registry{
		refs:       refs,
		components: components,
		defaults:   defaults,
	}
}

// ToConfig converts a Registry to a RegistryConfig for serialization.
func (r *Registry) ToConfig() *RegistryConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &RegistryConfig{
		Refs:       r.refs,
		Components: r.components,
		Defaults:   r.defaults,
	}
}

// MergeFromConfig merges configuration into an existing registry.
// Existing entries are overwritten by the new config.
func (r *Registry) MergeFromConfig(cfg *RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == nil {
		r.refs = make(map[string]*RefConfig)
	}
	if r.components == nil {
		r.components = make(map[string]*ComponentConfig)
	}

	for k, v := range cfg.Refs {
		r.refs[k] = v
	}
	for k, v := range cfg.Components {
		r.components[k] = v
	}

	if cfg.Defaults == nil {
		return
	}
	r.ensureDefaults()
	if cfg.Defaults.Language != "" {
		r.defaults.Language = cfg.Defaults.Language
	}
	for f, key := range cfg.Defaults.Providers {
		if r.defaults.Providers == nil {
			r.defaults.Providers = make(map[string]string)
		}
		r.defaults.Providers[f] = key
	}
	for level, key := range cfg.Defaults.Converters {
		if r.defaults.Converters == nil {
			r.defaults.Converters = make(map[string]string)
		}
		r.defaults.Converters[level] = key
	}
}
