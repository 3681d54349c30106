package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

// Registry manages component selection based on nlu refs.
// It maps refs to the components making up their pipeline and features to the
// components providing them by default.
type Registry struct {
	mu         sync.RWMutex
	refs       map[string]*RefConfig
	components map[string]*ComponentConfig
	defaults   *DefaultsConfig
}

// RefConfig defines the components a ref resolves to.
type RefConfig struct {
	// Description explains what this ref is for.
	Description string `json:"description" yaml:"description"`

	// Components lists component keys in pipeline order.
	Components []string `json:"components" yaml:"components"`
}

// ComponentConfig defines a pretrained component.
type ComponentConfig struct {
	// Name is the node identifier of the component (e.g. "ner_dl").
	Name string `json:"name" yaml:"name"`

	// Type is the annotator type.
	Type nodeid.Type `json:"type" yaml:"type"`

	// Class is the annotator class of the underlying model.
	Class string `json:"class,omitempty" yaml:"class,omitempty"`

	// NLPRef is the pretrained model name.
	NLPRef string `json:"nlp_ref,omitempty" yaml:"nlp_ref,omitempty"`

	// Language is the ISO code of the pretrained model.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	InTypes  []string `json:"in_types" yaml:"in_types"`
	OutTypes []string `json:"out_types" yaml:"out_types"`

	// StorageRef is the storage reference configured on the model.
	StorageRef string `json:"storage_ref,omitempty" yaml:"storage_ref,omitempty"`

	Producer  bool `json:"producer,omitempty" yaml:"producer,omitempty"`
	Consumer  bool `json:"consumer,omitempty" yaml:"consumer,omitempty"`
	Untrained bool `json:"untrained,omitempty" yaml:"untrained,omitempty"`
	Licensed  bool `json:"licensed,omitempty" yaml:"licensed,omitempty"`
}

// DefaultsConfig holds default resolution settings.
type DefaultsConfig struct {
	// Language qualifies refs requested without a language prefix.
	Language string `json:"language" yaml:"language"`

	// Providers maps a feature name to the component key providing it by default.
	Providers map[string]string `json:"providers,omitempty" yaml:"providers,omitempty"`

	// Converters maps an embedding level to the converter component key.
	Converters map[string]string `json:"converters,omitempty" yaml:"converters,omitempty"`
}

// Resolution is the result of resolving a ref.
type Resolution struct {
	// Ref is the ref as requested.
	Ref string
	// Key is the registry key the ref matched.
	Key string
	// Language is the language of the matched key.
	Language string
	// Components are freshly built components in pipeline order.
	Components component.Pipeline
	// ComponentKeys are the registry keys of Components, index for index.
	ComponentKeys []string
}

// NewRegistry creates a new registry with the given configuration.
func NewRegistry(refs map[string]*RefConfig, components map[string]*ComponentConfig) *Registry {
	return &Registry{
		refs:       refs,
		components: components,
		defaults: &DefaultsConfig{
			Language: "en",
		},
	}
}

// Resolve returns the components a ref resolves to.
//
// Lookup order: the ref as given, the ref qualified with the default language, then
// the qualified alias of its task. Unknown refs return ErrUnknownRef.
func (r *Registry) Resolve(ref string) (*Resolution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !Ref(ref).IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRef, ref)
	}

	key, cfg, ok := r.lookupRef(Ref(ref))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRef, ref)
	}

	res := &Resolution{
		Ref:      ref,
		Key:      key,
		Language: Ref(key).Language(),
	}
	for _, name := range cfg.Components {
		c, err := r.build(name, ref)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", ref, err)
		}
		res.Components = append(res.Components, c)
		res.ComponentKeys = append(res.ComponentKeys, name)
	}
	return res, nil
}

// lookupRef must be called with the read lock held.
func (r *Registry) lookupRef(ref Ref) (string, *RefConfig, bool) {
	lang := ref.Language()
	if lang == "" {
		lang = r.defaultLanguage()
	}
	candidates := []string{
		string(ref),
		lang + "." + ref.Task(),
		lang + "." + AliasForTask(ref.Task()),
	}
	for _, key := range candidates {
		if cfg, ok := r.refs[key]; ok {
			return key, cfg, true
		}
	}
	return "", nil, false
}

// Component builds a fresh component for a configured component key.
func (r *Registry) Component(key string) (*component.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.build(key, key)
}

// ProviderFor builds the default provider for a feature.
func (r *Registry) ProviderFor(featureName string) (*component.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.defaults != nil {
		if key, ok := r.defaults.Providers[featureName]; ok {
			return r.build(key, key)
		}
	}
	return nil, fmt.Errorf("%w for feature %q", ErrNoProvider, featureName)
}

// EmbeddingProvider builds a component producing featureName embeddings identified by
// storageRef. Keys are scanned in sorted order so the choice is deterministic.
func (r *Registry) EmbeddingProvider(storageRef, featureName string) (*component.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, key := range r.sortedComponentKeys() {
		cfg := r.components[key]
		if cfg.Producer && cfg.StorageRef == storageRef && slices.Contains(cfg.OutTypes, featureName) {
			return r.build(key, key)
		}
	}
	return nil, fmt.Errorf("%w for %s@%s", ErrNoProvider, featureName, storageRef)
}

// Converter builds the embeddings converter producing the given level.
func (r *Registry) Converter(level feature.EmbedLevel) (*component.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.defaults != nil {
		if key, ok := r.defaults.Converters[string(level)]; ok {
			return r.build(key, key)
		}
	}
	return nil, fmt.Errorf("%w: no converter to %s", ErrNoProvider, level)
}

// Pretrained builds the component configured for a pretrained model name. An empty
// language matches any language.
func (r *Registry) Pretrained(nlpRef, language string) (*component.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, key := range r.sortedComponentKeys() {
		cfg := r.components[key]
		if cfg.NLPRef != nlpRef {
			continue
		}
		if language == "" || cfg.Language == language {
			return r.build(key, key)
		}
	}
	return nil, fmt.Errorf("%w: pretrained %q for language %q", ErrUnknownComponent, nlpRef, language)
}

// build must be called with the read lock held.
func (r *Registry) build(key, nluRef string) (*component.Component, error) {
	cfg, ok := r.components[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, key)
	}
	return cfg.Build(nluRef), nil
}

// Build creates a component from the configuration. The storage reference is set on
// the model handle only; the component's own StorageRef stays unresolved.
func (cfg *ComponentConfig) Build(nluRef string) *component.Component {
	c := component.New(cfg.Name, cfg.Type, cfg.InTypes, cfg.OutTypes)
	c.NLURef = nluRef
	c.NLPRef = cfg.NLPRef
	c.Language = cfg.Language
	c.StorageRefProducer = cfg.Producer
	c.StorageRefConsumer = cfg.Consumer
	c.Untrained = cfg.Untrained
	c.Licensed = cfg.Licensed

	class := cfg.Class
	if class == "" {
		class = cfg.Name
	}
	var out string
	if len(cfg.OutTypes) > 0 {
		out = cfg.OutTypes[0]
	}
	c.Model = component.NewHandle(class, cfg.NLPRef, cfg.Language).
		WithStorageRef(cfg.StorageRef).
		WithColumns(cfg.InTypes, out)
	return c
}

// GetRef returns the configuration of a ref key. Returns nil if not configured.
func (r *Registry) GetRef(key string) *RefConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.refs[key]
}

// GetComponent returns the configuration of a component key. Returns nil if not configured.
func (r *Registry) GetComponent(key string) *ComponentConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.components[key]
}

// SetRef updates or adds a ref configuration.
func (r *Registry) SetRef(key string, cfg *RefConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refs == nil {
		r.refs = make(map[string]*RefConfig)
	}
	r.refs[key] = cfg
}

// SetComponent updates or adds a component configuration.
func (r *Registry) SetComponent(key string, cfg *ComponentConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.components == nil {
		r.components = make(map[string]*ComponentConfig)
	}
	r.components[key] = cfg
}

// SetProvider sets the default provider component for a feature.
func (r *Registry) SetProvider(featureName, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureDefaults()
	if r.defaults.Providers == nil {
		r.defaults.Providers = make(map[string]string)
	}
	r.defaults.Providers[featureName] = key
}

// SetConverter sets the converter component for an embedding level.
func (r *Registry) SetConverter(level feature.EmbedLevel, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureDefaults()
	if r.defaults.Converters == nil {
		r.defaults.Converters = make(map[string]string)
	}
	r.defaults.Converters[string(level)] = key
}

// SetDefaultLanguage sets the language used for unqualified refs.
func (r *Registry) SetDefaultLanguage(lang string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureDefaults()
	r.defaults.Language = lang
}

// DefaultLanguage returns the language used for unqualified refs.
func (r *Registry) DefaultLanguage() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.defaultLanguage()
}

func (r *Registry) defaultLanguage() string {
	if r.defaults == nil || r.defaults.Language == "" {
		return "en"
	}
	return r.defaults.Language
}

func (r *Registry) ensureDefaults() {
	if r.defaults == nil {
		r.defaults = &DefaultsConfig{Language: "en"}
	}
}

// ListRefs returns all configured ref keys, sorted.
func (r *Registry) ListRefs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.refs))
	for key := range r.refs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ListComponents returns all configured component keys, sorted.
func (r *Registry) ListComponents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedComponentKeys()
}

func (r *Registry) sortedComponentKeys() []string {
	keys := make([]string, 0, len(r.components))
	for key := range r.components {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every referenced component key is configured.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for _, key := range sortedKeys(r.refs) {
		for _, name := range r.refs[key].Components {
			if _, ok := r.components[name]; !ok {
				errs = append(errs, fmt.Errorf("ref %q: component %q not found", key, name))
			}
		}
	}
	if r.defaults != nil {
		for _, f := range sortedKeys(r.defaults.Providers) {
			if _, ok := r.components[r.defaults.Providers[f]]; !ok {
				errs = append(errs, fmt.Errorf("provider %q for feature %q not found", r.defaults.Providers[f], f))
			}
		}
		for _, level := range sortedKeys(r.defaults.Converters) {
			if _, ok := r.components[r.defaults.Converters[level]]; !ok {
				errs = append(errs, fmt.Errorf("converter %q for %q not found", r.defaults.Converters[level], level))
			}
		}
	}
	for _, key := range r.sortedComponentKeys() {
		if r.components[key].Name == "" {
			errs = append(errs, fmt.Errorf("component %q has no name", key))
		}
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON implements json.Marshaler for the registry.
func (r *Registry) MarshalJSON() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return json.Marshal(struct {
		Refs       map[string]*RefConfig       `json:"refs"`
		Components map[string]*ComponentConfig `json:"components"`
		Defaults   *DefaultsConfig             `json:"defaults,omitempty"`
	}{
		Refs:       r.refs,
		Components: r.components,
		Defaults:   r.defaults,
	})
}

// UnmarshalJSON implements json.Unmarshaler for the registry.
func (r *Registry) UnmarshalJSON(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tmp struct {
		Refs       map[string]*RefConfig       `json:"refs"`
		Components map[string]*ComponentConfig `json:"components"`
		Defaults   *DefaultsConfig             `json:"defaults,omitempty"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	r.refs = tmp.Refs
	r.components = tmp.Components
	r.defaults = tmp.Defaults
	return nil
}
