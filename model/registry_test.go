package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/c360studio/nlu/storageref"
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	if len(r.ListRefs()) < 10 {
		t.Errorf("expected at least 10 refs, got %d", len(r.ListRefs()))
	}
	if len(r.ListComponents()) < 15 {
		t.Errorf("expected at least 15 components, got %d", len(r.ListComponents()))
	}
	if err := r.Validate(); err != nil {
		t.Errorf("default registry should be valid: %v", err)
	}
	if r.DefaultLanguage() != "en" {
		t.Errorf("expected default language en, got %q", r.DefaultLanguage())
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		ref      string
		key      string
		language string
		names    []string
	}{
		{"en.lemma", "en.lemma", "en", []string{nodeid.Lemmatizer}},
		{"lemma", "en.lemma", "en", []string{nodeid.Lemmatizer}},
		{"de.lemma", "de.lemma", "de", []string{nodeid.Lemmatizer}},
		{"pos", "en.pos", "en", []string{nodeid.POS}},
		{"emotion", "en.classify.emotion", "en", []string{nodeid.ClassifierDL}},
		{"ner", "en.ner.onto.glove", "en", []string{nodeid.NERDL, nodeid.NERConverter}},
		{"en.embed.glove", "en.embed.glove", "en", []string{nodeid.WordEmbeddings}},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			res, err := r.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.ref, err)
			}
			if res.Key != tt.key {
				t.Errorf("Resolve(%q).Key = %q, want %q", tt.ref, res.Key, tt.key)
			}
			if res.Language != tt.language {
				t.Errorf("Resolve(%q).Language = %q, want %q", tt.ref, res.Language, tt.language)
			}
			got := res.Components.Names()
			if strings.Join(got, ",") != strings.Join(tt.names, ",") {
				t.Errorf("Resolve(%q) components = %v, want %v", tt.ref, got, tt.names)
			}
			for _, c := range res.Components {
				if c.NLURef != tt.ref {
					t.Errorf("component %s has nlu ref %q, want %q", c.Name, c.NLURef, tt.ref)
				}
			}
		})
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	r := NewDefaultRegistry()

	for _, ref := range []string{"", "does.not.exist", "en..pos"} {
		_, err := r.Resolve(ref)
		if !errors.Is(err, ErrUnknownRef) {
			t.Errorf("Resolve(%q) error = %v, want ErrUnknownRef", ref, err)
		}
	}
}

func TestRegistryResolveMissingComponent(t *testing.T) {
	r := NewRegistry(map[string]*RefConfig{
		"en.broken": {Components: []string{"missing"}},
	}, nil)

	_, err := r.Resolve("broken")
	if !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("expected ErrUnknownComponent, got %v", err)
	}
}

func TestRegistryResolveBuildsFreshComponents(t *testing.T) {
	r := NewDefaultRegistry()

	a, err := r.Resolve("en.embed.glove")
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Resolve("en.embed.glove")
	if err != nil {
		t.Fatal(err)
	}
	if a.Components[0] == b.Components[0] {
		t.Fatal("expected distinct component instances")
	}
	if a.Components[0].Model.UID() == b.Components[0].Model.UID() {
		t.Error("expected distinct model UIDs")
	}

	glove := a.Components[0]
	if glove.StorageRef != "" {
		t.Errorf("storage ref should stay unresolved on the component, got %q", glove.StorageRef)
	}
	if got := storageref.Extract(glove); got != "glove_100d" {
		t.Errorf("expected storage ref glove_100d from model, got %q", got)
	}
	if !glove.StorageRefProducer {
		t.Error("expected glove to be a storage ref producer")
	}
}

func TestRegistryProviderFor(t *testing.T) {
	r := NewDefaultRegistry()

	c, err := r.ProviderFor(feature.Token)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != nodeid.Tokenizer {
		t.Errorf("expected tokenizer, got %s", c.Name)
	}

	if _, err := r.ProviderFor("unknown_feature"); !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
}

func TestRegistryEmbeddingProvider(t *testing.T) {
	r := NewDefaultRegistry()

	c, err := r.EmbeddingProvider("bert_base_cased", feature.WordEmbeddings)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != nodeid.BertEmbeddings {
		t.Errorf("expected bert embeddings, got %s", c.Name)
	}

	c, err = r.EmbeddingProvider("tfhub_use", feature.SentenceEmbeddings)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != nodeid.UniversalSentenceEncoder {
		t.Errorf("expected universal sentence encoder, got %s", c.Name)
	}

	if _, err := r.EmbeddingProvider("glove_100d", feature.SentenceEmbeddings); !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider for sentence level glove, got %v", err)
	}
}

func TestRegistryConverter(t *testing.T) {
	r := NewDefaultRegistry()

	c, err := r.Converter(feature.LevelChunk)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != nodeid.ChunkEmbeddingsConverter {
		t.Errorf("expected chunk converter, got %s", c.Name)
	}
	if !c.StorageRefProducer || !c.StorageRefConsumer {
		t.Error("converters must both consume and produce storage refs")
	}

	if _, err := r.Converter(feature.LevelDocument); !errors.Is(err, ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
}

func TestRegistryPretrained(t *testing.T) {
	r := NewDefaultRegistry()

	c, err := r.Pretrained("lemma", "de")
	if err != nil {
		t.Fatal(err)
	}
	if c.Language != "de" || c.Name != nodeid.Lemmatizer {
		t.Errorf("expected german lemmatizer, got %s (%s)", c.Name, c.Language)
	}

	c, err = r.Pretrained("lemma_antbnc", "")
	if err != nil {
		t.Fatal(err)
	}
	if c.NLPRef != "lemma_antbnc" {
		t.Errorf("expected lemma_antbnc, got %s", c.NLPRef)
	}

	if _, err := r.Pretrained("lemma_antbnc", "fr"); !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("expected ErrUnknownComponent, got %v", err)
	}
}

func TestRegistrySetters(t *testing.T) {
	r := NewRegistry(nil, nil)

	r.SetComponent("custom_lemma", &ComponentConfig{
		Name:     nodeid.Lemmatizer,
		Type:     nodeid.TypeLemmatizer,
		NLPRef:   "lemma_custom",
		Language: "fr",
		InTypes:  []string{feature.Token},
		OutTypes: []string{feature.Lemma},
	})
	r.SetRef("fr.lemma", &RefConfig{Components: []string{"custom_lemma"}})
	r.SetProvider(feature.Lemma, "custom_lemma")
	r.SetConverter(feature.LevelSentence, "custom_lemma")
	r.SetDefaultLanguage("fr")

	res, err := r.Resolve("lemma")
	if err != nil {
		t.Fatal(err)
	}
	if res.Components[0].NLPRef != "lemma_custom" {
		t.Errorf("expected lemma_custom, got %q", res.Components[0].NLPRef)
	}
	if r.GetRef("fr.lemma") == nil || r.GetComponent("custom_lemma") == nil {
		t.Error("expected configured ref and component")
	}
	if _, err := r.ProviderFor(feature.Lemma); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestRegistryJSONRoundtrip(t *testing.T) {
	original := NewDefaultRegistry()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	restored := &Registry{}
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if len(original.ListRefs()) != len(restored.ListRefs()) {
		t.Errorf("ref count mismatch: %d vs %d", len(original.ListRefs()), len(restored.ListRefs()))
	}

	res, err := restored.Resolve("pos")
	if err != nil {
		t.Fatalf("resolve after roundtrip: %v", err)
	}
	if res.Components[0].Name != nodeid.POS {
		t.Errorf("expected pos, got %s", res.Components[0].Name)
	}
}

func TestRegistryValidate(t *testing.T) {
	tests := []struct {
		name      string
		registry  *Registry
		wantError bool
		errorMsg  string
	}{
		{
			name:      "default registry is valid",
			registry:  NewDefaultRegistry(),
			wantError: false,
		},
		{
			name: "missing ref component",
			registry: NewRegistry(
				map[string]*RefConfig{"en.x": {Components: []string{"missing"}}},
				map[string]*ComponentConfig{},
			),
			wantError: true,
			errorMsg:  `component "missing" not found`,
		},
		{
			name: "missing provider",
			registry: func() *Registry {
				r := NewRegistry(nil, nil)
				r.SetProvider(feature.Token, "nope")
				return r
			}(),
			wantError: true,
			errorMsg:  `provider "nope"`,
		},
		{
			name: "unnamed component",
			registry: NewRegistry(nil, map[string]*ComponentConfig{
				"anon": {Type: nodeid.TypeHelper},
			}),
			wantError: true,
			errorMsg:  "has no name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.registry.Validate()
			if tt.wantError {
				if err == nil {
					t.Error("expected validation error, got nil")
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error message should contain %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestGlobal(t *testing.T) {
	ResetGlobal()
	defer ResetGlobal()

	custom := NewRegistry(nil, nil)
	InitGlobal(custom)
	if Global() != custom {
		t.Error("expected InitGlobal registry")
	}

	ResetGlobal()
	if Global() == custom {
		t.Error("expected default registry after reset")
	}
}
