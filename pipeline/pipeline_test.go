package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/nlu/annotator"
	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/events"
	"github.com/c360studio/nlu/input"
	"github.com/c360studio/nlu/metrics"
	"github.com/c360studio/nlu/model"
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
	"github.com/c360studio/nlu/wiring"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.PipelineResolved
	err    error
}

func (r *recordingPublisher) PublishResolved(_ context.Context, p *events.PipelineResolved) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
	return r.err
}

type recordingExecutor struct {
	got  component.Pipeline
	opts PredictOptions
	rows []Row
	err  error
}

func (e *recordingExecutor) Execute(_ context.Context, p component.Pipeline, _ []input.Document, opts PredictOptions) ([]Row, error) {
	e.got = p
	e.opts = opts
	return e.rows, e.err
}

func TestLoad(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	pub := &recordingPublisher{}

	p, err := Load(context.Background(), "emotion",
		WithRegistry(model.NewDefaultRegistry()),
		WithMetrics(m),
		WithPublisher(pub))
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []string{"en.classify.emotion"}, p.Keys)
	assert.Equal(t, "en", p.Language)
	assert.Equal(t, []string{
		nodeid.DocumentAssembler,
		nodeid.UniversalSentenceEncoder,
		nodeid.ClassifierDL,
	}, p.Components.Names())
	assert.False(t, p.ResolvedAt.IsZero())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("en.classify.emotion")))

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	require.NoError(t, ev.Validate())
	assert.Equal(t, p.ID, ev.ID)
	require.Len(t, ev.Components, 3)
	assert.True(t, ev.Components[0].Injected)
	assert.False(t, ev.Components[2].Injected)
	assert.Equal(t, "tfhub_use", ev.Components[2].StorageRef)
}

func TestLoadMultipleRefs(t *testing.T) {
	p, err := Load(context.Background(), "ner sentiment", WithRegistry(model.NewDefaultRegistry()))
	require.NoError(t, err)

	assert.Equal(t, []string{"en.ner.onto.glove", "en.classify.sentiment"}, p.Keys)

	glove := 0
	for _, c := range p.Components {
		if c.Name == nodeid.WordEmbeddings {
			glove++
		}
	}
	assert.Equal(t, 1, glove, "NER and sentiment share one glove provider")
	require.NoError(t, wiring.Validate(p.Components))
}

func TestLoadRepeatedRefs(t *testing.T) {
	r := model.NewDefaultRegistry()

	t.Run("same ref twice", func(t *testing.T) {
		p, err := Load(context.Background(), "pos pos", WithRegistry(r))
		require.NoError(t, err)
		assert.Equal(t, []string{"en.pos"}, p.Keys)

		count := 0
		for _, c := range p.Components {
			if c.NLPRef == "pos_anc" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("alias of a requested ref", func(t *testing.T) {
		p, err := Load(context.Background(), "lemma en.lemma", WithRegistry(r))
		require.NoError(t, err)
		assert.Equal(t, []string{"en.lemma"}, p.Keys)
		_, ok := p.Components.Find(nodeid.Lemmatizer)
		assert.True(t, ok)
	})

	t.Run("two ner models", func(t *testing.T) {
		p, err := Load(context.Background(), "ner.dl ner.onto.glove", WithRegistry(r))
		require.NoError(t, err)
		require.NoError(t, wiring.Validate(p.Components))

		conll, ok := p.Components.Find(nodeid.Qualify(nodeid.NERDL, "dl"))
		require.True(t, ok)
		onto, ok := p.Components.Find(nodeid.Qualify(nodeid.NERDL, "glove"))
		require.True(t, ok)
		assert.Equal(t, "ner_dl", conll.NLPRef)
		assert.Equal(t, "onto_100", onto.NLPRef)

		conv, ok := p.Components.Find(nodeid.NERConverter)
		require.True(t, ok)
		assert.Contains(t, conv.InputColumns, feature.NamedEntityIOB+"_glove")
		assert.NotContains(t, conv.InputColumns, feature.NamedEntityIOB)
	})

	t.Run("two lemmatizers with the same ref tail", func(t *testing.T) {
		p, err := Load(context.Background(), "lemma de.lemma", WithRegistry(r))
		require.NoError(t, err)

		en, ok := p.Components.Find(nodeid.Qualify(nodeid.Lemmatizer, "lemma_antbnc"))
		require.True(t, ok)
		de, ok := p.Components.Find(nodeid.Qualify(nodeid.Lemmatizer, "lemma"))
		require.True(t, ok)
		assert.Equal(t, []string{feature.Lemma + "_lemma_antbnc"}, en.OutputColumns)
		assert.Equal(t, []string{feature.Lemma + "_lemma"}, de.OutputColumns)
		assert.Equal(t, "de", de.Language)
	})
}

func TestLoadLemmatizerWrapper(t *testing.T) {
	r := model.NewDefaultRegistry()

	p, err := Load(context.Background(), "de.lemma", WithRegistry(r))
	require.NoError(t, err)
	lemma, ok := p.Components.Find(nodeid.Lemmatizer)
	require.True(t, ok)
	assert.Equal(t, "lemma", lemma.NLPRef)
	assert.Equal(t, "de", lemma.Language)
	assert.Equal(t, "de.lemma", lemma.NLURef)

	stemmer := *r.GetComponent("lemma_antbnc")
	stemmer.Class = "PorterStemmer"
	r.SetComponent("lemma_antbnc", &stemmer)

	_, err = Load(context.Background(), "en.lemma", WithRegistry(r))
	assert.ErrorIs(t, err, annotator.ErrUnknownClass)
}

func TestWrappingResolverInjectsThroughWrapper(t *testing.T) {
	r := model.NewDefaultRegistry()
	stemmer := *r.GetComponent("lemma_antbnc")
	stemmer.Class = "PorterStemmer"
	r.SetComponent("lemma_antbnc", &stemmer)

	_, err := wrappingResolver{r}.ProviderFor(feature.Lemma)
	assert.ErrorIs(t, err, annotator.ErrUnknownClass)

	tok, err := wrappingResolver{r}.ProviderFor(feature.Token)
	require.NoError(t, err)
	assert.Equal(t, nodeid.Tokenizer, tok.Name)
}

func TestLoadErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	r := model.NewDefaultRegistry()

	_, err := Load(context.Background(), "   ", WithRegistry(r), WithMetrics(m))
	assert.ErrorIs(t, err, ErrEmptyRef)

	_, err = Load(context.Background(), "xx.unknown_task", WithRegistry(r), WithMetrics(m))
	assert.ErrorIs(t, err, model.ErrUnknownRef)

	empty := model.NewRegistry(map[string]*model.RefConfig{
		"en.lemma": {Components: []string{"lemma"}},
	}, map[string]*model.ComponentConfig{
		"lemma": {Name: nodeid.Lemmatizer, Type: nodeid.TypeLemmatizer, NLPRef: "lemma_x", Language: "en", InTypes: []string{feature.Token}, OutTypes: []string{feature.Lemma}},
	})
	_, err = Load(context.Background(), "lemma", WithRegistry(empty), WithMetrics(m))
	assert.True(t, wiring.IsUnsatisfied(err))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Failures.WithLabelValues(metrics.ReasonUnknownRef)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues(metrics.ReasonUnsatisfied)))
}

func TestLoadPublishFailureIsNotFatal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats: no servers available")}

	p, err := Load(context.Background(), "pos", WithRegistry(model.NewDefaultRegistry()), WithPublisher(pub))
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Len(t, pub.events, 1)
}

func TestLoadUsesGlobalRegistry(t *testing.T) {
	model.ResetGlobal()
	t.Cleanup(model.ResetGlobal)

	p, err := Load(context.Background(), "lemma")
	require.NoError(t, err)
	assert.Equal(t, []string{"en.lemma"}, p.Keys)
}
