package wiring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/componentutil"
	"github.com/c360studio/nlu/model"
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

func mustComponent(t *testing.T, r *model.Registry, key string) *component.Component {
	t.Helper()
	c, err := r.Component(key)
	require.NoError(t, err)
	return c
}

func TestConfigChunkEmbedConverter(t *testing.T) {
	r := model.NewDefaultRegistry()

	for _, key := range []string{"chunk_embeddings_converter", "sentence_embeddings_converter"} {
		t.Run(key, func(t *testing.T) {
			conv := mustComponent(t, r, key)
			conv.StorageRef = "glove_100d"
			before := append([]string(nil), conv.InputColumns...)

			out, err := ConfigChunkEmbedConverter(conv)
			require.NoError(t, err)

			tagged := 0
			for _, col := range out.InputColumns {
				assert.NotEqual(t, feature.WordEmbeddings, col, "bare embedding column left behind")
				if col == feature.WordEmbeddings+"@glove_100d" {
					tagged++
				}
			}
			assert.Equal(t, 1, tagged)
			assert.Len(t, out.InputColumns, len(before))
			assert.Equal(t, out.InputColumns, out.Model.InputCols())

			// The argument is untouched.
			assert.Equal(t, before, conv.InputColumns)
			assert.Equal(t, before, conv.Model.InputCols())
		})
	}
}

func TestConfigChunkEmbedConverter_Retag(t *testing.T) {
	conv := mustComponent(t, model.NewDefaultRegistry(), "chunk_embeddings_converter")
	conv.InputColumns[1] = feature.WordEmbeddings + "@bert_base_cased"
	conv.StorageRef = "glove_100d"

	out, err := ConfigChunkEmbedConverter(conv)
	require.NoError(t, err)
	assert.Equal(t, []string{feature.NamedEntityConverted, feature.WordEmbeddings + "@glove_100d"}, out.InputColumns)
}

func TestConfigChunkEmbedConverter_Errors(t *testing.T) {
	t.Run("no storage ref", func(t *testing.T) {
		conv := mustComponent(t, model.NewDefaultRegistry(), "chunk_embeddings_converter")
		_, err := ConfigChunkEmbedConverter(conv)
		require.Error(t, err)
		assert.True(t, IsUnsatisfied(err))
	})

	t.Run("no embedding column", func(t *testing.T) {
		c := component.New(nodeid.Tokenizer, nodeid.TypeTokenizer, []string{feature.Sentence}, []string{feature.Token})
		c.StorageRef = "glove_100d"
		_, err := ConfigChunkEmbedConverter(c)
		require.Error(t, err)
		assert.True(t, componentutil.IsLookupFailure(err))
	})
}

func TestSetStorageRefOfEmbeddingConverters(t *testing.T) {
	r := model.NewDefaultRegistry()

	t.Run("inherits from upstream model", func(t *testing.T) {
		p := component.Pipeline{
			mustComponent(t, r, "document_assembler"),
			mustComponent(t, r, "glove_100d"),
			mustComponent(t, r, "sentence_embeddings_converter"),
		}

		out := SetStorageRefOfEmbeddingConverters(p)

		conv, ok := out.Find(nodeid.SentenceEmbeddingsConverter)
		require.True(t, ok)
		assert.Equal(t, "glove_100d", conv.StorageRef)

		orig, _ := p.Find(nodeid.SentenceEmbeddingsConverter)
		assert.Empty(t, orig.StorageRef, "input pipeline mutated")
	})

	t.Run("matches tagged columns", func(t *testing.T) {
		glove := mustComponent(t, r, "glove_100d")
		glove.OutputColumns = []string{feature.WordEmbeddings + "@glove_100d"}
		bert := mustComponent(t, r, "bert_base_cased")
		conv := mustComponent(t, r, "sentence_embeddings_converter")
		conv.InputColumns = []string{feature.Document, feature.WordEmbeddings + "@glove_100d"}

		out := SetStorageRefOfEmbeddingConverters(component.Pipeline{bert, glove, conv})
		assert.Equal(t, "glove_100d", out[2].StorageRef)
	})

	t.Run("upstream without model uses its resolved ref", func(t *testing.T) {
		tok := component.New(nodeid.Tokenizer, nodeid.TypeTokenizer,
			[]string{feature.Sentence}, []string{feature.Token})
		embed := component.New(nodeid.WordEmbeddings, nodeid.TypeTokenEmbeddings,
			[]string{feature.Sentence, feature.Token}, []string{feature.WordEmbeddings})
		embed.StorageRefProducer = true
		embed.StorageRef = "glove_100d"
		require.Nil(t, embed.Model)
		conv := mustComponent(t, r, "sentence_embeddings_converter")

		out := SetStorageRefOfEmbeddingConverters(component.Pipeline{tok, embed, conv})
		assert.Equal(t, "glove_100d", out[2].StorageRef)
		assert.Empty(t, out[0].StorageRef)
	})

	t.Run("no upstream is skipped", func(t *testing.T) {
		p := component.Pipeline{mustComponent(t, r, "sentence_embeddings_converter")}
		out := SetStorageRefOfEmbeddingConverters(p)
		assert.Empty(t, out[0].StorageRef)
	})

	t.Run("chunk converter is left alone", func(t *testing.T) {
		p := component.Pipeline{
			mustComponent(t, r, "glove_100d"),
			mustComponent(t, r, "chunk_embeddings_converter"),
		}
		out := SetStorageRefOfEmbeddingConverters(p)
		assert.Empty(t, out[1].StorageRef)
	})
}
