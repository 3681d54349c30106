package model

import (
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

// NewDefaultRegistry creates a registry with the built-in component tables.
// Used when no configuration is provided.
func NewDefaultRegistry() *Registry {
	return &Registry{
		refs: map[string]*RefConfig{
			"en.tokenize": {
				Description: "Rule based tokenizer",
				Components:  []string{"default_tokenizer"},
			},
			"en.sentence_detector": {
				Description: "Deep learning sentence detector",
				Components:  []string{"sentence_detector_dl"},
			},
			"en.lemma": {
				Description: "English lemmatizer trained on the ANC corpus",
				Components:  []string{"lemma_antbnc"},
			},
			"de.lemma": {
				Description: "German lemmatizer",
				Components:  []string{"lemma_de"},
			},
			"en.pos": {
				Description: "Part of speech tagger",
				Components:  []string{"pos_anc"},
			},
			"en.embed.glove": {
				Description: "GloVe 100d word embeddings",
				Components:  []string{"glove_100d"},
			},
			"en.embed.bert": {
				Description: "BERT base cased token embeddings",
				Components:  []string{"bert_base_cased"},
			},
			"en.embed_sentence.use": {
				Description: "Universal sentence encoder",
				Components:  []string{"tfhub_use"},
			},
			"en.classify.emotion": {
				Description: "Emotion classifier on USE sentence embeddings",
				Components:  []string{"classifierdl_use_emotion"},
			},
			"en.classify.sentiment": {
				Description: "Sentiment classifier on GloVe sentence embeddings",
				Components:  []string{"sentimentdl_glove_imdb"},
			},
			"en.ner.onto.glove": {
				Description: "OntoNotes NER on GloVe embeddings, converted to entity chunks",
				Components:  []string{"onto_100", "ner_converter"},
			},
			"en.ner.dl": {
				Description: "CoNLL NER on GloVe embeddings",
				Components:  []string{"ner_dl"},
			},
			"en.train.ner": {
				Description: "Trainable NER",
				Components:  []string{"trainable_ner_dl"},
			},
		},
		components: map[string]*ComponentConfig{
			"document_assembler": {
				Name:     nodeid.DocumentAssembler,
				Type:     nodeid.TypeDocumentAssembler,
				Class:    "DocumentAssembler",
				InTypes:  []string{feature.Text},
				OutTypes: []string{feature.Document},
			},
			"sentence_detector_dl": {
				Name:     nodeid.SentenceDetectorDL,
				Type:     nodeid.TypeSentenceDetector,
				Class:    "SentenceDetectorDLModel",
				NLPRef:   "sentence_detector_dl",
				Language: "en",
				InTypes:  []string{feature.Document},
				OutTypes: []string{feature.Sentence},
			},
			"default_tokenizer": {
				Name:     nodeid.Tokenizer,
				Type:     nodeid.TypeTokenizer,
				Class:    "Tokenizer",
				InTypes:  []string{feature.Sentence},
				OutTypes: []string{feature.Token},
			},
			"lemma_antbnc": {
				Name:     nodeid.Lemmatizer,
				Type:     nodeid.TypeLemmatizer,
				Class:    "LemmatizerModel",
				NLPRef:   "lemma_antbnc",
				Language: "en",
				InTypes:  []string{feature.Token},
				OutTypes: []string{feature.Lemma},
			},
			"lemma_de": {
				Name:     nodeid.Lemmatizer,
				Type:     nodeid.TypeLemmatizer,
				Class:    "LemmatizerModel",
				NLPRef:   "lemma",
				Language: "de",
				InTypes:  []string{feature.Token},
				OutTypes: []string{feature.Lemma},
			},
			"pos_anc": {
				Name:     nodeid.POS,
				Type:     nodeid.TypePOS,
				Class:    "PerceptronModel",
				NLPRef:   "pos_anc",
				Language: "en",
				InTypes:  []string{feature.Token, feature.Sentence},
				OutTypes: []string{feature.POS},
			},
			"glove_100d": {
				Name:       nodeid.WordEmbeddings,
				Type:       nodeid.TypeTokenEmbeddings,
				Class:      "WordEmbeddingsModel",
				NLPRef:     "glove_100d",
				Language:   "en",
				InTypes:    []string{feature.Sentence, feature.Token},
				OutTypes:   []string{feature.WordEmbeddings},
				StorageRef: "glove_100d",
				Producer:   true,
			},
			"bert_base_cased": {
				Name:       nodeid.BertEmbeddings,
				Type:       nodeid.TypeTokenEmbeddings,
				Class:      "BertEmbeddings",
				NLPRef:     "bert_base_cased",
				Language:   "en",
				InTypes:    []string{feature.Sentence, feature.Token},
				OutTypes:   []string{feature.WordEmbeddings},
				StorageRef: "bert_base_cased",
				Producer:   true,
			},
			"tfhub_use": {
				Name:       nodeid.UniversalSentenceEncoder,
				Type:       nodeid.TypeSentenceEmbeddings,
				Class:      "UniversalSentenceEncoder",
				NLPRef:     "tfhub_use",
				Language:   "en",
				InTypes:    []string{feature.Document},
				OutTypes:   []string{feature.SentenceEmbeddings},
				StorageRef: "tfhub_use",
				Producer:   true,
			},
			"sentence_embeddings_converter": {
				Name:     nodeid.SentenceEmbeddingsConverter,
				Type:     nodeid.TypeEmbeddingsConverter,
				Class:    "SentenceEmbeddings",
				InTypes:  []string{feature.Document, feature.WordEmbeddings},
				OutTypes: []string{feature.SentenceEmbeddings},
				Producer: true,
				Consumer: true,
			},
			"chunk_embeddings_converter": {
				Name:     nodeid.ChunkEmbeddingsConverter,
				Type:     nodeid.TypeEmbeddingsConverter,
				Class:    "ChunkEmbeddings",
				InTypes:  []string{feature.NamedEntityConverted, feature.WordEmbeddings},
				OutTypes: []string{feature.ChunkEmbeddings},
				Producer: true,
				Consumer: true,
			},
			"classifierdl_use_emotion": {
				Name:       nodeid.ClassifierDL,
				Type:       nodeid.TypeClassifier,
				Class:      "ClassifierDLModel",
				NLPRef:     "classifierdl_use_emotion",
				Language:   "en",
				InTypes:    []string{feature.SentenceEmbeddings},
				OutTypes:   []string{feature.Category},
				StorageRef: "tfhub_use",
				Consumer:   true,
			},
			"sentimentdl_glove_imdb": {
				Name:       nodeid.SentimentDL,
				Type:       nodeid.TypeClassifier,
				Class:      "SentimentDLModel",
				NLPRef:     "sentimentdl_glove_imdb",
				Language:   "en",
				InTypes:    []string{feature.SentenceEmbeddings},
				OutTypes:   []string{feature.Sentiment},
				StorageRef: "glove_100d",
				Consumer:   true,
			},
			"onto_100": {
				Name:       nodeid.NERDL,
				Type:       nodeid.TypeNER,
				Class:      "NerDLModel",
				NLPRef:     "onto_100",
				Language:   "en",
				InTypes:    []string{feature.Sentence, feature.Token, feature.WordEmbeddings},
				OutTypes:   []string{feature.NamedEntityIOB},
				StorageRef: "glove_100d",
				Consumer:   true,
			},
			"ner_dl": {
				Name:       nodeid.NERDL,
				Type:       nodeid.TypeNER,
				Class:      "NerDLModel",
				NLPRef:     "ner_dl",
				Language:   "en",
				InTypes:    []string{feature.Sentence, feature.Token, feature.WordEmbeddings},
				OutTypes:   []string{feature.NamedEntityIOB},
				StorageRef: "glove_100d",
				Consumer:   true,
			},
			"ner_converter": {
				Name:     nodeid.NERConverter,
				Type:     nodeid.TypeNERConverter,
				Class:    "NerConverter",
				InTypes:  []string{feature.Sentence, feature.Token, feature.NamedEntityIOB},
				OutTypes: []string{feature.NamedEntityConverted},
			},
			"trainable_ner_dl": {
				Name:      nodeid.TrainableNERDL,
				Type:      nodeid.TypeNER,
				Class:     "NerDLApproach",
				InTypes:   []string{feature.Sentence, feature.Token, feature.WordEmbeddings, feature.Label},
				OutTypes:  []string{feature.NamedEntityIOB},
				Consumer:  true,
				Untrained: true,
			},
		},
		defaults: &DefaultsConfig{
			Language: "en",
			Providers: map[string]string{
				feature.Document:             "document_assembler",
				feature.Sentence:             "sentence_detector_dl",
				feature.Token:                "default_tokenizer",
				feature.Lemma:                "lemma_antbnc",
				feature.POS:                  "pos_anc",
				feature.WordEmbeddings:       "glove_100d",
				feature.SentenceEmbeddings:   "tfhub_use",
				feature.NamedEntityIOB:       "ner_dl",
				feature.NamedEntityConverted: "ner_converter",
			},
			Converters: map[string]string{
				string(feature.LevelSentence): "sentence_embeddings_converter",
				string(feature.LevelChunk):    "chunk_embeddings_converter",
			},
		},
	}
}
