// Package model provides reference-based selection of pretrained pipeline components.
// Instead of naming concrete pretrained models, callers request short nlu refs
// ("pos", "en.lemma", "emotion") and the registry resolves them to the component
// configurations that make up the requested pipeline, plus the default providers used
// to satisfy missing features.
package model

import "strings"

// Ref is a short, human friendly model reference: [<language>.]<task>[.<variant>...].
type Ref string

// TaskAliases maps convenience task names to their canonical registry task.
// Used when a requested ref has no exact registry entry.
var TaskAliases = map[string]string{
	"emotion":   "classify.emotion",
	"sentiment": "classify.sentiment",
	"ner":       "ner.onto.glove",
	"glove":     "embed.glove",
	"use":       "embed_sentence.use",
	"lemmatize": "lemma",
	"tokenize":  "tokenize",
}

// AliasForTask returns the canonical task for an alias, or the task itself.
func AliasForTask(task string) string {
	if canonical, ok := TaskAliases[task]; ok {
		return canonical
	}
	return task
}

// Language returns the language prefix of the ref, or "" if it has none.
// A language prefix is a known language code followed by at least one more segment.
func (r Ref) Language() string {
	head, rest, ok := strings.Cut(string(r), ".")
	if !ok || rest == "" || !isLanguageCode(head) {
		return ""
	}
	return head
}

// Task returns the ref without its language prefix.
func (r Ref) Task() string {
	if lang := r.Language(); lang != "" {
		return strings.TrimPrefix(string(r), lang+".")
	}
	return string(r)
}

// IsValid reports whether the ref is non-empty and has no empty segments.
func (r Ref) IsValid() bool {
	if r == "" {
		return false
	}
	for _, seg := range strings.Split(string(r), ".") {
		if seg == "" {
			return false
		}
	}
	return true
}

// String returns the string representation of the ref.
func (r Ref) String() string {
	return string(r)
}

// WithLanguage returns the ref qualified with lang, keeping an explicit language.
func (r Ref) WithLanguage(lang string) Ref {
	if r.Language() != "" || lang == "" {
		return r
	}
	return Ref(lang + "." + string(r))
}

// Languages lists the language codes recognised as ref prefixes. "xx" is multilingual.
var Languages = []string{
	"ar", "bg", "cs", "da", "de", "el", "en", "es", "fa", "fi", "fr", "he", "hi", "hu",
	"it", "ja", "ko", "nl", "no", "pl", "pt", "ro", "ru", "sv", "th", "tr", "uk", "ur",
	"vi", "xx", "zh",
}

func isLanguageCode(s string) bool {
	for _, lang := range Languages {
		if s == lang {
			return true
		}
	}
	return false
}
