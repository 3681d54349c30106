package componentutil

import (
	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/storageref"
	"github.com/c360studio/nlu/vocabulary/feature"
)

// ExtractNERCol returns the exact name of the NER-IOB feature of c.
func ExtractNERCol(c *component.Component, side Side) (string, error) {
	for _, f := range types(c, side) {
		if f == feature.NamedEntityIOB {
			return f, nil
		}
	}
	return "", &LookupError{What: "NER", Component: c.String(), Side: side}
}

// ExtractNERConverterCol returns the NER-IOB feature a converter reads, or the converted
// entity feature it writes.
func ExtractNERConverterCol(c *component.Component, side Side) (string, error) {
	want := feature.NamedEntityIOB
	if side == Output {
		want = feature.NamedEntityConverted
	}
	for _, f := range types(c, side) {
		if f == want {
			return f, nil
		}
	}
	return "", &LookupError{What: "NER Converter", Component: c.String(), Side: side}
}

// ExtractEmbedCol returns the first actual column of c that carries embeddings.
func ExtractEmbedCol(c *component.Component, side Side) (string, error) {
	for _, col := range columns(c, side) {
		if feature.IsEmbedding(col) {
			return col, nil
		}
	}
	return "", &LookupError{What: "Embed", Component: c.String(), Side: side}
}

// ExtractStorageRefATNotation returns <embed_col>@<storage_ref> for c.
func ExtractStorageRefATNotation(c *component.Component, side Side) (string, error) {
	col, err := ExtractEmbedCol(c, side)
	if err != nil {
		return "", err
	}
	return storageref.Strip(col) + feature.ATSeparator + storageref.Extract(c), nil
}

// ExtractEmbedLevelIdentity classifies the embedding granularity c consumes (Input, by
// declared input columns) or produces (Output, by declared output types). Document beats
// sentence beats chunk beats token. Returns "" when nothing matches.
func ExtractEmbedLevelIdentity(c *component.Component, side Side) feature.EmbedLevel {
	if side == Output {
		return feature.LevelOf(c.OutTypes)
	}
	return feature.LevelOf(c.InputColumns)
}

func types(c *component.Component, side Side) []string {
	if side == Output {
		return c.OutTypes
	}
	return c.InTypes
}

func columns(c *component.Component, side Side) []string {
	if side == Output {
		return c.OutputColumns
	}
	return c.InputColumns
}
