// Package storageref extracts and compares the storage reference that ties an embedding
// consumer to the component producing its embeddings.
//
// A storage reference travels in two places: on the component itself (resolved StorageRef
// field or the model's configured parameter) and in AT notation on embedding column names:
//
//	sentence_embeddings@tfhub_use
package storageref

import (
	"strings"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/vocabulary/feature"
)

// Extract returns the storage reference of c, or "" if c carries no embedding column.
//
// Precedence: the resolved StorageRef field, the AT tag on the relevant embedding
// column (input side for consumers, output side otherwise), then the model handle.
func Extract(c *component.Component) string {
	if c == nil {
		return ""
	}
	col, ok := embedColumn(c)
	if !ok {
		return ""
	}
	if c.StorageRef != "" {
		return c.StorageRef
	}
	if _, ref := Split(col); ref != "" {
		return ref
	}
	return FromModel(c.Model)
}

// FromModel derives the storage reference directly from a model handle.
func FromModel(m component.Model) string {
	if m == nil {
		return ""
	}
	return m.StorageRef()
}

// Has reports whether Extract would return a non-empty reference.
func Has(c *component.Component) bool {
	return Extract(c) != ""
}

// Split separates a column name into feature and storage reference.
// The reference is "" when the column is untagged.
func Split(col string) (name, ref string) {
	name, ref, _ = strings.Cut(col, feature.ATSeparator)
	return name, ref
}

// Strip removes any AT suffix from a column name.
func Strip(col string) string {
	name, _ := Split(col)
	return name
}

// Tag returns col in AT notation for ref, replacing any previous tag.
// An empty ref leaves the column untagged.
func Tag(col, ref string) string {
	name := Strip(col)
	if ref == "" {
		return name
	}
	return name + feature.ATSeparator + ref
}

// embedColumn picks the embedding column that identifies c's storage reference.
func embedColumn(c *component.Component) (string, bool) {
	primary, secondary := c.OutputColumns, c.InputColumns
	if c.StorageRefConsumer {
		primary, secondary = c.InputColumns, c.OutputColumns
	}
	for _, cols := range [][]string{primary, secondary} {
		for _, col := range cols {
			if feature.IsEmbedding(col) {
				return col, true
			}
		}
	}
	return "", false
}
