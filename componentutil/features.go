package componentutil

import (
	"github.com/c360studio/nlu/storageref"
	"github.com/c360studio/nlu/vocabulary/feature"
)

// CleanOptions controls CleanIrrelevantFeatures.
type CleanOptions struct {
	// RemoveATNotation strips @storage_ref suffixes from the remaining names.
	RemoveATNotation bool
	// RemoveText drops the raw text feature as well.
	RemoveText bool
}

// DefaultCleanOptions removes text and keeps AT notation.
var DefaultCleanOptions = CleanOptions{RemoveText: true}

// CleanIrrelevantFeatures removes features that are supplied externally and can never be
// resolved inside a pipeline. Relative order is preserved and features is not modified.
func CleanIrrelevantFeatures(features []string, opts CleanOptions) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if f == feature.Text {
			if opts.RemoveText {
				continue
			}
		} else if feature.IsIrrelevant(f) {
			continue
		}
		if opts.RemoveATNotation {
			f = storageref.Strip(f)
		}
		out = append(out, f)
	}
	return out
}

// RemoveStorageRefFromFeatures strips the AT suffix from every feature.
func RemoveStorageRefFromFeatures(features []string) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = storageref.Strip(f)
	}
	return out
}
