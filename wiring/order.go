package wiring

import (
	"fmt"
	"strings"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/componentutil"
	"github.com/c360studio/nlu/storageref"
	"github.com/c360studio/nlu/vocabulary/feature"
)

// Sort orders p so that every component comes after the producers of its inputs.
// Components whose inputs are already available keep their relative order.
func Sort(p component.Pipeline) (component.Pipeline, error) {
	sorted := make(component.Pipeline, 0, len(p))
	avail := make(map[string]bool)
	remaining := append(component.Pipeline(nil), p...)

	for len(remaining) > 0 {
		var next component.Pipeline
		for _, c := range remaining {
			if len(unavailable(c, avail)) == 0 {
				sorted = append(sorted, c)
				markAvailable(c, avail)
			} else {
				next = append(next, c)
			}
		}
		if len(next) == len(remaining) {
			problems := make([]string, 0, len(next))
			for _, c := range next {
				problems = append(problems, fmt.Sprintf("%s requires %s", c, strings.Join(unavailable(c, avail), ", ")))
			}
			return nil, &ValidationError{Problems: problems}
		}
		remaining = next
	}
	return sorted, nil
}

// unavailable returns the inputs of c that nothing in avail produces. A tagged embedding
// input needs the tagged column; every other input matches on the bare feature name.
func unavailable(c *component.Component, avail map[string]bool) []string {
	var missing []string
	for _, col := range componentutil.CleanIrrelevantFeatures(c.InputColumns, componentutil.CleanOptions{RemoveText: true}) {
		key := col
		if !feature.IsEmbedding(col) {
			key = storageref.Strip(col)
		}
		if !avail[key] {
			missing = append(missing, col)
		}
	}
	return missing
}

func markAvailable(c *component.Component, avail map[string]bool) {
	for _, col := range c.OutputColumns {
		avail[col] = true
		avail[storageref.Strip(col)] = true
	}
}
