package wiring

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/componentutil"
	"github.com/c360studio/nlu/storageref"
	"github.com/c360studio/nlu/vocabulary/feature"
	"github.com/c360studio/nlu/vocabulary/nodeid"
)

// Disambiguate returns a copy of p in which no two components share a name or a
// non-embedding output column.
//
// Colliding components are qualified with the tail of their nlu ref
// (componentutil.NLURefIdentifier), or their NLP ref when the tails are equal: names
// become "<name>@<identifier>" and output columns "<column>_<identifier>". Readers of a
// renamed column are rewired to the producer requested with the same nlu ref. Embedding
// columns are left alone; their storage refs already tell producers apart.
func Disambiguate(p component.Pipeline, logger *slog.Logger) (component.Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	out := p.Clone()

	byName := make(map[string][]*component.Component)
	byOutput := make(map[string][]*component.Component)
	var names, outputs []string
	for _, c := range out {
		if len(byName[c.Name]) == 0 {
			names = append(names, c.Name)
		}
		byName[c.Name] = append(byName[c.Name], c)
		for _, col := range c.OutputColumns {
			if feature.IsEmbedding(col) {
				continue
			}
			col = storageref.Strip(col)
			if len(byOutput[col]) == 0 {
				outputs = append(outputs, col)
			}
			if !slices.Contains(byOutput[col], c) {
				byOutput[col] = append(byOutput[col], c)
			}
		}
	}

	var groups [][]*component.Component
	for _, col := range outputs {
		if len(byOutput[col]) > 1 {
			groups = append(groups, byOutput[col])
		}
	}
	for _, name := range names {
		if len(byName[name]) > 1 {
			groups = append(groups, byName[name])
		}
	}
	if len(groups) == 0 {
		return out, nil
	}

	ids := make(map[*component.Component]string)
	for _, group := range groups {
		for _, c := range group {
			if _, ok := ids[c]; !ok {
				ids[c] = componentutil.NLURefIdentifier(c, logger)
			}
		}
	}
	for _, group := range groups {
		if unique(group, ids) {
			continue
		}
		for _, c := range group {
			if c.NLPRef != "" {
				ids[c] = c.NLPRef
			}
		}
	}
	var problems []string
	for _, group := range groups {
		if !unique(group, ids) {
			problems = append(problems, fmt.Sprintf("cannot tell apart %v", component.Pipeline(group).Names()))
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	var renamed []string
	for _, col := range outputs {
		group := byOutput[col]
		if len(group) < 2 {
			continue
		}
		renamed = append(renamed, col)
		for _, c := range group {
			for i, o := range c.OutputColumns {
				if o == col {
					c.OutputColumns[i] = col + "_" + ids[c]
				}
			}
		}
	}
	for _, name := range names {
		group := byName[name]
		if len(group) < 2 {
			continue
		}
		for _, c := range group {
			c.Name = nodeid.Qualify(c.Name, ids[c])
		}
	}

	for _, col := range renamed {
		producers := byOutput[col]
		for _, c := range out {
			if slices.Contains(producers, c) {
				continue
			}
			if err := rewire(c, col, producers, ids); err != nil {
				problems = append(problems, err.Error())
			}
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	for _, col := range renamed {
		logger.Debug("Qualified colliding output", "column", col, "producers", len(byOutput[col]))
	}
	return out, nil
}

// rewire points c's reads of col at the producer requested with c's nlu ref.
func rewire(c *component.Component, col string, producers []*component.Component, ids map[*component.Component]string) error {
	idx := slices.IndexFunc(c.InputColumns, func(in string) bool { return storageref.Strip(in) == col })
	if idx < 0 {
		return nil
	}
	var match *component.Component
	for _, p := range producers {
		if p.NLURef != "" && p.NLURef == c.NLURef {
			if match != nil {
				return fmt.Errorf("%s reads %s from more than one producer", c, col)
			}
			match = p
		}
	}
	if match == nil {
		return fmt.Errorf("%s reads %s produced by %v", c, col, component.Pipeline(producers).Names())
	}
	c.InputColumns[idx] = col + "_" + ids[match]
	if c.Model != nil {
		c.Model.SetInputCols(c.InputColumns)
	}
	return nil
}

func unique(group []*component.Component, ids map[*component.Component]string) bool {
	seen := make(map[string]bool, len(group))
	for _, c := range group {
		if seen[ids[c]] {
			return false
		}
		seen[ids[c]] = true
	}
	return true
}
