package pipeline

import (
	"context"

	"github.com/c360studio/nlu/component"
	"github.com/c360studio/nlu/input"
	"github.com/c360studio/nlu/vocabulary/feature"
)

// DryRunExecutor produces one row per document without running any model. Every
// output column of the pipeline is present with a nil value, which makes it useful
// for checking what a pipeline would return.
type DryRunExecutor struct{}

// Execute implements Executor.
func (DryRunExecutor) Execute(ctx context.Context, p component.Pipeline, docs []input.Document, opts PredictOptions) ([]Row, error) {
	rows := make([]Row, 0, len(docs))
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := Row{
			"index":        d.Index,
			feature.Text:   d.Text,
			"output_level": string(opts.OutputLevel),
		}
		for _, col := range p.Outputs() {
			row[col] = nil
		}
		if opts.Metadata {
			refs := make(map[string]string)
			for _, c := range p {
				if c.StorageRef != "" {
					refs[c.Name] = c.StorageRef
				}
			}
			row["metadata"] = map[string]any{
				"components":   p.Names(),
				"storage_refs": refs,
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
