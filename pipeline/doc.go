// Package pipeline is the entry point for turning nlu refs into runnable pipelines.
//
// Load resolves one or more space separated refs against the model registry, wires the
// resulting components and returns a Pipeline. Predict hands the wired components and
// the caller's documents to an Executor; this package never runs a model itself.
//
//	p, err := pipeline.Load(ctx, "sentiment", pipeline.WithExecutor(exec))
//	rows, err := p.Predict(ctx, input.FromText("I love Fridays"), pipeline.PredictOptions{
//		OutputLevel: pipeline.LevelSentence,
//	})
package pipeline
