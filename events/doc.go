// Package events publishes pipeline lifecycle messages over NATS.
//
// Every successfully wired pipeline is announced on SubjectPipelineResolved as a JSON
// PipelineResolved payload. Downstream services use it to warm executors or audit
// which models a deployment actually loads.
package events
