// Package wiring turns a list of resolved components into an executable pipeline.
//
// Given the components a request resolved to, the Builder:
//  1. injects providers for every missing input feature (document assemblers, sentence
//     detectors, tokenizers, embeddings), asking a Resolver for defaults
//  2. satisfies embedding consumers by storage reference, injecting a converter when the
//     embeddings exist only at another granularity
//  3. lets sentence embedding converters inherit the storage reference of their upstream
//  4. tags embedding columns in AT notation so consumers and producers connect
//  5. orders components by feature dependency
//  6. validates that every consumer matches exactly one producer
//
// The Builder never mutates its input. Each step works on a clone and returns a new
// pipeline value.
package wiring
