// Package annotator builds components for individual pretrained annotators.
//
// A wrapper receives the language, the pretrained model name and the ref the user
// asked for, picks the matching model from a Source (the default one, a named
// pretrained one, or an explicitly supplied handle) and returns it as a
// component.Component ready for wiring.
package annotator
