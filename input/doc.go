// Package input normalizes what callers hand to Predict into documents.
//
// Plain strings become one document each. HTML is reduced to its main content and
// converted to text through markdown, so that navigation, scripts and markup never
// reach the annotators.
package input
