// Package componentutil provides stateless analysis and query functions over pipeline
// components.
//
// Three groups of functions live here:
//   - classification predicates (embedding provider/consumer/converter, NER provider/converter)
//   - column and feature extraction (NER columns, embedding columns, embedding granularity)
//   - feature list helpers used before comparing feature sets (irrelevant-feature cleaning,
//     AT notation removal, nlu ref identifiers)
//
// Extraction functions are only valid on components known to participate in the expected
// role. Calling them on anything else is a caller bug and yields a *LookupError.
package componentutil
