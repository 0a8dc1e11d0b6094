// Package match ranks known names by similarity to a misspelled one.
//
// Key functions:
//   - NormalizeIdent: folds case and separators so `defineOperator` and
//     `define_operator` compare equal
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates: orders known names by similarity
//   - Closest: picks the best candidate above a threshold
package match
