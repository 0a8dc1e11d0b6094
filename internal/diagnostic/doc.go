// Package diagnostic provides structured errors, warnings and notes for the
// operator generator.
//
// Key capabilities:
//   - Stable codes per problem class (LEX*, DIR*, EXP*, GEN*)
//   - File and line:col positions taken from directive tokens
//   - Pretty printing with the offending source line and a caret
package diagnostic
