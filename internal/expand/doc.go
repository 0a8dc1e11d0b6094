// Package expand turns a parsed operator spec into the set of operator
// implementations that must be emitted for it.
//
// Key capabilities:
//   - Plain expansion: exactly the signature the user wrote
//   - Extended expansion: every borrowed operand is also accepted by value
//   - Commutative mirroring: the swapped-operand counterpart of a binary spec
//   - Argument adapters so the user's body always sees the ownership it was
//     written against
//
// The ownership choices for each operand come from a fixed rule table keyed
// by category, mode, operand index and written ownership. Combinations are
// produced in the order owned-owned, owned-borrowed, borrowed-owned,
// borrowed-borrowed, with the written signature moved to the front.
package expand
