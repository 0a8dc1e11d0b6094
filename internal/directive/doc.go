// Package directive finds operator directives in a token stream and parses
// them into OperatorSpec values.
//
// A directive looks like
//
//	define_operator_extended!(+ #[inline] <T: Copy> |a: &Barrel<T>, b: &Barrel<T>| -> Barrel<T> {
//	    Barrel::new(a.bananas + b.bananas)
//	});
//
// Parsing happens in two phases:
//   - Shift moves an optional generic clause, written between the operator
//     and the operand list, to the end of the token stream. The operand list
//     is bounded by `|` tokens while the generic clause is not, so matching
//     is only deterministic once the unbounded part comes last.
//   - Parse matches the shifted stream against the assignment, unary and
//     binary grammars, in that order.
//
// Type expressions, binder patterns, attributes, generic clauses and bodies
// are kept as token slices and replayed verbatim by the emitter.
package directive
