package directive

import (
	"fmt"

	"ops-generator/internal/common"
	"ops-generator/internal/token"
)

// Category is the operator family a directive implements.
type Category int

const (
	CategoryBinary Category = iota
	CategoryUnary
	CategoryAssignment
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryBinary:
		return "binary"
	case CategoryUnary:
		return "unary"
	case CategoryAssignment:
		return "assignment"
	default:
		return common.UnknownStr
	}
}

// Ownership is how an operand is passed.
type Ownership int

const (
	// Owned - passed by value, the callee may consume it.
	Owned Ownership = iota
	// Borrowed - passed as a shared reference (`&T`).
	Borrowed
	// MutBorrowed - passed as a mutable reference (`&mut T`). Only the target
	// of an assignment operator is passed this way.
	MutBorrowed
)

// String returns a short ownership name.
func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	case MutBorrowed:
		return "mut-borrowed"
	default:
		return common.UnknownStr
	}
}

// Prefix returns the reference marker written before a type with this
// ownership.
func (o Ownership) Prefix() string {
	switch o {
	case Borrowed:
		return "&"
	case MutBorrowed:
		return "&mut "
	default:
		return ""
	}
}

// Operand is one closure parameter of a directive.
type Operand struct {
	// Binder is the pattern the body sees: an identifier, `_` or a
	// parenthesized pattern. Never inspected.
	Binder []token.Token
	// Mutable is set for `mut x` binders.
	Mutable bool
	// Ownership as written by the user.
	Ownership Ownership
	// Type is the operand type without the leading reference marker.
	Type []token.Token
}

// TypeString renders the operand type compactly.
func (o Operand) TypeString() string {
	return token.Compact(o.Type)
}

// BinderString renders the binder, including `mut` when present.
func (o Operand) BinderString() string {
	if o.Mutable {
		return "mut " + token.Render(o.Binder)
	}

	return token.Render(o.Binder)
}

// Param renders the operand as a closure parameter (`mut a: &Foo`).
func (o Operand) Param() string {
	return o.BinderString() + ": " + o.Ownership.Prefix() + token.Render(o.Type)
}

// OperatorSpec is the parsed form of one directive invocation.
type OperatorSpec struct {
	Entry    EntryPoint
	Category Category
	// Operator is the operator symbol (`+`, `!`, `+=`).
	Operator string
	Protocol Protocol
	// Operands has one element for unary operators and two otherwise.
	Operands []Operand
	// Output is nil for assignment operators.
	Output []token.Token
	// Generics is the generic parameter clause including angle brackets.
	Generics []token.Token
	// Attributes are the `#[...]` groups, each one complete.
	Attributes [][]token.Token
	// Body is the block including its braces.
	Body []token.Token
	// Pos is where the directive invocation starts.
	Pos token.Pos
}

// LHS returns the first operand.
func (s *OperatorSpec) LHS() Operand {
	return s.Operands[0]
}

// RHS returns the second operand and false for unary operators.
func (s *OperatorSpec) RHS() (Operand, bool) {
	if len(s.Operands) < 2 {
		return Operand{}, false
	}

	return s.Operands[1], true
}

// OutputString renders the output type, or "()" for assignment operators.
func (s *OperatorSpec) OutputString() string {
	if s.Output == nil {
		return "()"
	}

	return token.Render(s.Output)
}

// GenericsString renders the generic clause verbatim.
func (s *OperatorSpec) GenericsString() string {
	return token.Render(s.Generics)
}

// AttributeStrings renders each attribute verbatim.
func (s *OperatorSpec) AttributeStrings() []string {
	out := make([]string, 0, len(s.Attributes))
	for _, a := range s.Attributes {
		out = append(out, token.Render(a))
	}

	return out
}

// String is a one-line summary used in diagnostics and logs.
func (s *OperatorSpec) String() string {
	params := ""
	for i, op := range s.Operands {
		if i > 0 {
			params += ", "
		}

		params += op.Param()
	}

	sig := fmt.Sprintf("%s!(%s |%s|", s.Entry, s.Operator, params)
	if s.Output != nil {
		sig += " -> " + s.OutputString()
	}

	return sig + " {...})"
}
