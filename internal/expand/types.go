package expand

import (
	"ops-generator/internal/common"
	"ops-generator/internal/directive"
	"ops-generator/internal/token"
)

// Mode selects how many ownership combinations are generated.
type Mode int

const (
	// ModePlain emits only the written signature.
	ModePlain Mode = iota
	// ModeExtended adds owned variants for every borrowed operand.
	ModeExtended
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeExtended:
		return "extended"
	default:
		return common.UnknownStr
	}
}

// ModeOf returns the expansion mode of a directive entry point.
func ModeOf(e directive.EntryPoint) Mode {
	if e.Extended() {
		return ModeExtended
	}

	return ModePlain
}

// Side is one operand position of an implementation.
type Side struct {
	Type      []token.Token
	Ownership directive.Ownership
}

// String renders the side as a type (`&Donkey`, `Barrel<T>`).
func (s Side) String() string {
	return s.Ownership.Prefix() + token.Render(s.Type)
}

// Signature identifies an implementation for the no-duplication check. Type
// strings are compacted, so whitespace differences do not matter.
type Signature struct {
	LHSType      string
	LHSOwnership directive.Ownership
	RHSType      string
	RHSOwnership directive.Ownership
}

// Implementation is one operator trait implementation to emit.
type Implementation struct {
	Category directive.Category
	Operator string
	Protocol directive.Protocol
	LHS      Side
	// RHS is nil for unary operators.
	RHS *Side
	// Output is nil for assignment operators.
	Output     []token.Token
	Generics   []token.Token
	Attributes [][]token.Token
	Body       Wrapper
	// Base is set on the implementation whose signature is the one written.
	Base bool
	// Mirrored is set on implementations derived from the commutative mirror.
	Mirrored bool
}

// Signature returns the implementation's signature key.
func (im *Implementation) Signature() Signature {
	sig := Signature{
		LHSType:      token.Compact(im.LHS.Type),
		LHSOwnership: im.LHS.Ownership,
	}

	if im.RHS != nil {
		sig.RHSType = token.Compact(im.RHS.Type)
		sig.RHSOwnership = im.RHS.Ownership
	}

	return sig
}

// OwnershipPair returns the actual ownership of each side, for tests and
// reports.
func (im *Implementation) OwnershipPair() []directive.Ownership {
	out := []directive.Ownership{im.LHS.Ownership}
	if im.RHS != nil {
		out = append(out, im.RHS.Ownership)
	}

	return out
}

// Wrapper is the method body of an implementation: the closure the user
// wrote, called with adapted arguments.
type Wrapper struct {
	// Params are the user's operands in written order.
	Params []directive.Operand
	// Output is the closure return type; nil means `()`.
	Output []token.Token
	// Body is the user's block, braces included.
	Body []token.Token
	// Args has one adapter per param, in param order.
	Args []Adapter
}
