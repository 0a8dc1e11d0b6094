package expand

import (
	"fmt"

	"ops-generator/internal/directive"
	"ops-generator/internal/token"
)

// Error codes reported by the expander.
const (
	CodeSameTypeCommutative = "EXP001"
	CodeDuplicateSignature  = "EXP900"
	CodeNoRule              = "EXP901"
)

// Error is an expansion problem tied to the directive position.
type Error struct {
	Code string
	Pos  token.Pos
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: [%s] %s", e.Pos, e.Code, e.Msg)
}

// Options tune expansion.
type Options struct {
	// StrictCommutative rejects commutative directives whose two operand
	// types are the same, instead of warning about them.
	StrictCommutative bool
}

// Result is everything expanded from one directive.
type Result struct {
	Spec *directive.OperatorSpec
	// Implementations are in emission order: the written signature first,
	// then the remaining combinations, then the mirrored batch.
	Implementations []Implementation
	Warnings        []Error
}

// Spec is the expander's view of an operator: the written sides of the
// implementation and how they map onto the user's closure parameters.
type Spec struct {
	source *directive.OperatorSpec
	// Sides in implementation order (self, rhs).
	Sides []Side
	// Order maps each side to the closure parameter it feeds.
	Order    []int
	Mirrored bool
}

// FromDirective builds the expander spec for a parsed directive.
func FromDirective(s *directive.OperatorSpec) *Spec {
	spec := &Spec{source: s}

	for i, op := range s.Operands {
		spec.Sides = append(spec.Sides, Side{Type: op.Type, Ownership: op.Ownership})
		spec.Order = append(spec.Order, i)
	}

	return spec
}

// Mirror returns the swapped-operand counterpart of a binary spec. Its
// implementations call the user's closure with the two values swapped back.
// The caller asserts that the operator is commutative and the operand types
// differ; neither is checked here.
func Mirror(s *Spec) *Spec {
	if len(s.Sides) != 2 {
		return nil
	}

	return &Spec{
		source:   s.source,
		Sides:    []Side{s.Sides[1], s.Sides[0]},
		Order:    []int{s.Order[1], s.Order[0]},
		Mirrored: !s.Mirrored,
	}
}

// Expand produces the implementations of one spec in the given mode.
// The written signature comes first, the rest follow in OO, OB, BO, BB
// order. Two implementations never share a signature.
func (s *Spec) Expand(mode Mode) ([]Implementation, error) {
	src := s.source
	perSide := make([][]directive.Ownership, len(s.Sides))

	for i, side := range s.Sides {
		opts, ok := choices(src.Category, mode, i, side.Ownership)
		if !ok {
			return nil, &Error{
				Code: CodeNoRule,
				Pos:  src.Pos,
				Msg:  fmt.Sprintf("no ownership rule for %s operand %d written as %s", src.Category, i+1, side.Ownership),
			}
		}

		perSide[i] = opts
	}

	written := make([]directive.Ownership, len(s.Sides))
	for i, side := range s.Sides {
		written[i] = side.Ownership
	}

	combos := [][]directive.Ownership{written}
	for _, c := range combinations(perSide) {
		if !sameOwnership(c, written) {
			combos = append(combos, c)
		}
	}

	seen := make(map[Signature]bool, len(combos))
	out := make([]Implementation, 0, len(combos))

	for i, combo := range combos {
		im := s.implementation(combo)
		im.Base = i == 0 && !s.Mirrored

		sig := im.Signature()
		if seen[sig] {
			return nil, &Error{
				Code: CodeDuplicateSignature,
				Pos:  src.Pos,
				Msg:  fmt.Sprintf("duplicate implementation %s for %s", describe(&im), src),
			}
		}

		seen[sig] = true
		out = append(out, im)
	}

	return out, nil
}

func (s *Spec) implementation(actual []directive.Ownership) Implementation {
	src := s.source

	im := Implementation{
		Category:   src.Category,
		Operator:   src.Operator,
		Protocol:   src.Protocol,
		LHS:        Side{Type: s.Sides[0].Type, Ownership: actual[0]},
		Output:     src.Output,
		Generics:   src.Generics,
		Attributes: src.Attributes,
		Mirrored:   s.Mirrored,
		Body: Wrapper{
			Params: src.Operands,
			Output: src.Output,
			Body:   src.Body,
			Args:   make([]Adapter, len(src.Operands)),
		},
	}

	if len(s.Sides) > 1 {
		im.RHS = &Side{Type: s.Sides[1].Type, Ownership: actual[1]}
	}

	for i, param := range s.Order {
		im.Body.Args[param] = Adapter{
			Binding: bindingName(i),
			Written: src.Operands[param].Ownership,
			Actual:  actual[i],
		}
	}

	return im
}

// bindingName is the local variable holding side i inside the method.
func bindingName(i int) string {
	if i == 0 {
		return "lhs"
	}

	return "rhs"
}

func sameOwnership(a, b []directive.Ownership) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func describe(im *Implementation) string {
	if im.RHS == nil {
		return fmt.Sprintf("%s for %s", im.Protocol.Trait, im.LHS)
	}

	return fmt.Sprintf("%s<%s> for %s", im.Protocol.Trait, im.RHS, im.LHS)
}

// Expand expands a parsed directive according to its entry point: plain or
// extended, and mirrored for the commutative entry points.
func Expand(s *directive.OperatorSpec, opts Options) (*Result, error) {
	mode := ModeOf(s.Entry)
	spec := FromDirective(s)

	impls, err := spec.Expand(mode)
	if err != nil {
		return nil, err
	}

	res := &Result{Spec: s, Implementations: impls}

	if !s.Entry.Commutative() {
		return res, nil
	}

	if s.Category != directive.CategoryBinary {
		return nil, &Error{
			Code: CodeNoRule,
			Pos:  s.Pos,
			Msg:  fmt.Sprintf("%s cannot mirror a %s operator", s.Entry, s.Category),
		}
	}

	lhs, rhs := s.Operands[0], s.Operands[1]
	if token.Compact(lhs.Type) == token.Compact(rhs.Type) {
		e := Error{
			Code: CodeSameTypeCommutative,
			Pos:  s.Pos,
			Msg: fmt.Sprintf("%s on two operands of type %s: the mirrored implementations collide with the originals",
				s.Entry, lhs.TypeString()),
		}

		if opts.StrictCommutative {
			return nil, &e
		}

		res.Warnings = append(res.Warnings, e)
	}

	mirrored, err := Mirror(spec).Expand(mode)
	if err != nil {
		return nil, err
	}

	res.Implementations = append(res.Implementations, mirrored...)

	return res, nil
}
