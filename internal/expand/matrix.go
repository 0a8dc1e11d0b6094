package expand

import (
	"ops-generator/internal/directive"
)

const (
	owned       = directive.Owned
	borrowed    = directive.Borrowed
	mutBorrowed = directive.MutBorrowed
)

type ruleKey struct {
	category directive.Category
	mode     Mode
	index    int
	written  directive.Ownership
}

// ownershipRules lists, for every legal operand, the ownerships an
// implementation may accept for it. Plain mode always keeps the written
// ownership; extended mode adds Owned for Borrowed operands. The assignment
// target is always `&mut`. Keys missing from the table are rejected by the
// parser and never reach the expander.
var ownershipRules = map[ruleKey][]directive.Ownership{
	{directive.CategoryBinary, ModePlain, 0, owned}:    {owned},
	{directive.CategoryBinary, ModePlain, 0, borrowed}: {borrowed},
	{directive.CategoryBinary, ModePlain, 1, owned}:    {owned},
	{directive.CategoryBinary, ModePlain, 1, borrowed}: {borrowed},

	{directive.CategoryBinary, ModeExtended, 0, owned}:    {owned},
	{directive.CategoryBinary, ModeExtended, 0, borrowed}: {owned, borrowed},
	{directive.CategoryBinary, ModeExtended, 1, owned}:    {owned},
	{directive.CategoryBinary, ModeExtended, 1, borrowed}: {owned, borrowed},

	{directive.CategoryUnary, ModePlain, 0, owned}:    {owned},
	{directive.CategoryUnary, ModePlain, 0, borrowed}: {borrowed},

	{directive.CategoryUnary, ModeExtended, 0, owned}:    {owned},
	{directive.CategoryUnary, ModeExtended, 0, borrowed}: {owned, borrowed},

	{directive.CategoryAssignment, ModePlain, 0, mutBorrowed}: {mutBorrowed},
	{directive.CategoryAssignment, ModePlain, 1, owned}:       {owned},
	{directive.CategoryAssignment, ModePlain, 1, borrowed}:    {borrowed},

	{directive.CategoryAssignment, ModeExtended, 0, mutBorrowed}: {mutBorrowed},
	{directive.CategoryAssignment, ModeExtended, 1, owned}:       {owned},
	{directive.CategoryAssignment, ModeExtended, 1, borrowed}:    {owned, borrowed},
}

// choices returns the allowed ownerships for one operand position.
func choices(c directive.Category, m Mode, index int, written directive.Ownership) ([]directive.Ownership, bool) {
	o, ok := ownershipRules[ruleKey{c, m, index, written}]
	return o, ok
}

// combinations returns the Cartesian product of the per-side choices, first
// side varying slowest. Each choice list is ordered owned before borrowed, so
// two sides yield OO, OB, BO, BB.
func combinations(perSide [][]directive.Ownership) [][]directive.Ownership {
	out := [][]directive.Ownership{nil}

	for _, opts := range perSide {
		next := make([][]directive.Ownership, 0, len(out)*len(opts))

		for _, prefix := range out {
			for _, o := range opts {
				combo := append(append([]directive.Ownership(nil), prefix...), o)
				next = append(next, combo)
			}
		}

		out = next
	}

	return out
}

// Adapter converts the value an implementation received into the ownership
// the user's closure parameter was written with.
type Adapter struct {
	// Binding is the local variable holding the received value.
	Binding string
	Written directive.Ownership
	Actual  directive.Ownership
}

type adaptKey struct {
	actual  directive.Ownership
	written directive.Ownership
}

// adaptations maps (received, expected) ownership to an expression template.
// A borrowed value passed where the body expects an owned one is cloned, so
// such operand types must implement Clone; that is left to the caller.
var adaptations = map[adaptKey]func(string) string{
	{owned, owned}:             func(x string) string { return x },
	{borrowed, borrowed}:       func(x string) string { return x },
	{mutBorrowed, mutBorrowed}: func(x string) string { return x },
	{owned, borrowed}:          func(x string) string { return "&" + x },
	{borrowed, owned}:          func(x string) string { return x + ".clone()" },
}

// Expr returns the argument expression passed to the user's closure.
func (a Adapter) Expr() string {
	if f, ok := adaptations[adaptKey{a.Actual, a.Written}]; ok {
		return f(a.Binding)
	}

	return a.Binding
}

// Adapts reports whether the argument is not passed through unchanged.
func (a Adapter) Adapts() bool {
	return a.Actual != a.Written
}
