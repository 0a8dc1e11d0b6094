package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-generator/internal/directive"
	"ops-generator/internal/lexer"
	"ops-generator/internal/token"
)

func parse(t *testing.T, src string) *directive.OperatorSpec {
	t.Helper()

	toks, errs := lexer.Tokenize(src)
	require.Empty(t, errs)

	invs, err := directive.Scan(toks)
	require.NoError(t, err)
	require.Len(t, invs, 1)

	spec, err := directive.Parse(invs[0])
	require.NoError(t, err)

	return spec
}

func expandSrc(t *testing.T, src string, opts Options) *Result {
	t.Helper()

	res, err := Expand(parse(t, src), opts)
	require.NoError(t, err)

	return res
}

func pairs(impls []Implementation) [][]directive.Ownership {
	out := make([][]directive.Ownership, 0, len(impls))
	for i := range impls {
		out = append(out, impls[i].OwnershipPair())
	}

	return out
}

func exprs(im Implementation) []string {
	out := make([]string, 0, len(im.Body.Args))
	for _, a := range im.Body.Args {
		out = append(out, a.Expr())
	}

	return out
}

func TestChoices(t *testing.T) {
	opts, ok := choices(directive.CategoryBinary, ModeExtended, 1, borrowed)
	assert.True(t, ok)
	assert.Equal(t, []directive.Ownership{owned, borrowed}, opts)

	opts, ok = choices(directive.CategoryBinary, ModePlain, 1, borrowed)
	assert.True(t, ok)
	assert.Equal(t, []directive.Ownership{borrowed}, opts)

	opts, ok = choices(directive.CategoryAssignment, ModeExtended, 0, mutBorrowed)
	assert.True(t, ok)
	assert.Equal(t, []directive.Ownership{mutBorrowed}, opts)

	_, ok = choices(directive.CategoryBinary, ModeExtended, 0, mutBorrowed)
	assert.False(t, ok)

	_, ok = choices(directive.CategoryUnary, ModePlain, 1, owned)
	assert.False(t, ok)
}

func TestCombinations(t *testing.T) {
	ob := []directive.Ownership{owned, borrowed}

	assert.Equal(t, [][]directive.Ownership{
		{owned, owned}, {owned, borrowed}, {borrowed, owned}, {borrowed, borrowed},
	}, combinations([][]directive.Ownership{ob, ob}))

	assert.Equal(t, [][]directive.Ownership{
		{owned, owned}, {owned, borrowed},
	}, combinations([][]directive.Ownership{{owned}, ob}))

	assert.Equal(t, [][]directive.Ownership{{owned}, {borrowed}}, combinations([][]directive.Ownership{ob}))
}

func TestAdapter(t *testing.T) {
	tests := []struct {
		name   string
		a      Adapter
		expr   string
		adapts bool
	}{
		{"owned as owned", Adapter{"lhs", owned, owned}, "lhs", false},
		{"borrowed as borrowed", Adapter{"rhs", borrowed, borrowed}, "rhs", false},
		{"mut target", Adapter{"lhs", mutBorrowed, mutBorrowed}, "lhs", false},
		{"owned into borrowed param", Adapter{"rhs", borrowed, owned}, "&rhs", true},
		{"borrowed into owned param", Adapter{"lhs", owned, borrowed}, "lhs.clone()", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expr, tt.a.Expr())
			assert.Equal(t, tt.adapts, tt.a.Adapts())
		})
	}
}

func TestModeOf(t *testing.T) {
	assert.Equal(t, ModePlain, ModeOf(directive.DefineOperator))
	assert.Equal(t, ModeExtended, ModeOf(directive.DefineOperatorExtended))
	assert.Equal(t, ModePlain, ModeOf(directive.DefineOperatorCommutative))
	assert.Equal(t, ModeExtended, ModeOf(directive.DefineOperatorExtendedCommutative))
	assert.Equal(t, "extended", ModeExtended.String())
}

func TestExpand_Plain(t *testing.T) {
	res := expandSrc(t, `define_operator!(+ |a: &A, b: &B| -> C { C });`, Options{})

	require.Len(t, res.Implementations, 1)

	im := res.Implementations[0]
	assert.True(t, im.Base)
	assert.False(t, im.Mirrored)
	assert.Equal(t, "&A", im.LHS.String())
	assert.Equal(t, "&B", im.RHS.String())
	assert.Equal(t, []string{"lhs", "rhs"}, exprs(im))
	assert.Empty(t, res.Warnings)
}

func TestExpand_ExtendedBinary(t *testing.T) {
	res := expandSrc(t, `define_operator_extended!(+ |a: &A, b: &B| -> C { C });`, Options{})

	assert.Equal(t, [][]directive.Ownership{
		{borrowed, borrowed},
		{owned, owned},
		{owned, borrowed},
		{borrowed, owned},
	}, pairs(res.Implementations))

	assert.True(t, res.Implementations[0].Base)

	for _, im := range res.Implementations[1:] {
		assert.False(t, im.Base)
	}

	assert.Equal(t, []string{"&lhs", "&rhs"}, exprs(res.Implementations[1]))
	assert.Equal(t, []string{"&lhs", "rhs"}, exprs(res.Implementations[2]))
	assert.Equal(t, []string{"lhs", "&rhs"}, exprs(res.Implementations[3]))
}

func TestExpand_ExtendedPartial(t *testing.T) {
	res := expandSrc(t, `define_operator_extended!(- |a: &A, b: B| -> C { C });`, Options{})

	assert.Equal(t, [][]directive.Ownership{
		{borrowed, owned},
		{owned, owned},
	}, pairs(res.Implementations))
}

func TestExpand_ExtendedOwnedIsPlain(t *testing.T) {
	res := expandSrc(t, `define_operator_extended!(* |a: A, b: B| -> C { C });`, Options{})

	assert.Len(t, res.Implementations, 1)
}

func TestExpand_ExtendedAssignment(t *testing.T) {
	res := expandSrc(t, `define_operator_extended!(+= |a: &mut A, b: &B| { });`, Options{})

	assert.Equal(t, [][]directive.Ownership{
		{mutBorrowed, borrowed},
		{mutBorrowed, owned},
	}, pairs(res.Implementations))

	assert.Equal(t, []string{"lhs", "&rhs"}, exprs(res.Implementations[1]))
	assert.Nil(t, res.Implementations[0].Output)
}

func TestExpand_ExtendedUnary(t *testing.T) {
	res := expandSrc(t, `define_operator_extended!(! |a: &A| -> A { A });`, Options{})

	assert.Equal(t, [][]directive.Ownership{{borrowed}, {owned}}, pairs(res.Implementations))
	assert.Nil(t, res.Implementations[1].RHS)
	assert.Equal(t, []string{"&lhs"}, exprs(res.Implementations[1]))
}

func TestExpand_Commutative(t *testing.T) {
	res := expandSrc(t, `define_operator_commutative!(* |a: A, b: &B| -> C { C });`, Options{})

	require.Len(t, res.Implementations, 2)

	orig, mirror := res.Implementations[0], res.Implementations[1]

	assert.Equal(t, "A", orig.LHS.String())
	assert.Equal(t, "&B", orig.RHS.String())

	assert.True(t, mirror.Mirrored)
	assert.False(t, mirror.Base)
	assert.Equal(t, "&B", mirror.LHS.String())
	assert.Equal(t, "A", mirror.RHS.String())

	// The closure still takes (a, b): a is fed from rhs, b from lhs.
	assert.Equal(t, []string{"rhs", "lhs"}, exprs(mirror))
}

func TestExpand_ExtendedCommutative(t *testing.T) {
	res := expandSrc(t, `define_operator_extended_commutative!(+ |a: &A, b: &B| -> C { C });`, Options{})

	require.Len(t, res.Implementations, 8)

	seen := make(map[Signature]bool)

	for i, im := range res.Implementations {
		assert.Equal(t, i >= 4, im.Mirrored)
		assert.False(t, seen[im.Signature()], "duplicate %v", im.Signature())

		seen[im.Signature()] = true
	}

	assert.Equal(t, []string{"&rhs", "&lhs"}, exprs(res.Implementations[5]))
}

func TestExpand_SameTypeCommutative(t *testing.T) {
	src := `define_operator_commutative!(+ |a: Vec<u8>, b: Vec < u8 >| -> usize { 0 });`

	res := expandSrc(t, src, Options{})
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, CodeSameTypeCommutative, res.Warnings[0].Code)
	assert.Len(t, res.Implementations, 2)

	_, err := Expand(parse(t, src), Options{StrictCommutative: true})

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, CodeSameTypeCommutative, e.Code)
}

func TestExpand_NoRule(t *testing.T) {
	typ := []token.Token{token.Synthetic(token.Ident, "A", false)}

	spec := &directive.OperatorSpec{
		Category: directive.CategoryBinary,
		Operator: "+",
		Protocol: directive.Protocol{Trait: "Add", Method: "add"},
		Operands: []directive.Operand{
			{Ownership: directive.MutBorrowed, Type: typ},
			{Ownership: directive.Owned, Type: typ},
		},
		Output: typ,
	}

	_, err := Expand(spec, Options{})

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, CodeNoRule, e.Code)
}

func TestMirror(t *testing.T) {
	spec := FromDirective(parse(t, `define_operator_commutative!(+ |a: A, b: B| -> C { C });`))

	m := Mirror(spec)
	require.NotNil(t, m)
	assert.True(t, m.Mirrored)
	assert.Equal(t, []int{1, 0}, m.Order)

	back := Mirror(m)
	assert.False(t, back.Mirrored)
	assert.Equal(t, spec.Order, back.Order)
	assert.Equal(t, spec.Sides, back.Sides)

	unary := FromDirective(parse(t, `define_operator!(- |a: A| -> A { a });`))
	assert.Nil(t, Mirror(unary))
}

func TestImplementation_Signature(t *testing.T) {
	a := Implementation{LHS: Side{Type: lexType(t, "Vec<u8>"), Ownership: borrowed}}
	b := Implementation{LHS: Side{Type: lexType(t, "Vec < u8 >"), Ownership: borrowed}}
	c := Implementation{LHS: Side{Type: lexType(t, "Vec<u8>"), Ownership: owned}}

	assert.Equal(t, a.Signature(), b.Signature())
	assert.NotEqual(t, a.Signature(), c.Signature())
}

func lexType(t *testing.T, src string) []token.Token {
	t.Helper()

	toks, errs := lexer.Tokenize(src)
	require.Empty(t, errs)

	return toks[:len(toks)-1]
}
