package directive

import "ops-generator/internal/common"

// EntryPoint is the directive macro a spec was written with.
type EntryPoint int

const (
	// DefineOperator emits exactly the written signature.
	DefineOperator EntryPoint = iota
	// DefineOperatorExtended also emits owned variants of borrowed operands.
	DefineOperatorExtended
	// DefineOperatorCommutative emits the written signature and its
	// swapped-operand mirror. Binary operators only.
	DefineOperatorCommutative
	// DefineOperatorExtendedCommutative combines the two above.
	DefineOperatorExtendedCommutative
)

var entryNames = map[string]EntryPoint{
	"define_operator":                      DefineOperator,
	"define_operator_extended":             DefineOperatorExtended,
	"define_operator_commutative":          DefineOperatorCommutative,
	"define_operator_extended_commutative": DefineOperatorExtendedCommutative,
}

// EntryNames returns every directive macro name.
func EntryNames() []string {
	return []string{
		DefineOperator.String(),
		DefineOperatorExtended.String(),
		DefineOperatorCommutative.String(),
		DefineOperatorExtendedCommutative.String(),
	}
}

// LookupEntryPoint returns the entry point for a macro name.
func LookupEntryPoint(name string) (EntryPoint, bool) {
	e, ok := entryNames[name]
	return e, ok
}

// String returns the macro name.
func (e EntryPoint) String() string {
	switch e {
	case DefineOperator:
		return "define_operator"
	case DefineOperatorExtended:
		return "define_operator_extended"
	case DefineOperatorCommutative:
		return "define_operator_commutative"
	case DefineOperatorExtendedCommutative:
		return "define_operator_extended_commutative"
	default:
		return common.UnknownStr
	}
}

// Extended reports whether the entry point expands the ownership matrix.
func (e EntryPoint) Extended() bool {
	return e == DefineOperatorExtended || e == DefineOperatorExtendedCommutative
}

// Commutative reports whether the entry point mirrors the operands.
func (e EntryPoint) Commutative() bool {
	return e == DefineOperatorCommutative || e == DefineOperatorExtendedCommutative
}
