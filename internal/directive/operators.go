package directive

// Protocol is the operator trait and method an implementation provides.
type Protocol struct {
	Trait  string
	Method string
}

var binaryProtocols = map[string]Protocol{
	"+":  {"Add", "add"},
	"-":  {"Sub", "sub"},
	"*":  {"Mul", "mul"},
	"/":  {"Div", "div"},
	"%":  {"Rem", "rem"},
	"&":  {"BitAnd", "bitand"},
	"|":  {"BitOr", "bitor"},
	"^":  {"BitXor", "bitxor"},
	"<<": {"Shl", "shl"},
	">>": {"Shr", "shr"},
}

var unaryProtocols = map[string]Protocol{
	"!": {"Not", "not"},
	"-": {"Neg", "neg"},
}

var assignmentProtocols = map[string]Protocol{
	"+=":  {"AddAssign", "add_assign"},
	"-=":  {"SubAssign", "sub_assign"},
	"*=":  {"MulAssign", "mul_assign"},
	"/=":  {"DivAssign", "div_assign"},
	"%=":  {"RemAssign", "rem_assign"},
	"&=":  {"BitAndAssign", "bitand_assign"},
	"|=":  {"BitOrAssign", "bitor_assign"},
	"^=":  {"BitXorAssign", "bitxor_assign"},
	"<<=": {"ShlAssign", "shl_assign"},
	">>=": {"ShrAssign", "shr_assign"},
}

// LookupProtocol returns the protocol implementing op for the category.
func LookupProtocol(c Category, op string) (Protocol, bool) {
	var p Protocol

	var ok bool

	switch c {
	case CategoryBinary:
		p, ok = binaryProtocols[op]
	case CategoryUnary:
		p, ok = unaryProtocols[op]
	case CategoryAssignment:
		p, ok = assignmentProtocols[op]
	}

	return p, ok
}

// isOperatorSymbol reports whether s is an operator of any category.
func isOperatorSymbol(s string) bool {
	_, b := binaryProtocols[s]
	_, u := unaryProtocols[s]
	_, a := assignmentProtocols[s]

	return b || u || a
}
