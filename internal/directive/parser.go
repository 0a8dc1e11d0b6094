package directive

import (
	"ops-generator/internal/token"
)

// Parse turns an invocation into an OperatorSpec. The generic clause may be
// written anywhere before the operand list; Parse runs Shift itself.
func Parse(inv Invocation) (*OperatorSpec, error) {
	p := &parser{toks: Shift(inv.Args), end: inv.Close.Pos}

	spec, err := p.parse()
	if err != nil {
		return nil, err
	}

	spec.Entry = inv.Entry
	spec.Pos = inv.Pos

	if inv.Entry.Commutative() && spec.Category != CategoryBinary {
		return nil, errorf(CodeNotBinary, inv.Pos,
			"%s only accepts binary operators, got %s operator %q", inv.Entry, spec.Category, spec.Operator)
	}

	return spec, nil
}

type parser struct {
	toks []token.Token
	pos  int
	// end is reported when the arguments run out.
	end token.Pos
}

func (p *parser) parse() (*OperatorSpec, error) {
	opTok, ok := p.next()
	if !ok {
		return nil, errorf(CodeMalformed, p.end, "empty directive")
	}

	if opTok.Kind != token.Punct || !isOperatorSymbol(opTok.Text) {
		return nil, errorf(CodeUnknownOperator, opTok.Pos, "expected an operator symbol, found %q", opTok.Text)
	}

	spec := &OperatorSpec{Operator: opTok.Text}

	if p.peekIs(",") {
		p.pos++
	}

	for p.peekIs("#") {
		attr, err := p.attribute()
		if err != nil {
			return nil, err
		}

		spec.Attributes = append(spec.Attributes, attr)
	}

	if err := p.expect("|"); err != nil {
		return nil, err
	}

	for {
		op, err := p.operand()
		if err != nil {
			return nil, err
		}

		spec.Operands = append(spec.Operands, op)

		if p.peekIs(",") {
			p.pos++
			continue
		}

		if err := p.expect("|"); err != nil {
			return nil, err
		}

		break
	}

	if p.peekIs("->") {
		arrow, _ := p.next()

		out := p.typeUntil(func(t token.Token) bool { return t.Is("{") })
		if len(out) == 0 {
			return nil, errorf(CodeMalformed, arrow.Pos, "missing output type after %q", "->")
		}

		if out[0].Is("&") || out[0].Is("&&") {
			return nil, errorf(CodeReferenceOutput, out[0].Pos,
				"output type %q is a reference; operators must return an owned value", token.Render(out))
		}

		spec.Output = out
	}

	body, err := p.group("{")
	if err != nil {
		return nil, err
	}

	spec.Body = body

	if rest := p.toks[p.pos:]; len(rest) > 0 {
		if rest[0].Kind != token.Punct || rest[0].Text[0] != '<' {
			return nil, errorf(CodeGenerics, rest[0].Pos,
				"unexpected %q after body; a generic clause must start with %q", rest[0].Text, "<")
		}

		for _, t := range rest {
			if t.Is("#") {
				return nil, errorf(CodeGenerics, t.Pos,
					"attributes must be written before the generic clause")
			}
		}

		spec.Generics = rest
	}

	if err := classify(spec, opTok); err != nil {
		return nil, err
	}

	return spec, nil
}

// classify determines the category from the shape of the operand list and
// looks up the operator protocol.
func classify(spec *OperatorSpec, opTok token.Token) error {
	n := len(spec.Operands)
	hasOutput := spec.Output != nil

	switch {
	case n == 2 && spec.Operands[0].Ownership == MutBorrowed && !hasOutput:
		spec.Category = CategoryAssignment
	case n == 1 && hasOutput:
		spec.Category = CategoryUnary
	case n == 2 && hasOutput:
		spec.Category = CategoryBinary
	default:
		return errorf(CodeMalformed, opTok.Pos,
			"directive matches no operator form: expected |a: &mut T, b: U| {...}, |a: T| -> O {...} or |a: T, b: U| -> O {...}")
	}

	for i, op := range spec.Operands {
		if op.Ownership == MutBorrowed && (spec.Category != CategoryAssignment || i != 0) {
			return errorf(CodeMalformed, op.Type[0].Pos,
				"only the target of an assignment operator may be taken as &mut")
		}
	}

	proto, ok := LookupProtocol(spec.Category, spec.Operator)
	if !ok {
		return errorf(CodeUnknownOperator, opTok.Pos, "%q is not a %s operator", spec.Operator, spec.Category)
	}

	spec.Protocol = proto

	return nil
}

// operand parses `binder: [&|&mut] Type`.
func (p *parser) operand() (Operand, error) {
	var op Operand

	t, ok := p.peek()
	if !ok {
		return op, errorf(CodeMalformed, p.end, "expected an operand")
	}

	switch {
	case t.Is("mut"):
		p.pos++

		name, ok := p.next()
		if !ok || name.Kind != token.Ident || name.Text == "_" {
			return op, errorf(CodeMutBinder, t.Pos, "%q must be followed by an identifier", "mut")
		}

		op.Mutable = true
		op.Binder = []token.Token{name}
	case t.Is("("):
		g, err := p.group("(")
		if err != nil {
			return op, err
		}

		op.Binder = g
	case t.Kind == token.Ident:
		p.pos++
		op.Binder = []token.Token{t}
	default:
		return op, errorf(CodeMalformed, t.Pos, "expected an operand binder, found %q", t.Text)
	}

	if err := p.expect(":"); err != nil {
		return op, err
	}

	if t, ok := p.peek(); ok {
		switch {
		case t.Is("&&"):
			// `&&T` is a borrowed `&T`.
			p.pos++
			op.Ownership = Borrowed
			op.Type = []token.Token{token.Synthetic(token.Punct, "&", false)}
		case t.Is("&"):
			p.pos++
			op.Ownership = Borrowed

			if p.peekIs("mut") {
				p.pos++
				op.Ownership = MutBorrowed
			}
		}
	}

	typ := p.typeUntil(func(t token.Token) bool { return t.Is(",") || t.Is("|") })
	if len(typ) == 0 {
		at := p.end
		if t, ok := p.peek(); ok {
			at = t.Pos
		}

		return op, errorf(CodeMalformed, at, "missing operand type")
	}

	op.Type = append(op.Type, typ...)

	if op.Mutable && op.Ownership != Owned {
		return op, errorf(CodeMutBinder, op.Binder[0].Pos,
			"%q binders are only allowed on owned operands", "mut")
	}

	return op, nil
}

// typeUntil consumes a type expression up to a token accepted by stop at
// nesting depth zero. Brackets, parens, braces and angle brackets nest.
func (p *parser) typeUntil(stop func(token.Token) bool) []token.Token {
	start := p.pos
	angle := 0
	groups := 0

	for p.pos < len(p.toks) {
		t := p.toks[p.pos]

		if angle <= 0 && groups == 0 && stop(t) {
			break
		}

		switch {
		case t.IsOpen():
			groups++
		case t.IsClose():
			groups--
		case t.Is("<"):
			angle++
		case t.Is("<<"):
			angle += 2
		case t.Is(">"):
			angle--
		case t.Is(">>"):
			angle -= 2
		}

		p.pos++
	}

	return p.toks[start:p.pos]
}

// attribute parses `#[...]`.
func (p *parser) attribute() ([]token.Token, error) {
	start := p.pos
	p.pos++ // #

	if !p.peekIs("[") {
		return nil, errorf(CodeMalformed, p.toks[start].Pos, "expected %q after %q", "[", "#")
	}

	if _, err := p.group("["); err != nil {
		return nil, err
	}

	return p.toks[start:p.pos], nil
}

// group consumes a delimited group starting with open, returning it with
// its delimiters.
func (p *parser) group(open string) ([]token.Token, error) {
	t, ok := p.peek()
	if !ok {
		return nil, errorf(CodeMalformed, p.end, "expected %q", open)
	}

	if !t.Is(open) {
		return nil, errorf(CodeMalformed, t.Pos, "expected %q, found %q", open, t.Text)
	}

	end, err := matchGroup(p.toks, p.pos)
	if err != nil {
		return nil, err
	}

	g := p.toks[p.pos : end+1]
	p.pos = end + 1

	return g, nil
}

func (p *parser) expect(s string) error {
	t, ok := p.next()
	if !ok {
		return errorf(CodeMalformed, p.end, "expected %q", s)
	}

	if !t.Is(s) {
		return errorf(CodeMalformed, t.Pos, "expected %q, found %q", s, t.Text)
	}

	return nil
}

func (p *parser) peek() (token.Token, bool) {
	if p.pos >= len(p.toks) {
		return token.Token{}, false
	}

	return p.toks[p.pos], true
}

func (p *parser) peekIs(s string) bool {
	t, ok := p.peek()
	return ok && t.Is(s)
}

func (p *parser) next() (token.Token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}

	return t, ok
}
