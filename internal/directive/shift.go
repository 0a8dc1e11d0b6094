package directive

import "ops-generator/internal/token"

// Shift reorders directive arguments so that a generic parameter clause
// written before the operand list ends up after the body.
//
// The operator, an optional comma and any `#[...]` attributes stay in front.
// Every token after them is held back until the first bare `|`, which opens
// the operand list; the held tokens are then appended at the very end. A `|`
// can never occur inside a generic clause (bounds are joined with `+`), so
// the first one is always the operand list. If no `|` is found the input is
// returned unchanged and parsing fails later.
func Shift(args []token.Token) []token.Token {
	i := prefixLen(args)

	for j := i; j < len(args); j++ {
		if !args[j].Is("|") {
			continue
		}

		if j == i {
			return args
		}

		out := make([]token.Token, 0, len(args))
		out = append(out, args[:i]...)
		out = append(out, args[j:]...)
		out = append(out, args[i:j]...)

		return out
	}

	return args
}

// prefixLen returns the number of tokens making up the operator, the
// optional comma after it and the attributes.
func prefixLen(args []token.Token) int {
	if len(args) == 0 {
		return 0
	}

	i := 1
	if i < len(args) && args[i].Is(",") {
		i++
	}

	for i+1 < len(args) && args[i].Is("#") && args[i+1].Is("[") {
		end, err := matchGroup(args, i+1)
		if err != nil {
			return i
		}

		i = end + 1
	}

	return i
}
