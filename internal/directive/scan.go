package directive

import (
	"fmt"

	"ops-generator/internal/match"
	"ops-generator/internal/token"
)

// Invocation is one directive call found in a token stream.
type Invocation struct {
	Entry EntryPoint
	// Pos is the position of the macro name.
	Pos token.Pos
	// Args are the tokens between the invocation delimiters.
	Args []token.Token
	// Close is the closing delimiter, used to report errors at the end of
	// the argument list.
	Close token.Token
}

// Scan returns every directive invocation in toks, in source order.
// Unbalanced delimiters inside an invocation are reported as a ParseError
// and stop the scan.
func Scan(toks []token.Token) ([]Invocation, error) {
	var out []Invocation

	for i := 0; i+2 < len(toks); i++ {
		name := toks[i]
		if name.Kind != token.Ident {
			continue
		}

		entry, ok := LookupEntryPoint(name.Text)
		if !ok || !toks[i+1].Is("!") || !toks[i+2].IsOpen() {
			continue
		}

		end, err := matchGroup(toks, i+2)
		if err != nil {
			return out, err
		}

		out = append(out, Invocation{
			Entry: entry,
			Pos:   name.Pos,
			Args:  toks[i+3 : end],
			Close: toks[end],
		})

		i = end
	}

	return out, nil
}

// matchGroup returns the index of the delimiter closing the group opened at
// toks[open].
func matchGroup(toks []token.Token, open int) (int, error) {
	var stack []token.Token

	for i := open; i < len(toks); i++ {
		t := toks[i]

		switch {
		case t.IsOpen():
			stack = append(stack, t)
		case t.IsClose():
			top := stack[len(stack)-1]
			if token.Closer(top.Text) != t.Text {
				return 0, &ParseError{
					Code: CodeUnbalanced,
					Pos:  t.Pos,
					Msg:  fmt.Sprintf("mismatched %q, expected %q to close %q at %s", t.Text, token.Closer(top.Text), top.Text, top.Pos),
				}
			}

			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
		}
	}

	return 0, &ParseError{
		Code: CodeUnbalanced,
		Pos:  toks[open].Pos,
		Msg:  fmt.Sprintf("unclosed %q", toks[open].Text),
	}
}

// NearMiss is a macro invocation whose name is close to, but not, a
// directive name. Such calls are not expanded.
type NearMiss struct {
	Name       string
	Pos        token.Pos
	Suggestion string
}

// NearMisses returns the invocations in toks that look like misspelled
// directives.
func NearMisses(toks []token.Token) []NearMiss {
	var out []NearMiss

	names := EntryNames()

	for i := 0; i+2 < len(toks); i++ {
		name := toks[i]
		if name.Kind != token.Ident || !toks[i+1].Is("!") || !toks[i+2].IsOpen() {
			continue
		}

		if _, ok := LookupEntryPoint(name.Text); ok {
			continue
		}

		if s, ok := match.Closest(name.Text, names, match.DefaultThreshold); ok {
			out = append(out, NearMiss{Name: name.Text, Pos: name.Pos, Suggestion: s})
		}
	}

	return out
}
