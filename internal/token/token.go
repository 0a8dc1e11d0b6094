package token

import (
	"fmt"
	"strings"
)

// Pos is a location in a source file. Line and Col are 1-based, Col counts
// bytes.
type Pos struct {
	Offset uint32
	Line   int
	Col    int
}

// IsValid reports whether the position was set by the lexer.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}

	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a single lexeme together with the trivia that preceded it.
type Token struct {
	Kind Kind
	Text string
	// Leading holds the whitespace and comments between the previous token
	// and this one, exactly as written.
	Leading string
	Pos     Pos
}

// Is reports whether the token is the punctuation or identifier s.
func (t Token) Is(s string) bool {
	switch t.Kind {
	case Punct, Ident, OpenDelim, CloseDelim:
		return t.Text == s
	default:
		return false
	}
}

// IsOpen reports whether the token opens a delimited group.
func (t Token) IsOpen() bool { return t.Kind == OpenDelim }

// IsClose reports whether the token closes a delimited group.
func (t Token) IsClose() bool { return t.Kind == CloseDelim }

// Spaced reports whether the token was preceded by any trivia.
func (t Token) Spaced() bool { return t.Leading != "" }

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Kind, t.Text)
}

// Closer returns the closing delimiter matching an opening one.
func Closer(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	default:
		return ""
	}
}

// Render joins tokens back into source text, keeping the trivia between
// them. The first token's leading trivia is dropped.
func Render(toks []Token) string {
	var sb strings.Builder

	for i, t := range toks {
		if i > 0 {
			sb.WriteString(t.Leading)
		}

		sb.WriteString(t.Text)
	}

	return sb.String()
}

// Compact joins tokens dropping all trivia, except for a single space
// between two adjacent word-like tokens (`dyn Trait`, `mut T`). Two token
// slices that differ only in whitespace or comments compact to the same
// string.
func Compact(toks []Token) string {
	var sb strings.Builder

	for i, t := range toks {
		if i > 0 && toks[i-1].wordy() && t.wordy() {
			sb.WriteByte(' ')
		}

		sb.WriteString(t.Text)
	}

	return sb.String()
}

func (t Token) wordy() bool {
	switch t.Kind {
	case Ident, Lifetime, Literal:
		return true
	default:
		return false
	}
}

// Synthetic builds a token that did not come from source, such as the `&` the
// generator prepends to a borrowed operand type.
func Synthetic(kind Kind, text string, spaced bool) Token {
	t := Token{Kind: kind, Text: text}
	if spaced {
		t.Leading = " "
	}

	return t
}
