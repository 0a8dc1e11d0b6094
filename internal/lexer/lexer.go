// Package lexer turns directive source text into tokens.
//
// The lexer knows just enough of the host language's lexical grammar to keep
// operator symbols, delimiters, identifiers and type expressions apart.
// Comments and whitespace become trivia on the following token.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"ops-generator/internal/token"
)

// Error codes reported by the lexer.
const (
	CodeUnterminated = "LEX001"
	CodeBadChar      = "LEX002"
)

// Error is a lexical problem. Lexing continues after an error.
type Error struct {
	Code string
	Pos  token.Pos
	Msg  string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: [%s] %s", e.Pos, e.Code, e.Msg)
}

// puncts is ordered longest first for maximal munch.
var puncts = []string{
	"<<=", ">>=", "...", "..=",
	"::", "->", "=>", "==", "!=", "<=", ">=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=", "<<", ">>", "..",
	"+", "-", "*", "/", "%", "^", "!", "&", "|", "=", "<", ">",
	"@", ".", ",", ";", ":", "#", "$", "?", "~",
}

// Lexer scans a single source buffer.
type Lexer struct {
	src  string
	off  int
	line int
	col  int
	errs []Error
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize scans all of src. The returned slice always ends with an EOF
// token whose Leading holds any trailing trivia.
func Tokenize(src string) ([]token.Token, []Error) {
	lx := New(src)

	var toks []token.Token

	for {
		tok := lx.Next()
		toks = append(toks, tok)

		if tok.Kind == token.EOF {
			break
		}
	}

	return toks, lx.Errors()
}

// Errors returns the problems found so far.
func (lx *Lexer) Errors() []Error {
	return lx.errs
}

// Next returns the next token.
func (lx *Lexer) Next() token.Token {
	leading := lx.trivia()
	pos := lx.pos()

	if lx.off >= len(lx.src) {
		return token.Token{Kind: token.EOF, Leading: leading, Pos: pos}
	}

	start := lx.off
	kind := lx.scan(pos)

	return token.Token{
		Kind:    kind,
		Text:    lx.src[start:lx.off],
		Leading: leading,
		Pos:     pos,
	}
}

func (lx *Lexer) scan(pos token.Pos) token.Kind {
	r, _ := lx.peek(0)

	switch {
	case r == '(' || r == '[' || r == '{':
		lx.advance()
		return token.OpenDelim
	case r == ')' || r == ']' || r == '}':
		lx.advance()
		return token.CloseDelim
	case r == '"':
		lx.scanString(pos)
		return token.Literal
	case r == '\'':
		return lx.scanQuote(pos)
	case unicode.IsDigit(r):
		lx.scanNumber()
		return token.Literal
	case r == 'b' && lx.hasPrefix(`b"`), r == 'b' && lx.hasPrefix(`b'`):
		lx.advance()
		if strings.HasPrefix(lx.src[lx.off:], `"`) {
			lx.scanString(pos)
		} else {
			lx.scanQuote(pos)
		}

		return token.Literal
	case lx.hasPrefix(`r"`), lx.hasPrefix(`r#"`), lx.hasPrefix(`br"`), lx.hasPrefix(`br#"`):
		lx.scanRawString(pos)
		return token.Literal
	case isIdentStart(r):
		lx.scanIdent()
		return token.Ident
	}

	for _, p := range puncts {
		if lx.hasPrefix(p) {
			for range p {
				lx.advance()
			}

			return token.Punct
		}
	}

	lx.advance()
	lx.errorf(CodeBadChar, pos, "unexpected character %q", r)

	return token.Invalid
}

// trivia consumes whitespace and comments.
func (lx *Lexer) trivia() string {
	start := lx.off

	for lx.off < len(lx.src) {
		r, _ := lx.peek(0)

		switch {
		case unicode.IsSpace(r):
			lx.advance()
		case lx.hasPrefix("//"):
			for lx.off < len(lx.src) {
				if r, _ := lx.peek(0); r == '\n' {
					break
				}

				lx.advance()
			}
		case lx.hasPrefix("/*"):
			lx.scanBlockComment()
		default:
			return lx.src[start:lx.off]
		}
	}

	return lx.src[start:lx.off]
}

func (lx *Lexer) scanBlockComment() {
	pos := lx.pos()
	depth := 0

	for lx.off < len(lx.src) {
		switch {
		case lx.hasPrefix("/*"):
			depth++
			lx.advance()
			lx.advance()
		case lx.hasPrefix("*/"):
			depth--
			lx.advance()
			lx.advance()

			if depth == 0 {
				return
			}
		default:
			lx.advance()
		}
	}

	lx.errorf(CodeUnterminated, pos, "unterminated block comment")
}

func (lx *Lexer) scanIdent() {
	if lx.hasPrefix("r#") {
		lx.advance()
		lx.advance()
	}

	for lx.off < len(lx.src) {
		r, _ := lx.peek(0)
		if !isIdentContinue(r) {
			return
		}

		lx.advance()
	}
}

func (lx *Lexer) scanNumber() {
	start := lx.off

	for lx.off < len(lx.src) {
		r, _ := lx.peek(0)

		switch {
		case isIdentContinue(r):
			lx.advance()
		case r == '.':
			// `1.5` continues the literal, `1..2` and the second dot of `1.5.2` do not.
			next, _ := lx.peek(1)
			if !unicode.IsDigit(next) || strings.Contains(lx.src[start:lx.off], ".") {
				return
			}

			lx.advance()
		default:
			return
		}
	}
}

func (lx *Lexer) scanString(pos token.Pos) {
	lx.advance() // opening quote

	for lx.off < len(lx.src) {
		r, _ := lx.peek(0)
		lx.advance()

		switch r {
		case '\\':
			if lx.off < len(lx.src) {
				lx.advance()
			}
		case '"':
			return
		}
	}

	lx.errorf(CodeUnterminated, pos, "unterminated string literal")
}

func (lx *Lexer) scanRawString(pos token.Pos) {
	if lx.hasPrefix("b") {
		lx.advance()
	}

	lx.advance() // r

	hashes := 0
	for lx.hasPrefix("#") {
		hashes++
		lx.advance()
	}

	lx.advance() // opening quote

	closing := `"` + strings.Repeat("#", hashes)
	for lx.off < len(lx.src) {
		if lx.hasPrefix(closing) {
			for range closing {
				lx.advance()
			}

			return
		}

		lx.advance()
	}

	lx.errorf(CodeUnterminated, pos, "unterminated raw string literal")
}

// scanQuote handles both lifetimes ('a) and char literals ('a', '\n').
func (lx *Lexer) scanQuote(pos token.Pos) token.Kind {
	lx.advance() // '

	first, _ := lx.peek(0)
	second, _ := lx.peek(1)

	if isIdentStart(first) && second != '\'' {
		lx.scanIdent()
		return token.Lifetime
	}

	for lx.off < len(lx.src) {
		r, _ := lx.peek(0)
		lx.advance()

		switch r {
		case '\\':
			if lx.off < len(lx.src) {
				lx.advance()
			}
		case '\'':
			return token.Literal
		case '\n':
			lx.errorf(CodeUnterminated, pos, "unterminated character literal")
			return token.Invalid
		}
	}

	lx.errorf(CodeUnterminated, pos, "unterminated character literal")

	return token.Invalid
}

func (lx *Lexer) peek(n int) (rune, int) {
	off := lx.off

	for i := 0; ; i++ {
		if off >= len(lx.src) {
			return utf8.RuneError, 0
		}

		r, size := utf8.DecodeRuneInString(lx.src[off:])
		if i == n {
			return r, size
		}

		off += size
	}
}

func (lx *Lexer) advance() {
	r, size := lx.peek(0)
	if size == 0 {
		return
	}

	lx.off += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col += size
	}
}

func (lx *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(lx.src[lx.off:], s)
}

func (lx *Lexer) pos() token.Pos {
	off, err := safecast.Conv[uint32](lx.off)
	if err != nil {
		off = ^uint32(0)
	}

	return token.Pos{Offset: off, Line: lx.line, Col: lx.col}
}

func (lx *Lexer) errorf(code string, pos token.Pos, format string, args ...any) {
	lx.errs = append(lx.errs, Error{Code: code, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
