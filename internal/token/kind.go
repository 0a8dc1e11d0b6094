package token

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind represents the category of a token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the input.
	EOF
	// Ident is an identifier or keyword (`a`, `mut`, `Donkey`, `_`).
	Ident
	// Lifetime is a lifetime or label (`'a`).
	Lifetime
	// Literal is a numeric, string, char or byte literal.
	Literal
	// Punct is an operator or punctuation (`+`, `<<=`, `->`, `::`, `|`).
	Punct
	// OpenDelim is one of `(`, `[`, `{`.
	OpenDelim
	// CloseDelim is one of `)`, `]`, `}`.
	CloseDelim
)
