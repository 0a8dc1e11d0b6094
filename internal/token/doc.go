// Package token defines the lexical tokens that directive files are made of.
//
// Tokens keep the trivia (whitespace and comments) that preceded them, so any
// slice of tokens can be rendered back into the exact text the user wrote.
// Type expressions, bodies, attributes and generic clauses are replayed this
// way and never interpreted.
package token
