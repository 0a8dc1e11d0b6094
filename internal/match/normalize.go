package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes an identifier for fuzzy matching: case is
// folded and the separators `_`, `-` and spaces are dropped.
//
//   - "define_operator" -> "defineoperator"
//   - "defineOperator"  -> "defineoperator"
//   - "DEFINE-OPERATOR" -> "defineoperator"
func NormalizeIdent(s string) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}
