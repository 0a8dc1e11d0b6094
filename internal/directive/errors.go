package directive

import (
	"fmt"

	"ops-generator/internal/token"
)

// Error codes reported while scanning and parsing directives.
const (
	CodeUnbalanced      = "DIR001"
	CodeNearMiss        = "DIR002"
	CodeMalformed       = "DIR010"
	CodeUnknownOperator = "DIR011"
	CodeMutBinder       = "DIR012"
	CodeReferenceOutput = "DIR013"
	CodeNotBinary       = "DIR014"
	CodeGenerics        = "DIR015"
)

// ParseError is a directive that could not be turned into a spec. No partial
// spec is ever returned alongside it.
type ParseError struct {
	Code string
	Pos  token.Pos
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: [%s] %s", e.Pos, e.Code, e.Msg)
}

func errorf(code string, pos token.Pos, format string, args ...any) *ParseError {
	return &ParseError{Code: code, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
