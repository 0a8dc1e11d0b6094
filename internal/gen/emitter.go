package gen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"ops-generator/internal/directive"
	"ops-generator/internal/expand"
	"ops-generator/internal/token"
)

// DefaultOpsPath is the module path the operator traits are taken from.
const DefaultOpsPath = "::core::ops"

// Emitter renders implementations as operator trait impl blocks.
type Emitter struct {
	// OpsPath prefixes every trait name (`::core::ops`, `::std::ops`).
	OpsPath string
	// Inline adds `#[inline]` to every method that does not carry one.
	Inline bool
}

// NewEmitter creates an Emitter. An empty opsPath means DefaultOpsPath.
func NewEmitter(opsPath string, inline bool) *Emitter {
	if opsPath == "" {
		opsPath = DefaultOpsPath
	}

	return &Emitter{OpsPath: opsPath, Inline: inline}
}

// unitData holds everything the impl template needs.
type unitData struct {
	Generics   string
	OpsPath    string
	Trait      string
	RHS        string
	Self       string
	Output     string
	Attributes []string
	Inline     bool
	Method     string
	SelfParam  string
	Closure    string
	Args       string
	Comment    string
}

// Emit renders one implementation. comment, when non-empty, is written as a
// line comment above the impl block.
func (e *Emitter) Emit(im *expand.Implementation, comment string) (string, error) {
	data := unitData{
		Generics:   token.Render(im.Generics),
		OpsPath:    e.OpsPath,
		Trait:      im.Protocol.Trait,
		Self:       selfType(im.LHS),
		Attributes: renderAll(im.Attributes),
		Method:     im.Protocol.Method,
		SelfParam:  "self",
		Closure:    closure(&im.Body),
		Args:       arguments(im.Body.Args),
		Comment:    comment,
	}

	if im.RHS != nil {
		data.RHS = im.RHS.String()
	}

	if im.Category == directive.CategoryAssignment {
		data.SelfParam = "&mut self"
	} else {
		data.Output = token.Render(im.Output)
	}

	data.Inline = e.Inline && !hasInline(im.Attributes)

	var buf bytes.Buffer
	if err := implTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// selfType is the implementing type. The assignment target is `&mut self`
// in the method, so the trait is implemented for the bare type.
func selfType(s expand.Side) string {
	if s.Ownership == directive.MutBorrowed {
		return token.Render(s.Type)
	}

	return s.String()
}

// closure renders the user's operator as a closure literal.
func closure(w *expand.Wrapper) string {
	params := make([]string, 0, len(w.Params))
	for _, p := range w.Params {
		params = append(params, p.Param())
	}

	var sb strings.Builder

	sb.WriteString("|")
	sb.WriteString(strings.Join(params, ", "))
	sb.WriteString("|")

	if w.Output != nil {
		sb.WriteString(" -> ")
		sb.WriteString(token.Render(w.Output))
	}

	sb.WriteString(" ")
	sb.WriteString(token.Render(w.Body))

	return sb.String()
}

func arguments(args []expand.Adapter) string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		out = append(out, a.Expr())
	}

	return strings.Join(out, ", ")
}

func renderAll(groups [][]token.Token) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, token.Render(g))
	}

	return out
}

func hasInline(attrs [][]token.Token) bool {
	for _, a := range attrs {
		if strings.HasPrefix(token.Compact(a), "#[inline") {
			return true
		}
	}

	return false
}

var implTemplate = template.Must(template.New("impl").Parse(
	`{{if .Comment}}// {{.Comment}}
{{end}}impl{{.Generics}} {{.OpsPath}}::{{.Trait}}{{if .RHS}}<{{.RHS}}>{{end}} for {{.Self}} {
{{if .Output}}    type Output = {{.Output}};

{{end}}{{range .Attributes}}    {{.}}
{{end}}{{if .Inline}}    #[inline]
{{end}}    fn {{.Method}}({{.SelfParam}}{{if .RHS}}, rhs: {{.RHS}}{{end}}){{if .Output}} -> Self::Output{{end}} {
        let lhs = self;
        ({{.Closure}})({{.Args}}){{if not .Output}};{{end}}
    }
}
`))
