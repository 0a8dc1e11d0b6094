package gen

import (
	"errors"
	"fmt"
	"strings"

	"ops-generator/internal/common"
	"ops-generator/internal/diagnostic"
	"ops-generator/internal/directive"
	"ops-generator/internal/expand"
	"ops-generator/internal/lexer"
	"ops-generator/internal/token"
)

// Diagnostic codes reported by the generator itself.
const (
	CodeNoDirectives = "GEN001"
	CodeEmit         = "GEN900"
)

// Header starts every generated file.
const Header = "// Code generated by ops-generator. DO NOT EDIT."

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// OpsPath is the module path of the operator traits.
	OpsPath string
	// Suffix replaces the input file extensions in the output file name.
	Suffix string
	// GenerateComments writes a comment naming the directive above each impl.
	GenerateComments bool
	// Inline adds `#[inline]` to every generated method.
	Inline bool
	// StrictCommutative rejects commutative directives on two operands of
	// the same type.
	StrictCommutative bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		OpsPath:          DefaultOpsPath,
		Suffix:           "_ops.rs",
		GenerateComments: true,
	}
}

// Generator expands the directives of a source file into Rust operator
// implementations.
type Generator struct {
	config  GeneratorConfig
	emitter *Emitter
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Suffix == "" {
		config.Suffix = DefaultGeneratorConfig().Suffix
	}

	return &Generator{
		config:  config,
		emitter: NewEmitter(config.OpsPath, config.Inline),
	}
}

// SourceFile is one input file.
type SourceFile struct {
	// Path is used for diagnostics and to derive the output name.
	Path    string
	Content []byte
}

// GeneratedFile represents a generated Rust source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "vector_ops.rs").
	Filename string
	// Source is the path of the input file.
	Source string
	// Content is the generated source code.
	Content []byte
	// Units is the number of impl blocks in Content.
	Units int
}

// Analysis is the front-end result for one file.
type Analysis struct {
	File   SourceFile
	Tokens []token.Token
	// Results has one entry per directive that parsed and expanded cleanly.
	Results     []*expand.Result
	Diagnostics diagnostic.Diagnostics
}

// Analyze lexes, scans, parses and expands every directive in src. Every
// directive is processed so that all problems are reported at once.
func (g *Generator) Analyze(src SourceFile) *Analysis {
	a := &Analysis{File: src}

	toks, lexErrs := lexer.Tokenize(string(src.Content))
	a.Tokens = toks

	for _, e := range lexErrs {
		a.Diagnostics.AddError(e.Code, e.Msg, src.Path, e.Pos)
	}

	invs, err := directive.Scan(toks)
	if err != nil {
		g.report(&a.Diagnostics, src.Path, err)
	}

	for _, nm := range directive.NearMisses(toks) {
		a.Diagnostics.AddWarning(directive.CodeNearMiss,
			fmt.Sprintf("%s! is not a directive and was not expanded", nm.Name),
			src.Path, nm.Pos, fmt.Sprintf("did you mean %s!?", nm.Suggestion))
	}

	opts := expand.Options{StrictCommutative: g.config.StrictCommutative}

	for _, inv := range invs {
		spec, err := directive.Parse(inv)
		if err != nil {
			g.report(&a.Diagnostics, src.Path, err)
			continue
		}

		res, err := expand.Expand(spec, opts)
		if err != nil {
			g.report(&a.Diagnostics, src.Path, err)
			continue
		}

		for _, w := range res.Warnings {
			a.Diagnostics.AddWarning(w.Code, w.Msg, src.Path, w.Pos)
		}

		a.Results = append(a.Results, res)
	}

	return a
}

// report converts a front-end error into a diagnostic.
func (g *Generator) report(d *diagnostic.Diagnostics, path string, err error) {
	var pe *directive.ParseError
	if errors.As(err, &pe) {
		d.AddError(pe.Code, pe.Msg, path, pe.Pos)
		return
	}

	var ee *expand.Error
	if errors.As(err, &ee) {
		d.AddError(ee.Code, ee.Msg, path, ee.Pos)
		return
	}

	d.AddError(CodeEmit, err.Error(), path, token.Pos{})
}

// Generate produces the output file for src. The file is nil when src holds
// no directives or when any error was reported; the diagnostics say which.
func (g *Generator) Generate(src SourceFile) (*GeneratedFile, diagnostic.Diagnostics) {
	a := g.Analyze(src)
	diags := a.Diagnostics

	if diags.HasErrors() {
		return nil, diags
	}

	if common.IsEmpty(a.Results) {
		diags.AddInfo(CodeNoDirectives, "no operator directives found", src.Path, token.Pos{})
		return nil, diags
	}

	file, err := g.Emit(src.Path, a.Results)
	if err != nil {
		diags.AddError(CodeEmit, err.Error(), src.Path, token.Pos{})
		return nil, diags
	}

	return file, diags
}

// Emit assembles the output file for already expanded directives.
func (g *Generator) Emit(path string, results []*expand.Result) (*GeneratedFile, error) {
	var sb strings.Builder

	sb.WriteString(Header)
	sb.WriteString("\n")

	if path != "" {
		sb.WriteString("// Source: ")
		sb.WriteString(path)
		sb.WriteString("\n")
	}

	units := 0

	for _, res := range results {
		for i := range res.Implementations {
			im := &res.Implementations[i]

			comment := ""
			if g.config.GenerateComments {
				comment = describeUnit(res.Spec, im)
			}

			unit, err := g.emitter.Emit(im, comment)
			if err != nil {
				return nil, fmt.Errorf("emitting %s: %w", res.Spec, err)
			}

			sb.WriteString("\n")
			sb.WriteString(unit)

			units++
		}
	}

	return &GeneratedFile{
		Filename: g.OutputName(path),
		Source:   path,
		Content:  []byte(sb.String()),
		Units:    units,
	}, nil
}

// OutputName derives the generated file name from an input path.
func (g *Generator) OutputName(path string) string {
	stem := common.FileStem(path)
	if stem == "" {
		stem = "stdin"
	}

	return stem + g.config.Suffix
}

// describeUnit is the comment written above an impl block, such as
// "define_operator_extended! at 12:1: &Donkey + Diddy (mirrored)".
func describeUnit(s *directive.OperatorSpec, im *expand.Implementation) string {
	var sig string

	switch {
	case im.Category == directive.CategoryUnary:
		sig = s.Operator + im.LHS.String()
	case im.RHS != nil:
		sig = fmt.Sprintf("%s %s %s", selfType(im.LHS), s.Operator, im.RHS)
	default:
		sig = selfType(im.LHS)
	}

	out := fmt.Sprintf("%s! at %s: %s", s.Entry, s.Pos, sig)
	if im.Mirrored {
		out += " (mirrored)"
	}

	return out
}
