package diagnostic

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// PrettyOpts controls Pretty output.
type PrettyOpts struct {
	// Color enables ANSI colors.
	Color bool
	// Snippet prints the source line and a caret under the position.
	Snippet bool
}

// Pretty writes diagnostics in the form
//
//	path:line:col: error DIR013: message
//	    source line
//	         ^
//
// sources maps file paths to their content and may be nil.
func Pretty(w io.Writer, diags []Diagnostic, sources map[string][]byte, opts PrettyOpts) error {
	for _, d := range diags {
		sev := severityColor(d.Severity)
		bold := color.New(color.Bold)

		if opts.Color {
			sev.EnableColor()
			bold.EnableColor()
		} else {
			sev.DisableColor()
			bold.DisableColor()
		}

		head := sev.Sprint(d.Severity.String())
		if d.Code != "" {
			head += " " + sev.Sprint(d.Code)
		}

		loc := d.Location()
		if loc != "" {
			loc = bold.Sprint(loc) + ": "
		}

		if _, err := fmt.Fprintf(w, "%s%s: %s\n", loc, head, d.Message); err != nil {
			return err
		}

		for _, s := range d.Suggestions {
			if _, err := fmt.Fprintf(w, "    help: %s\n", s); err != nil {
				return err
			}
		}

		if !opts.Snippet || !d.Pos.IsValid() {
			continue
		}

		line, ok := sourceLine(sources[d.File], d.Pos.Line)
		if !ok {
			continue
		}

		if _, err := fmt.Fprintf(w, "    %s\n    %s%s\n", line, caretPadding(line, d.Pos.Col), sev.Sprint("^")); err != nil {
			return err
		}
	}

	return nil
}

func severityColor(s DiagnosticSeverity) *color.Color {
	switch s {
	case DiagnosticError:
		return color.New(color.FgRed, color.Bold)
	case DiagnosticWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

// sourceLine returns the 1-based line n of src without its line ending.
func sourceLine(src []byte, n int) (string, bool) {
	if src == nil || n < 1 {
		return "", false
	}

	lines := bytes.Split(src, []byte("\n"))
	if n > len(lines) {
		return "", false
	}

	return strings.TrimRight(string(lines[n-1]), "\r"), true
}

// caretPadding returns whitespace as wide as the first col-1 bytes of line,
// keeping tabs so the caret lines up in a terminal.
func caretPadding(line string, col int) string {
	if col-1 > len(line) {
		col = len(line) + 1
	}

	var sb strings.Builder

	for _, r := range line[:col-1] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}

		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	return sb.String()
}
