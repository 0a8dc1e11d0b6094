package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"ops-generator/internal/expand"
	"ops-generator/internal/gen"
)

func newExplainCmd(a *app) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "explain [file|-]",
		Short: "Show how each directive is parsed and expanded",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			analysis := gen.NewGenerator(a.cfg.Generator()).Analyze(src)

			if err := a.printDiagnostics(cmd, analysis.Diagnostics, map[string][]byte{src.Path: src.Content}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, res := range analysis.Results {
				explain(out, res)

				if dump {
					dumper := spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true, DisableCapacities: true}
					dumper.Fdump(out, res.Spec)
				}
			}

			if analysis.Diagnostics.HasErrors() {
				return fmt.Errorf("%w: %d error(s)", errFailed, len(analysis.Diagnostics.Errors))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "dump the parsed directive structure")

	return cmd
}

// explain prints one directive and its implementation matrix.
func explain(w io.Writer, res *expand.Result) {
	s := res.Spec

	fmt.Fprintf(w, "%s: %s\n", s.Pos, s)
	fmt.Fprintf(w, "  category:  %s\n", s.Category)
	fmt.Fprintf(w, "  protocol:  %s::%s\n", s.Protocol.Trait, s.Protocol.Method)

	if len(s.Generics) > 0 {
		fmt.Fprintf(w, "  generics:  %s\n", s.GenericsString())
	}

	if attrs := s.AttributeStrings(); len(attrs) > 0 {
		fmt.Fprintf(w, "  attributes: %s\n", strings.Join(attrs, " "))
	}

	fmt.Fprintf(w, "  implementations (%d):\n", len(res.Implementations))

	for i := range res.Implementations {
		im := &res.Implementations[i]

		head := im.Protocol.Trait
		if im.RHS != nil {
			head += "<" + im.RHS.String() + ">"
		}

		head += " for " + im.LHS.String()

		var tags []string
		if im.Base {
			tags = append(tags, "written")
		}

		if im.Mirrored {
			tags = append(tags, "mirrored")
		}

		var adapted []string

		for _, arg := range im.Body.Args {
			if arg.Adapts() {
				adapted = append(adapted, arg.Expr())
			}
		}

		if len(adapted) > 0 {
			tags = append(tags, "adapts "+strings.Join(adapted, ", "))
		}

		line := fmt.Sprintf("    %d. %s", i+1, head)
		if len(tags) > 0 {
			line += "  [" + strings.Join(tags, "; ") + "]"
		}

		fmt.Fprintln(w, line)
	}
}
