package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ops-generator/internal/diagnostic"
	"ops-generator/internal/lexer"
)

func newTokenizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize file",
		Short: "Print the tokens of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			toks, errs := lexer.Tokenize(string(data))

			var diags diagnostic.Diagnostics
			for _, e := range errs {
				diags.AddError(e.Code, e.Msg, args[0], e.Pos)
			}

			if err := a.printDiagnostics(cmd, diags, map[string][]byte{args[0]: data}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range toks {
				fmt.Fprintf(out, "%-8s %-10s %q\n", t.Pos, t.Kind, t.Text)
			}

			if diags.HasErrors() {
				return fmt.Errorf("%w: %d error(s)", errFailed, len(diags.Errors))
			}

			return nil
		},
	}
}
