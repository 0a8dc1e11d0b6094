package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ops-generator/internal/gen"
)

func newExpandCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "expand [file|-]",
		Short: "Expand the directives of one file to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			file, diags := gen.NewGenerator(a.cfg.Generator()).Generate(src)

			if err := a.printDiagnostics(cmd, diags, map[string][]byte{src.Path: src.Content}); err != nil {
				return err
			}

			if diags.HasErrors() {
				return fmt.Errorf("%w: %d error(s)", errFailed, len(diags.Errors))
			}

			if file != nil {
				_, err = cmd.OutOrStdout().Write(file.Content)
			}

			return err
		},
	}
}

// readSource reads the file named by args, or stdin when there is none or
// it is "-".
func readSource(cmd *cobra.Command, args []string) (gen.SourceFile, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return gen.SourceFile{}, fmt.Errorf("reading stdin: %w", err)
		}

		return gen.SourceFile{Path: "<stdin>", Content: data}, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return gen.SourceFile{}, fmt.Errorf("reading %s: %w", args[0], err)
	}

	return gen.SourceFile{Path: args[0], Content: data}, nil
}
