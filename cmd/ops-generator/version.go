package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ops-generator/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the ops-generator version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "ops-generator %s\n", version.Pretty(a.useColor(out)))

			if full {
				fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(version.Commit()))
				fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(version.BuildDate))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "include commit and build date")

	return cmd
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}
