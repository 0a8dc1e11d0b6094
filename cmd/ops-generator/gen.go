package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ops-generator/internal/driver"
	"ops-generator/internal/gen"
	"ops-generator/internal/version"
)

type genOptions struct {
	out     string
	jobs    int
	noCache bool
	dryRun  bool
}

func newGenCmd(a *app) *cobra.Command {
	var opts genOptions

	cmd := &cobra.Command{
		Use:   "gen [paths...]",
		Short: "Generate operator implementations",
		Long: `Gen expands every directive in the given files and directories (or the
configured inputs) and writes one <stem>_ops.rs file per input that holds
directives. Files with errors produce no output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGen(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory (default: next to each input)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "parallel jobs (default: config or GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the disk cache")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print generated code instead of writing files")

	return cmd
}

func (a *app) applyGenFlags(cmd *cobra.Command, opts genOptions) {
	if cmd.Flags().Changed("out") {
		a.cfg.OutputDir = opts.out
	}

	if cmd.Flags().Changed("jobs") {
		a.cfg.Jobs = opts.jobs
	}

	if opts.noCache {
		a.cfg.Cache = false
	}
}

func (a *app) runGen(cmd *cobra.Command, args []string, opts genOptions) error {
	a.applyGenFlags(cmd, opts)

	d := driver.New(a.cfg, version.Version, a.logger)

	res, err := d.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	return a.report(cmd, res, opts.dryRun)
}

// report prints diagnostics and writes (or prints) the generated files.
func (a *app) report(cmd *cobra.Command, res *driver.Result, dryRun bool) error {
	if err := a.printDiagnostics(cmd, res.Diagnostics, res.Sources()); err != nil {
		return err
	}

	files := res.Generated()
	out := cmd.OutOrStdout()

	if dryRun {
		for _, f := range files {
			fmt.Fprintf(out, "==> %s <==\n%s\n", gen.OutputPath(f, a.cfg.OutputDir), f.Content)
		}
	} else {
		written, err := gen.WriteFiles(files, a.cfg.OutputDir)
		if err != nil {
			return err
		}

		for _, p := range written {
			a.logger.Debug("wrote", zap.String("path", p))
		}

		fmt.Fprintf(out, "%d file(s) generated, %d written\n", len(files), len(written))
	}

	if n := len(res.Diagnostics.Errors); n > 0 {
		return fmt.Errorf("%w: %d error(s)", errFailed, n)
	}

	return nil
}
