package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ops-generator/internal/driver"
	"ops-generator/internal/version"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		opts     genOptions
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Regenerate whenever an input changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyGenFlags(cmd, opts)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d := driver.New(a.cfg, version.Version, a.logger)

			fmt.Fprintln(cmd.OutOrStdout(), "watching for changes, press Ctrl+C to stop")

			return d.Watch(ctx, args, driver.WatchOptions{Debounce: debounce}, a.watchResult(cmd, opts.dryRun))
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory (default: next to each input)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "parallel jobs (default: config or GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the disk cache")
	cmd.Flags().DurationVar(&debounce, "debounce", driver.DefaultDebounce, "wait this long for changes to settle")

	return cmd
}

// watchResult reports each watch run. Diagnostics are printed by report,
// anything else it returns is printed here.
func (a *app) watchResult(cmd *cobra.Command, dryRun bool) func(*driver.Result, error) {
	return func(res *driver.Result, err error) {
		if err == nil {
			err = a.report(cmd, res, dryRun)
		}

		if err == nil || errors.Is(err, errFailed) {
			return
		}

		a.logger.Error("run failed", zap.Error(err))
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}
}
