package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"ops-generator/internal/config"
	"ops-generator/internal/diagnostic"
	"ops-generator/internal/version"
)

// app holds state shared by all commands.
type app struct {
	configPath string
	verbose    bool
	color      string

	logger *zap.Logger
	cfg    *config.Config
}

// errFailed is returned after diagnostics were already printed.
var errFailed = errors.New("generation failed")

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ops-generator",
		Short: "Operator trait implementation generator",
		Long: `ops-generator expands define_operator! directives into every core::ops
implementation needed to use an operator with owned and borrowed operands.`,
		Version:           version.Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ops-generator.yaml in the working directory)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.color, "color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(
		newGenCmd(a),
		newExpandCmd(a),
		newExplainCmd(a),
		newTokenizeCmd(a),
		newWatchCmd(a),
		newVersionCmd(a),
		newInitCmd(a),
	)

	return root
}

// setup builds the logger and loads the configuration.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	switch a.color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid --color %q (must be auto, on or off)", a.color)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)

	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.logger = logger

	switch cmd.Name() {
	case "version", "init", "tokenize":
		return nil
	}

	return a.loadConfig()
}

func (a *app) loadConfig() error {
	path := a.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}

		path = config.Discover(wd)
	}

	if path == "" {
		a.cfg = config.DefaultConfig()
		a.logger.Debug("no config file, using defaults")

		return nil
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	if err := cfg.Validate(version.Version); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	a.logger.Debug("config loaded", zap.String("path", path), zap.String("fingerprint", cfg.Fingerprint()))
	a.cfg = cfg

	return nil
}

// useColor reports whether output to w is colorized.
func (a *app) useColor(w io.Writer) bool {
	switch a.color {
	case "on":
		return true
	case "off":
		return false
	}

	f, ok := w.(*os.File)

	return ok && isTerminal(f)
}

// printDiagnostics writes diagnostics to the command's error stream.
func (a *app) printDiagnostics(cmd *cobra.Command, d diagnostic.Diagnostics, sources map[string][]byte) error {
	w := cmd.ErrOrStderr()

	return diagnostic.Pretty(w, d.All(), sources, diagnostic.PrettyOpts{
		Color:   a.useColor(w),
		Snippet: true,
	})
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
