// Package cli provides the command-line interface for bulkferm.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/bulkferm/internal/config"
	"github.com/hammamikhairi/bulkferm/internal/dataset"
	"github.com/hammamikhairi/bulkferm/internal/engine"
	"github.com/hammamikhairi/bulkferm/internal/formula"
	"github.com/hammamikhairi/bulkferm/internal/logger"
	"github.com/hammamikhairi/bulkferm/internal/units"
)

// Version is set at build time.
var Version = "0.1.0"

// app holds what every command needs once the root pre-run has loaded
// config, logging and the dataset.
type app struct {
	cfg      config.Config
	log      *logger.Logger
	table    *dataset.Table
	formulas *formula.MemorySource

	logFile *os.File

	// Global flags
	unit        string
	verbose     bool
	quiet       bool
	logPath     string
	datasetPath string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bulkferm",
		Short: "Sourdough bulk fermentation estimator",
		Long: `bulkferm estimates how long sourdough needs to bulk ferment, from dough
temperature, starter percentage and target rise, using measured data
interpolated across the tested range.

Flour mix and salt adjust the estimate. Batches can be tracked in the
terminal with reminders when the rise window opens, when the dough should
be ready and when it is overdue.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	root.PersistentFlags().StringVarP(&a.unit, "unit", "u", "", "temperature unit, F or C (default from "+config.EnvUnit+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "disable logging")
	root.PersistentFlags().StringVar(&a.logPath, "log-file", "", "file to write logs to, \"stderr\" for the console")
	root.PersistentFlags().StringVar(&a.datasetPath, "dataset", "", "YAML table replacing the built-in dataset")

	root.AddCommand(a.estimateCmd())
	root.AddCommand(a.convertCmd())
	root.AddCommand(a.tableCmd())
	root.AddCommand(a.formulasCmd())
	root.AddCommand(a.calcCmd())
	root.AddCommand(a.watchCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads config, applies flag overrides, opens the log and loads
// the dataset.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("unit") {
		if cfg.Unit, err = units.ParseUnit(a.unit); err != nil {
			return err
		}
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logPath
	}
	if flags.Changed("dataset") {
		cfg.DatasetPath = a.datasetPath
	}
	switch {
	case a.quiet:
		cfg.LogLevel = logger.LevelOff
	case a.verbose:
		cfg.LogLevel = logger.LevelVerbose
	}
	a.cfg = cfg

	a.log = a.openLog(cmd)
	a.formulas = formula.NewMemorySource(a.log)

	if cfg.DatasetPath == "" {
		a.table = dataset.Default()
	} else if a.table, err = dataset.LoadFile(cfg.DatasetPath); err != nil {
		return err
	}
	a.log.Debug("config: unit=%s dataset=%q chime=%t tick=%s", cfg.Unit, cfg.DatasetPath, cfg.Chime, cfg.TickInterval)
	return nil
}

// openLog sends JSON logs to the configured file. Verbose runs outside
// the terminal UIs also mirror text logs to stderr.
func (a *app) openLog(cmd *cobra.Command) *logger.Logger {
	stderr := cmd.ErrOrStderr()
	if a.cfg.LogFile == "" || a.cfg.LogFile == "stderr" {
		return logger.NewTee(a.cfg.LogLevel, stderr, nil)
	}

	if dir := filepath.Dir(a.cfg.LogFile); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", a.cfg.LogFile, err)
		return logger.NewTee(a.cfg.LogLevel, stderr, nil)
	}
	a.logFile = f

	var console io.Writer
	if a.verbose && !usesTerminalUI(cmd) {
		console = stderr
	}
	return logger.NewTee(a.cfg.LogLevel, console, f)
}

func (a *app) teardown() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func (a *app) engine(opts ...engine.Option) *engine.Engine {
	return engine.New(a.table, a.log, opts...)
}

func usesTerminalUI(cmd *cobra.Command) bool {
	return cmd.Name() == "watch" || cmd.Name() == "calc"
}
