// Package commands implements the CLI commands for logstream.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Philipp01105/logstream/config"
	"github.com/Philipp01105/logstream/core"
	"github.com/Philipp01105/logstream/formatter"
	"github.com/Philipp01105/logstream/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// app carries the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	configPath string
	verbose    bool

	cfg  *config.Config
	log  *logger.Logger
	diag *slog.Logger
}

// NewRootCommand builds the command tree with its own configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:   "logstream",
		Short: "Route log records to stdout or stderr by severity",
		Long: `logstream renders log records as colored lines or aggregator-ready JSON
and routes them by level: DEBUG through INFO to standard output, WARNING
through EMERGENCY to standard error.

Configuration is read from logstream.yaml in the current directory or in
the XDG config directory, then from LOGSTREAM_* environment variables,
then from flags.`,
		Example: `  # Reformat a JSON log stream for the terminal
  my-service | logstream pipe --format line

  # Check what a log collector receives
  logstream emit --format json

  # Show the effective configuration
  logstream config`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.SetVersionTemplate("logstream version {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: ./logstream.yaml, $XDG_CONFIG_HOME/logstream/logstream.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "print diagnostics at DEBUG")
	flags.String("format", "", "output format: line, json")
	flags.String("min-level", "", "minimum level written to stdout (name or code, at most INFO)")
	flags.String("service", "", "service name for JSON output")
	flags.String("environment", "", "environment name for JSON output")
	flags.String("channel", "", "channel for records without one")
	flags.String("color", "", "line colors: always, auto, never")
	flags.Bool("stack-traces", true, "add caller traces to WARNING and above")

	for key, flag := range map[string]string{
		"format":       "format",
		"min_level":    "min-level",
		"service":      "service",
		"environment":  "environment",
		"channel":      "channel",
		"color":        "color",
		"stack_traces": "stack-traces",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	cmd.AddCommand(
		newPipeCommand(a),
		newEmitCommand(a),
		newLevelsCommand(),
		newConfigCommand(a),
	)
	return cmd
}

// setup loads the configuration and builds the output pipeline and the
// diagnostics logger.
func (a *app) setup(cmd *cobra.Command) error {
	diagLevel := core.InfoLevel
	if a.verbose {
		diagLevel = core.DebugLevel
	}
	a.diag = logger.NewBuilder().
		WithFormatter(formatter.NewLineFormatter(formatter.LineConfig{
			Format:                     "logstream.%level_name%: %message% %context%\n",
			IgnoreEmptyContextAndExtra: true,
			ColorMode:                  formatter.ColorAuto,
			Output:                     cmd.ErrOrStderr(),
		})).
		WithWriters(cmd.ErrOrStderr(), cmd.ErrOrStderr()).
		WithMinLevel(diagLevel).
		WithChannel(config.AppName).
		Build().
		Slog()

	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}
	a.cfg = cfg
	if used := a.v.ConfigFileUsed(); used != "" {
		a.diag.Debug("configuration loaded", "path", used)
	}

	b, err := logger.FromConfig(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = b.
		WithErrorHandler(func(err error) {
			a.diag.Warn("writing record failed", "error", err)
		}).
		Build()
	return nil
}

// Execute runs the root command.
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return errors.Wrap(err, "executing root command")
	}
	return nil
}
