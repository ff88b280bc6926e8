package commands

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/Philipp01105/logstream/core"
)

func newEmitCommand(a *app) *cobra.Command {
	var (
		level     string
		message   string
		withError bool
	)

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Emit one test record per level",
		Long: `Emit a record at every canonical level, or at one level with --level,
through the configured pipeline. Useful to check which stream each level
reaches and what a log collector receives.

The stdout minimum level still applies, and NOTICE is accepted by neither
stream.`,
		Example: `  logstream emit
  logstream emit --level error --with-error --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			levels := core.Levels()
			if level != "" {
				l, err := core.ParseLevel(level)
				if err != nil {
					return err
				}
				levels = []core.LevelOption{{Value: l, Label: l.String()}}
			}

			var errs error
			for _, opt := range levels {
				r := core.NewRecord(time.Now(), opt.Value, fmt.Sprintf("%s %s", message, opt.Label))
				r.Channel = a.cfg.Channel
				r.Context = core.Fields{
					core.String("source", "logstream emit"),
					core.Int("level_code", int(opt.Value)),
				}
				if withError && opt.Value >= core.ErrorLevel {
					r.Context = append(r.Context, core.Err(errors.Newf("emitted %s failure", opt.Label)))
				}
				if err := a.log.Handler().Handle(r); err != nil {
					errs = errors.CombineErrors(errs, err)
				}
			}
			return errs
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "emit only this level (name or code)")
	cmd.Flags().StringVar(&message, "message", "test record at", "message prefix")
	cmd.Flags().BoolVar(&withError, "with-error", false, "attach an error to ERROR and above")
	return cmd
}
