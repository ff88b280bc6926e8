package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Philipp01105/logstream/core"
)

func newLevelsCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List the selectable minimum levels",
		Example: `  logstream levels
  logstream levels --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			levels := core.Levels()
			out := cmd.OutOrStdout()

			switch output {
			case "table", "":
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CODE\tNAME\tSTREAM")
				for _, l := range levels {
					fmt.Fprintf(w, "%d\t%s\t%s\n", l.Value, l.Label, streamFor(l.Value))
				}
				return w.Flush()
			case "yaml":
				data, err := yaml.Marshal(levels)
				if err != nil {
					return errors.Wrap(err, "encoding levels")
				}
				_, err = out.Write(data)
				return err
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(levels)
			default:
				return errors.Newf("unknown output %q (valid: table, yaml, json)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, yaml, json")
	return cmd
}

func streamFor(l core.Level) string {
	switch {
	case l <= core.InfoLevel:
		return "stdout"
	case l >= core.WarningLevel:
		return "stderr"
	default:
		return "-"
	}
}
