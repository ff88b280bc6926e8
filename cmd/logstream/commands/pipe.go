package commands

import (
	"bufio"
	"bytes"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Philipp01105/logstream/core"
	"github.com/Philipp01105/logstream/handler"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

func newPipeCommand(a *app) *cobra.Command {
	var (
		strict bool
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Route JSON log lines from stdin",
		Long: `Read log records from standard input, one JSON object or batch array
per line, and route each through the configured formatter by level.

Lines that are not JSON records become INFO records carrying the line
as message, unless --strict is set.`,
		Example: `  # Pretty-print a zerolog service
  ./service 2>&1 | logstream pipe --format line --min-level debug

  # Normalize mixed output for an aggregator
  ./legacy-job | logstream pipe --format json --service legacy-job`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.pipe(cmd, strict); err != nil {
				return err
			}
			if stats {
				return a.writeStats(cmd)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on lines that are not JSON records")
	cmd.Flags().BoolVar(&stats, "stats", false, "print sink statistics to stderr when done")
	return cmd
}

func (a *app) pipe(cmd *cobra.Command, strict bool) error {
	h := a.log.Handler()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		records, err := core.ParseJSONLine(line)
		if err != nil {
			if strict {
				return errors.Wrapf(err, "line %d", lineNo)
			}
			a.diag.Debug("passing through non-JSON line", "line", lineNo)
			records = []*core.Record{core.NewRecord(time.Now(), core.InfoLevel, string(line))}
		}

		for _, r := range records {
			if r.Channel == core.DefaultChannel {
				r.Channel = a.cfg.Channel
			}
			if err := h.Handle(r); err != nil {
				a.diag.Warn("writing record failed", "line", lineNo, "error", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading stdin")
	}

	a.diag.Debug("input drained", "lines", lineNo)
	return nil
}

// writeStats prints the counters of each sink as YAML.
func (a *app) writeStats(cmd *cobra.Command) error {
	var snapshots []handler.Snapshot
	for _, s := range a.log.Sinks() {
		snapshots = append(snapshots, s.Stats().GetSnapshot())
	}

	enc := yaml.NewEncoder(cmd.ErrOrStderr())
	enc.SetIndent(2)
	if err := enc.Encode(snapshots); err != nil {
		return errors.Wrap(err, "encoding stats")
	}
	return enc.Close()
}
