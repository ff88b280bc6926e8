package logger

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/Philipp01105/logstream/ambient"
	"github.com/Philipp01105/logstream/config"
	"github.com/Philipp01105/logstream/formatter"
)

// NewFormatter builds the formatter selected by cfg. out is the stream
// the line formatter probes when the color mode is auto.
func NewFormatter(cfg *config.Config, out io.Writer) (formatter.Formatter, error) {
	switch cfg.Format {
	case config.FormatJSON:
		batch, err := formatter.ParseBatchMode(cfg.BatchMode)
		if err != nil {
			return nil, err
		}
		jc := formatter.DefaultJSONConfig()
		jc.ServiceName = cfg.Service
		jc.Environment = cfg.Environment
		jc.IncludeStacktrace = cfg.StackTraces
		jc.BatchMode = batch
		jc.Ambient = ambient.NewProvider(nil)
		return formatter.NewJSONFormatter(jc), nil

	case config.FormatLine, "":
		mode, err := formatter.ParseColorMode(cfg.Color)
		if err != nil {
			return nil, err
		}
		lc := formatter.DefaultLineConfig()
		if cfg.LineFormat != "" {
			lc.Format = cfg.LineFormat
		}
		if cfg.DateFormat != "" {
			lc.DateFormat = cfg.DateFormat
		}
		lc.AllowInlineLineBreaks = cfg.InlineLineBreaks
		lc.IgnoreEmptyContextAndExtra = cfg.IgnoreEmptyContext
		lc.IncludeStacktrace = cfg.StackTraces
		lc.ColorMode = mode
		lc.Output = out
		return formatter.NewLineFormatter(lc), nil

	default:
		return nil, errors.Newf("unknown format %q", cfg.Format)
	}
}

// FromConfig returns a Builder set up from cfg, writing to stdout and
// stderr.
func FromConfig(cfg *config.Config, stdout, stderr io.Writer) (*Builder, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	b := NewBuilder().WithWriters(stdout, stderr)
	f, err := NewFormatter(cfg, b.stdout)
	if err != nil {
		return nil, errors.Wrap(err, "building formatter")
	}

	return b.
		WithFormatter(f).
		WithMinLevel(cfg.Level()).
		WithChannel(cfg.Channel), nil
}
