package formatter

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/Philipp01105/logstream/core"
	"github.com/Philipp01105/logstream/stacktrace"
)

const (
	// DefaultLineFormat is the template used when LineConfig.Format is empty.
	DefaultLineFormat = "[%datetime%] %channel%.%level_name%: %message% %context% %extra%\n"
	// DefaultDateFormat renders microseconds and the zone offset.
	DefaultDateFormat = "2006-01-02T15:04:05.000000-07:00"

	traceIndent = "  "
)

// LineConfig configures a LineFormatter.
type LineConfig struct {
	// Format is the line template. See DefaultLineFormat.
	Format string
	// DateFormat is a time layout for %datetime% and time values.
	DateFormat string
	// AllowInlineLineBreaks keeps line breaks in the message and in
	// serialized context. When false they are replaced with spaces.
	AllowInlineLineBreaks bool
	// IgnoreEmptyContextAndExtra drops %context% and %extra% when empty
	// instead of rendering "[]".
	IgnoreEmptyContextAndExtra bool
	// IncludeStacktrace appends a dimmed caller trace to records at
	// WARNING and above that carry no error.
	IncludeStacktrace bool
	ColorMode         ColorMode
	// Output is checked for a terminal when ColorMode is ColorAuto.
	Output io.Writer
	// Stack overrides the trace extractor.
	Stack *stacktrace.Extractor
}

// DefaultLineConfig returns the configuration used by NewLineFormatter callers
// that only want to override a few options.
func DefaultLineConfig() LineConfig {
	return LineConfig{
		Format:                     DefaultLineFormat,
		DateFormat:                 DefaultDateFormat,
		AllowInlineLineBreaks:      true,
		IgnoreEmptyContextAndExtra: true,
		IncludeStacktrace:          true,
		ColorMode:                  ColorAlways,
		Output:                     os.Stdout,
	}
}

// LineFormatter renders records as colored text lines.
type LineFormatter struct {
	cfg     LineConfig
	colored bool
	stack   *stacktrace.Extractor
	values  valueEncoder
}

// NewLineFormatter creates a line formatter. Empty strings in cfg take their
// defaults; boolean options are used as given.
func NewLineFormatter(cfg LineConfig) *LineFormatter {
	if cfg.Format == "" {
		cfg.Format = DefaultLineFormat
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = DefaultDateFormat
	}
	if cfg.ColorMode == "" {
		cfg.ColorMode = ColorAlways
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	f := &LineFormatter{
		cfg:     cfg,
		colored: colorEnabled(cfg.ColorMode, cfg.Output),
		stack:   cfg.Stack,
	}
	if f.stack == nil {
		f.stack = stacktrace.New(stacktrace.TextFrames)
	}
	f.values = valueEncoder{convert: f.normalize}
	return f
}

// Format renders a record as text
func (f *LineFormatter) Format(r *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := f.formatToBuffer(r, buf); err != nil {
		return nil, err
	}
	return copyBytes(buf), nil
}

// FormatTo renders a record and writes it to w in one call
func (f *LineFormatter) FormatTo(r *core.Record, w io.Writer) error {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := f.formatToBuffer(r, buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (f *LineFormatter) formatToBuffer(r *core.Record, buf *bytes.Buffer) error {
	base, err := f.render(r)
	if err != nil {
		return err
	}

	color := ""
	if f.colored {
		color = colorFor(r.Name())
	}

	buf.WriteString(color)
	if trace := f.trace(r); trace != "" {
		buf.WriteString(strings.TrimRight(base, " \t\r\n"))
		buf.WriteByte('\n')
		if f.colored {
			buf.WriteString(ansiDim)
		}
		buf.WriteString(trace)
		if f.colored {
			buf.WriteString(ansiReset)
		}
		buf.WriteByte('\n')
	} else {
		buf.WriteString(base)
	}
	if color != "" {
		buf.WriteString(ansiReset)
	}
	return nil
}

// trace returns the caller trace block, or "" when the record gets none.
func (f *LineFormatter) trace(r *core.Record) string {
	if !f.cfg.IncludeStacktrace || !wantsTrace(r.Level) || r.HasException() {
		return ""
	}
	return stacktrace.Lines(f.stack.Extract(0), traceIndent)
}
