package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Philipp01105/logstream/core"
	"github.com/Philipp01105/logstream/formatter"
	"github.com/Philipp01105/logstream/handler"
)

// Logger is the main logging interface (immutable)
type Logger struct {
	handler handler.Handler
	sinks   []*handler.Sink
	level   core.Level
	channel string
	fields  core.Fields
	onError func(error)
}

// Builder assembles a pipeline: one formatter shared by a stdout sink
// for [min, INFO] and a stderr sink for [WARNING, EMERGENCY].
type Builder struct {
	handler   handler.Handler
	formatter formatter.Formatter
	stdout    io.Writer
	stderr    io.Writer
	level     core.Level
	channel   string
	fields    core.Fields
	onError   func(error)
}

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{
		level:   core.InfoLevel,
		channel: core.DefaultChannel,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// WithHandler replaces the two sinks with h.
func (b *Builder) WithHandler(h handler.Handler) *Builder {
	b.handler = h
	return b
}

// WithFormatter sets the formatter shared by both sinks
func (b *Builder) WithFormatter(f formatter.Formatter) *Builder {
	b.formatter = f
	return b
}

// WithWriters overrides the standard streams.
func (b *Builder) WithWriters(stdout, stderr io.Writer) *Builder {
	if stdout != nil {
		b.stdout = stdout
	}
	if stderr != nil {
		b.stderr = stderr
	}
	return b
}

// WithMinLevel sets the stdout minimum level. Invalid levels and levels
// above INFO fall back to INFO.
func (b *Builder) WithMinLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithChannel sets the channel stamped on every record
func (b *Builder) WithChannel(channel string) *Builder {
	if channel != "" {
		b.channel = channel
	}
	return b
}

// WithFields adds default fields to all log records
func (b *Builder) WithFields(fields ...core.Field) *Builder {
	b.fields = append(b.fields, fields...)
	return b
}

// WithErrorHandler sets a callback for format and write failures.
// Without one, failures are only counted in the sink stats.
func (b *Builder) WithErrorHandler(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() *Logger {
	l := &Logger{
		level:   handler.StdoutMinLevel(b.level),
		channel: b.channel,
		fields:  b.fields,
		onError: b.onError,
	}

	if b.handler != nil {
		l.handler = b.handler
		return l
	}

	f := b.formatter
	if f == nil {
		lc := formatter.DefaultLineConfig()
		lc.Output = b.stdout
		f = formatter.NewLineFormatter(lc)
	}

	l.sinks = []*handler.Sink{
		handler.NewSink(handler.SinkConfig{
			Name:      handler.StdoutName,
			Writer:    b.stdout,
			Formatter: f,
			MinLevel:  l.level,
			MaxLevel:  core.InfoLevel,
		}),
		handler.NewSink(handler.SinkConfig{
			Name:      handler.StderrName,
			Writer:    b.stderr,
			Formatter: f,
			MinLevel:  core.WarningLevel,
			MaxLevel:  core.EmergencyLevel,
		}),
	}
	l.handler = handler.NewRouter(l.sinks[0], l.sinks[1])
	return l
}

// With creates a new Logger with additional fields (immutable operation)
func (l *Logger) With(fields ...core.Field) *Logger {
	newFields := make(core.Fields, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	l2 := *l
	l2.fields = newFields
	return &l2
}

// Named returns a Logger writing to another channel.
func (l *Logger) Named(channel string) *Logger {
	l2 := *l
	if channel != "" {
		l2.channel = channel
	}
	return &l2
}

// Enabled reports whether records at level pass the logger's gate.
func (l *Logger) Enabled(level core.Level) bool {
	return level >= l.level
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	if level < l.level {
		return
	}
	l.log(nil, level, msg, fields)
}

// LogContext logs a message carrying ctx, from which the JSON formatter
// reads request and trace metadata.
func (l *Logger) LogContext(ctx context.Context, level core.Level, msg string, fields ...core.Field) {
	if level < l.level {
		return
	}
	l.log(ctx, level, msg, fields)
}

func (l *Logger) log(ctx context.Context, level core.Level, msg string, fields []core.Field) {
	if l.handler == nil {
		return
	}

	r := core.NewRecord(time.Now(), level, msg)
	r.Channel = l.channel
	if n := len(l.fields) + len(fields); n > 0 {
		r.Context = make(core.Fields, 0, n)
		r.Context = append(r.Context, l.fields...)
		r.Context = append(r.Context, fields...)
	}
	if ctx != nil {
		r = r.WithCtx(ctx)
	}

	if err := l.handler.Handle(r); err != nil && l.onError != nil {
		l.onError(err)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...core.Field) {
	if core.DebugLevel < l.level {
		return
	}
	l.log(nil, core.DebugLevel, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...core.Field) {
	if core.InfoLevel < l.level {
		return
	}
	l.log(nil, core.InfoLevel, msg, fields)
}

// Notice logs a notice. Neither standard sink takes NOTICE, so it only
// reaches custom handlers.
func (l *Logger) Notice(msg string, fields ...core.Field) {
	l.log(nil, core.NoticeLevel, msg, fields)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string, fields ...core.Field) {
	l.log(nil, core.WarningLevel, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...core.Field) {
	l.log(nil, core.ErrorLevel, msg, fields)
}

// Critical logs a critical message
func (l *Logger) Critical(msg string, fields ...core.Field) {
	l.log(nil, core.CriticalLevel, msg, fields)
}

// Alert logs an alert message
func (l *Logger) Alert(msg string, fields ...core.Field) {
	l.log(nil, core.AlertLevel, msg, fields)
}

// Emergency logs an emergency message
func (l *Logger) Emergency(msg string, fields ...core.Field) {
	l.log(nil, core.EmergencyLevel, msg, fields)
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) {
	if core.DebugLevel < l.level {
		return
	}
	l.log(nil, core.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...interface{}) {
	if core.InfoLevel < l.level {
		return
	}
	l.log(nil, core.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warningf logs a warning message with formatting
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.log(nil, core.WarningLevel, fmt.Sprintf(format, args...), nil)
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(nil, core.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Slog returns a *slog.Logger writing through the same pipeline.
func (l *Logger) Slog() *slog.Logger {
	var h slog.Handler = handler.NewSlogHandler(l.handler, l.channel, l.level)
	if len(l.fields) > 0 {
		attrs := make([]slog.Attr, len(l.fields))
		for i, f := range l.fields {
			attrs[i] = slog.Any(f.Key, f.Value)
		}
		h = h.WithAttrs(attrs)
	}
	return slog.New(h)
}

// Zap returns a *zap.Logger writing through the same pipeline.
func (l *Logger) Zap() *zap.Logger {
	min := l.level
	enab := zap.LevelEnablerFunc(func(z zapcore.Level) bool {
		return handler.ZapLevel(z) >= min
	})
	z := zap.New(handler.NewZapCore(l.handler, l.channel, enab))
	if len(l.fields) > 0 {
		fs := make([]zap.Field, len(l.fields))
		for i, f := range l.fields {
			fs[i] = zap.Any(f.Key, f.Value)
		}
		z = z.With(fs...)
	}
	return z
}

// Logrus returns a *logrus.Logger whose entries are sent through the
// pipeline by a hook. Its own output is discarded.
func (l *Logger) Logrus() *logrus.Logger {
	lr := logrus.New()
	lr.SetOutput(io.Discard)
	lr.SetLevel(logrus.TraceLevel)
	lr.AddHook(handler.NewLogrusHook(l.handler, l.channel))
	return lr
}

// Handler returns the handler records are sent to.
func (l *Logger) Handler() handler.Handler {
	return l.handler
}

// Sinks returns the stdout and stderr sinks, or nil when a custom
// handler was configured.
func (l *Logger) Sinks() []*handler.Sink {
	return l.sinks
}

// Level returns the effective minimum level.
func (l *Logger) Level() core.Level {
	return l.level
}

// Channel returns the logger's channel.
func (l *Logger) Channel() string {
	return l.channel
}

// Close closes the logger's handler
func (l *Logger) Close() error {
	if l.handler != nil {
		return l.handler.Close()
	}
	return nil
}
