package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Philipp01105/logstream/ambient"
	"github.com/Philipp01105/logstream/config"
	"github.com/Philipp01105/logstream/core"
	"github.com/Philipp01105/logstream/formatter"
)

func plainFormatter() formatter.Formatter {
	return formatter.NewLineFormatter(formatter.LineConfig{
		Format:                     "%channel%.%level_name%: %message% %context%\n",
		IgnoreEmptyContextAndExtra: true,
		ColorMode:                  formatter.ColorNever,
	})
}

func newTestLogger(min Level) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	l := NewBuilder().
		WithFormatter(plainFormatter()).
		WithWriters(&stdout, &stderr).
		WithMinLevel(min).
		Build()
	return l, &stdout, &stderr
}

func TestLogger_Routing(t *testing.T) {
	l, stdout, stderr := newTestLogger(DebugLevel)

	l.Debug("debug message")
	l.Info("info message")
	l.Warning("warn message")
	l.Error("error message")
	l.Emergency("emergency message")

	out := stdout.String()
	if !strings.Contains(out, "app.DEBUG: debug message") {
		t.Errorf("Expected debug on stdout, got: %s", out)
	}
	if !strings.Contains(out, "app.INFO: info message") {
		t.Errorf("Expected info on stdout, got: %s", out)
	}
	if strings.Contains(out, "warn message") {
		t.Errorf("Warning leaked to stdout: %s", out)
	}

	errOut := stderr.String()
	for _, want := range []string{"app.WARNING: warn message", "app.ERROR: error message", "app.EMERGENCY: emergency message"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("Expected %q on stderr, got: %s", want, errOut)
		}
	}
	if strings.Contains(errOut, "info message") {
		t.Errorf("Info leaked to stderr: %s", errOut)
	}
}

func TestLogger_LevelGate(t *testing.T) {
	l, stdout, _ := newTestLogger(InfoLevel)

	l.Debug("debug message")
	if stdout.Len() > 0 {
		t.Error("Debug message was logged when level is Info")
	}

	l.Info("info message")
	if !strings.Contains(stdout.String(), "info message") {
		t.Errorf("Expected 'info message' in output, got: %s", stdout.String())
	}
}

func TestLogger_MinLevelFallback(t *testing.T) {
	tests := []struct {
		name string
		in   Level
		want Level
	}{
		{"debug kept", DebugLevel, DebugLevel},
		{"info kept", InfoLevel, InfoLevel},
		{"above info", ErrorLevel, InfoLevel},
		{"unknown code", Level(150), InfoLevel},
		{"zero", Level(0), InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _, _ := newTestLogger(tt.in)
			if l.Level() != tt.want {
				t.Errorf("Expected %v, got: %v", tt.want, l.Level())
			}
			min, max := l.Sinks()[0].Levels()
			if min != tt.want || max != InfoLevel {
				t.Errorf("Expected stdout band [%v, INFO], got: [%v, %v]", tt.want, min, max)
			}
		})
	}
}

func TestLogger_NoticeIsNotRouted(t *testing.T) {
	l, stdout, stderr := newTestLogger(DebugLevel)

	l.Notice("notice message")

	assert.Zero(t, stdout.Len())
	assert.Zero(t, stderr.Len())
	assert.Equal(t, uint64(1), l.Sinks()[0].Stats().GetRejected())
	assert.Equal(t, uint64(1), l.Sinks()[1].Stats().GetRejected())
}

func TestLogger_With(t *testing.T) {
	var stdout bytes.Buffer
	l := NewBuilder().
		WithFormatter(plainFormatter()).
		WithWriters(&stdout, nil).
		WithFields(String("app", "test")).
		Build()

	child := l.With(String("request_id", "123"))
	child.Info("test message")

	out := stdout.String()
	if !strings.Contains(out, `"app":"test"`) {
		t.Errorf("Expected app field in output, got: %s", out)
	}
	if !strings.Contains(out, `"request_id":"123"`) {
		t.Errorf("Expected request_id field in output, got: %s", out)
	}

	stdout.Reset()
	l.Info("parent message")
	if strings.Contains(stdout.String(), "request_id") {
		t.Errorf("Child fields leaked into parent: %s", stdout.String())
	}
}

func TestLogger_Named(t *testing.T) {
	l, stdout, _ := newTestLogger(InfoLevel)

	l.Named("billing").Info("charged")
	l.Named("").Info("unchanged")

	out := stdout.String()
	assert.Contains(t, out, "billing.INFO: charged")
	assert.Contains(t, out, "app.INFO: unchanged")
}

func TestLogger_Formatted(t *testing.T) {
	l, stdout, stderr := newTestLogger(DebugLevel)

	l.Debugf("count=%d", 3)
	l.Infof("user %s", "alice")
	l.Warningf("retry %d", 2)
	l.Errorf("failed: %v", errors.New("boom"))

	assert.Contains(t, stdout.String(), "count=3")
	assert.Contains(t, stdout.String(), "user alice")
	assert.Contains(t, stderr.String(), "retry 2")
	assert.Contains(t, stderr.String(), "failed: boom")
}

func TestLogger_LogContext(t *testing.T) {
	var stdout bytes.Buffer
	jc := formatter.DefaultJSONConfig()
	jc.Ambient = ambient.NewProvider(ambient.StaticEnvironment{})
	l := NewBuilder().
		WithFormatter(formatter.NewJSONFormatter(jc)).
		WithWriters(&stdout, nil).
		Build()

	ctx := ambient.WithRequest(context.Background(), ambient.Request{
		Method:  "GET",
		URI:     "/orders?id=7",
		TraceID: "trace-1",
	})
	l.LogContext(ctx, InfoLevel, "order viewed")

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "trace-1", got["trace_id"])
	assert.Equal(t, "GET", got["http.method"])
}

func TestLogger_ErrorHandler(t *testing.T) {
	var reported []error
	l := NewBuilder().
		WithFormatter(plainFormatter()).
		WithWriters(failingWriter{}, failingWriter{}).
		WithErrorHandler(func(err error) { reported = append(reported, err) }).
		Build()

	l.Error("lost")

	require.Len(t, reported, 1)
	assert.Contains(t, reported[0].Error(), "stderr sink")
	assert.Equal(t, uint64(1), l.Sinks()[1].Stats().GetFailed())
}

func TestLogger_CustomHandler(t *testing.T) {
	h := &recordingHandler{}
	l := NewBuilder().WithHandler(h).WithMinLevel(DebugLevel).Build()

	l.Notice("custom")
	l.Debug("detail", Int("n", 1))

	require.Len(t, h.records, 2)
	assert.Equal(t, core.NoticeLevel, h.records[0].Level)
	assert.Nil(t, l.Sinks())

	v, ok := h.records[1].Context.Get("n")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	require.NoError(t, l.Close())
	assert.True(t, h.closed)
}

func TestLogger_Slog(t *testing.T) {
	l, stdout, stderr := newTestLogger(InfoLevel)
	sl := l.With(String("svc", "api")).Slog()

	sl.Debug("hidden")
	sl.Info("from slog", "k", "v")
	sl.Error("slog failure")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "app.INFO: from slog")
	assert.Contains(t, stdout.String(), `"svc":"api"`)
	assert.Contains(t, stdout.String(), `"k":"v"`)
	assert.Contains(t, stderr.String(), "app.ERROR: slog failure")
}

func TestLogger_Zap(t *testing.T) {
	l, stdout, stderr := newTestLogger(InfoLevel)
	z := l.Zap()

	z.Debug("hidden")
	z.Info("from zap")
	z.Warn("zap warning")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "app.INFO: from zap")
	assert.Contains(t, stderr.String(), "app.WARNING: zap warning")
}

func TestLogger_Logrus(t *testing.T) {
	l, stdout, stderr := newTestLogger(InfoLevel)
	lr := l.Logrus()

	lr.Info("from logrus")
	lr.Error("logrus error")

	assert.Contains(t, stdout.String(), "app.INFO: from logrus")
	assert.Contains(t, stderr.String(), "app.ERROR: logrus error")
}

func TestFromConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := &config.Config{
		MinLevel:    "DEBUG",
		Format:      config.FormatJSON,
		Service:     "checkout",
		Environment: "staging",
		Channel:     "orders",
		BatchMode:   "json",
	}

	b, err := FromConfig(cfg, &stdout, &stderr)
	require.NoError(t, err)
	l := b.Build()
	l.Debug("json line")

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "checkout", got["service"])
	assert.Equal(t, "staging", got["environment"])
	assert.Equal(t, "orders", got["channel"])
	assert.Equal(t, "DEBUG", got["level_name"])
	assert.Zero(t, stderr.Len())
}

func TestFromConfig_Line(t *testing.T) {
	var stdout bytes.Buffer
	cfg := &config.Config{
		MinLevel:           "bogus",
		Format:             config.FormatLine,
		Color:              "never",
		LineFormat:         "%level_name% %message%\n",
		IgnoreEmptyContext: true,
	}

	b, err := FromConfig(cfg, &stdout, nil)
	require.NoError(t, err)
	l := b.Build()
	l.Debug("dropped")
	l.Info("kept")

	assert.Equal(t, "INFO kept\n", stdout.String())
	assert.Equal(t, InfoLevel, l.Level())
}

func TestFromConfig_Errors(t *testing.T) {
	_, err := FromConfig(nil, nil, nil)
	assert.Error(t, err)

	_, err = FromConfig(&config.Config{Format: "xml"}, nil, nil)
	assert.Error(t, err)

	_, err = FromConfig(&config.Config{Format: config.FormatLine, Color: "sometimes"}, nil, nil)
	assert.Error(t, err)

	_, err = FromConfig(&config.Config{Format: config.FormatJSON, BatchMode: "csv"}, nil, nil)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"WARN", WarningLevel},
		{"550", AlertLevel},
		{"garbage", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): Expected %v, got: %v", tt.in, tt.want, got)
		}
	}
}

func TestDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, stdout, stderr := newTestLogger(DebugLevel)
	SetDefault(l)

	Debug("pkg debug")
	Info("pkg info")
	Infof("pkg %s", "infof")
	Warning("pkg warning")
	Error("pkg error")
	Errorf("pkg %s", "errorf")
	Critical("pkg critical")
	Alert("pkg alert")
	Emergency("pkg emergency")
	Notice("pkg notice")
	With(String("k", "v")).Info("pkg with")

	for _, want := range []string{"pkg debug", "pkg info", "pkg infof", `"k":"v"`} {
		assert.Contains(t, stdout.String(), want)
	}
	for _, want := range []string{"pkg warning", "pkg error", "pkg errorf", "pkg critical", "pkg alert", "pkg emergency"} {
		assert.Contains(t, stderr.String(), want)
	}
	assert.NotContains(t, stdout.String()+stderr.String(), "pkg notice")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

type recordingHandler struct {
	records []*core.Record
	closed  bool
}

func (h *recordingHandler) Handle(r *core.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) Close() error {
	h.closed = true
	return nil
}
