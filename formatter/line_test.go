package formatter

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/Philipp01105/logstream/core"
)

func newTestLineFormatter(mutate func(*LineConfig)) *LineFormatter {
	cfg := DefaultLineConfig()
	cfg.Stack = fakeExtractor(8)
	if mutate != nil {
		mutate(&cfg)
	}
	return NewLineFormatter(cfg)
}

func TestLineFormatter_Basic(t *testing.T) {
	f := newTestLineFormatter(nil)

	result, err := f.Format(core.NewRecord(fixedTime(), core.InfoLevel, "test message"))
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	expected := "\x1b[32m[2026-02-18T13:00:00.000000+00:00] app.INFO: test message  \n\x1b[0m"
	if string(result) != expected {
		t.Errorf("Expected %q, got: %q", expected, result)
	}
}

func TestLineFormatter_EveryLevelIsColored(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) { c.IncludeStacktrace = false })

	for _, opt := range core.Levels() {
		t.Run(opt.Label, func(t *testing.T) {
			result, err := f.Format(core.NewRecord(fixedTime(), opt.Value, "order #42 shipped"))
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			output := string(result)
			if !strings.HasPrefix(output, LevelColor(opt.Value)) {
				t.Errorf("Expected color %q at start, got: %q", LevelColor(opt.Value), output)
			}
			if !strings.HasSuffix(output, ansiReset) {
				t.Errorf("Expected reset at end, got: %q", output)
			}
			if !strings.Contains(output, "order #42 shipped") {
				t.Errorf("Expected message in output, got: %q", output)
			}
		})
	}
}

func TestLineFormatter_EmergencyColor(t *testing.T) {
	if got := LevelColor(core.EmergencyLevel); got != "\x1b[97;41m" {
		t.Errorf("Expected white on red, got: %q", got)
	}
	if got := LevelColor(core.AlertLevel); got != "\x1b[91m" {
		t.Errorf("Expected light red, got: %q", got)
	}
}

func TestLineFormatter_StackTraceAtWarning(t *testing.T) {
	f := newTestLineFormatter(nil)

	result, err := f.Format(core.NewRecord(fixedTime(), core.WarningLevel, "disk almost full"))
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	expected := "\x1b[33m[2026-02-18T13:00:00.000000+00:00] app.WARNING: disk almost full\n" +
		"\x1b[2m  " + frame0 + "\n  " + frame1 + "\x1b[0m\n\x1b[0m"
	if string(result) != expected {
		t.Errorf("Expected %q, got: %q", expected, result)
	}
}

func TestLineFormatter_NoStackTraceBelowWarning(t *testing.T) {
	f := newTestLineFormatter(nil)

	for _, level := range []core.Level{core.DebugLevel, core.InfoLevel, core.NoticeLevel} {
		result, _ := f.Format(core.NewRecord(fixedTime(), level, "fine"))
		if strings.Contains(string(result), "#0 ") {
			t.Errorf("Unexpected trace for %s: %q", level, result)
		}
	}
}

func TestLineFormatter_NoStackTraceWhenDisabled(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) { c.IncludeStacktrace = false })

	result, _ := f.Format(core.NewRecord(fixedTime(), core.ErrorLevel, "boom"))
	if strings.Contains(string(result), ansiDim) {
		t.Errorf("Unexpected trace block: %q", result)
	}
}

func TestLineFormatter_EmptyStack(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) { c.Stack = emptyExtractor() })

	result, _ := f.Format(core.NewRecord(fixedTime(), core.ErrorLevel, "boom"))
	if strings.Contains(string(result), ansiDim) {
		t.Errorf("Unexpected trace block for empty stack: %q", result)
	}
}

func TestLineFormatter_ExceptionSuppressesTrace(t *testing.T) {
	f := newTestLineFormatter(nil)

	r := core.NewRecord(fixedTime(), core.ErrorLevel, "payment failed")
	r.Context = core.Fields{core.Any("cause", &paymentError{msg: "card declined", code: 402})}

	result, err := f.Format(r)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	output := string(result)
	if strings.Contains(output, ansiDim) {
		t.Errorf("Unexpected trace block: %q", output)
	}
	want := `{"cause":"[object] (formatter.paymentError(code: 402): card declined)"}`
	if !strings.Contains(output, want) {
		t.Errorf("Expected %s in output, got: %q", want, output)
	}
}

func TestLineFormatter_ExceptionWithStack(t *testing.T) {
	f := newTestLineFormatter(nil)

	r := core.NewRecord(fixedTime(), core.ErrorLevel, "payment failed")
	r.Context = core.Fields{core.Err(errors.Wrap(&paymentError{msg: "card declined", code: 402}, "charging"))}

	result, err := f.Format(r)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	output := string(result)
	if !strings.Contains(output, "formatter.paymentError(code: 402): charging: card declined at ") {
		t.Errorf("Expected error description, got: %q", output)
	}
	if !strings.Contains(output, "line_test.go:") {
		t.Errorf("Expected error source location, got: %q", output)
	}
	if !strings.Contains(output, "\n[stacktrace]\n#0 ") {
		t.Errorf("Expected embedded stack trace, got: %q", output)
	}
}

func TestLineFormatter_UnknownLevel(t *testing.T) {
	f := newTestLineFormatter(nil)

	result, err := f.Format(core.NewRecord(fixedTime(), core.Level(450), "odd"))
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	expected := "[2026-02-18T13:00:00.000000+00:00] app.450: odd  \n"
	if string(result) != expected {
		t.Errorf("Expected %q, got: %q", expected, result)
	}
}

func TestLineFormatter_LevelNameDrivesColor(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) { c.IncludeStacktrace = false })

	r := core.NewRecord(fixedTime(), core.InfoLevel, "renamed")
	r.LevelName = "NOPE"

	result, _ := f.Format(r)
	if bytes.HasPrefix(result, []byte("\x1b[")) {
		t.Errorf("Expected no color for unknown level name, got: %q", result)
	}
}

func TestLineFormatter_ContextAndExtra(t *testing.T) {
	f := newTestLineFormatter(nil)

	r := core.NewRecord(fixedTime(), core.InfoLevel, "order placed")
	r.Channel = "checkout"
	r.Context = core.Fields{core.Int("order_id", 12345), core.String("customer_email", "a@b.com")}
	r.Extra = core.Fields{core.String("uid", "4f2a")}

	result, _ := f.Format(r)
	expected := "\x1b[32m[2026-02-18T13:00:00.000000+00:00] checkout.INFO: order placed " +
		`{"order_id":12345,"customer_email":"a@b.com"} {"uid":"4f2a"}` + "\n\x1b[0m"
	if string(result) != expected {
		t.Errorf("Expected %q, got: %q", expected, result)
	}
}

func TestLineFormatter_EmptyContextRendered(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) {
		c.IgnoreEmptyContextAndExtra = false
		c.ColorMode = ColorNever
	})

	result, _ := f.Format(core.NewRecord(fixedTime(), core.InfoLevel, "hi"))
	expected := "[2026-02-18T13:00:00.000000+00:00] app.INFO: hi [] []\n"
	if string(result) != expected {
		t.Errorf("Expected %q, got: %q", expected, result)
	}
}

func TestLineFormatter_InlineLineBreaks(t *testing.T) {
	r := core.NewRecord(fixedTime(), core.InfoLevel, "first\nsecond")
	r.Context = core.Fields{core.String("note", "a\nb")}

	allowed := newTestLineFormatter(func(c *LineConfig) { c.ColorMode = ColorNever })
	result, _ := allowed.Format(r)
	if want := "first\nsecond {\"note\":\"a\nb\"}"; !strings.Contains(string(result), want) {
		t.Errorf("Expected %q in output, got: %q", want, result)
	}

	flattened := newTestLineFormatter(func(c *LineConfig) {
		c.ColorMode = ColorNever
		c.AllowInlineLineBreaks = false
	})
	result, _ = flattened.Format(r)
	if want := `first second {"note":"a\nb"}`; !strings.Contains(string(result), want) {
		t.Errorf("Expected %q in output, got: %q", want, result)
	}
	if strings.Count(string(result), "\n") != 1 {
		t.Errorf("Expected a single line, got: %q", result)
	}
}

func TestLineFormatter_KeyedPlaceholders(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) {
		c.ColorMode = ColorNever
		c.Format = "%level_name% %message% user=%extra.uid% order=%context.order_id% %context.missing%%context%\n"
	})

	r := core.NewRecord(fixedTime(), core.InfoLevel, "placed")
	r.Context = core.Fields{core.Int("order_id", 7), core.Bool("express", true)}
	r.Extra = core.Fields{core.String("uid", "u-1")}

	result, _ := f.Format(r)
	expected := `INFO placed user=u-1 order=7 {"express":true}` + "\n"
	if string(result) != expected {
		t.Errorf("Expected %q, got: %q", expected, result)
	}
}

func TestLineFormatter_CustomDateFormat(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) {
		c.ColorMode = ColorNever
		c.DateFormat = "2006-01-02 15:04"
		c.Format = "%datetime%|%level%|%message%\n"
	})

	result, _ := f.Format(core.NewRecord(fixedTime(), core.NoticeLevel, "n"))
	if string(result) != "2026-02-18 13:00|250|n\n" {
		t.Errorf("Unexpected output: %q", result)
	}
}

func TestLineFormatter_ColorModes(t *testing.T) {
	r := core.NewRecord(fixedTime(), core.InfoLevel, "plain")

	never := newTestLineFormatter(func(c *LineConfig) { c.ColorMode = ColorNever })
	result, _ := never.Format(r)
	if bytes.Contains(result, []byte("\x1b[")) {
		t.Errorf("Expected no escape codes, got: %q", result)
	}

	auto := newTestLineFormatter(func(c *LineConfig) {
		c.ColorMode = ColorAuto
		c.Output = &bytes.Buffer{}
	})
	result, _ = auto.Format(r)
	if bytes.Contains(result, []byte("\x1b[")) {
		t.Errorf("Expected no escape codes for a non-terminal, got: %q", result)
	}
}

func TestLineFormatter_FormatTo(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) { c.ColorMode = ColorNever })
	r := core.NewRecord(fixedTime(), core.InfoLevel, "direct")

	var buf bytes.Buffer
	if err := f.FormatTo(r, &buf); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	expected, _ := f.Format(r)
	if buf.String() != string(expected) {
		t.Errorf("Expected %q, got: %q", expected, buf.String())
	}
}

func TestLineFormatter_EncodingError(t *testing.T) {
	f := newTestLineFormatter(nil)

	r := core.NewRecord(fixedTime(), core.InfoLevel, "nan")
	r.Context = core.Fields{core.Any("ratio", []interface{}{math.NaN()})}

	result, err := f.Format(r)
	if err == nil {
		t.Fatalf("Expected error, got output: %q", result)
	}
	if result != nil {
		t.Errorf("Expected no output on error, got: %q", result)
	}
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAlways, "AUTO": ColorAuto, "never": ColorNever} {
		got, err := ParseColorMode(in)
		if err != nil || got != want {
			t.Errorf("ParseColorMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseColorMode("rainbow"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func BenchmarkLineFormatter(b *testing.B) {
	f := NewLineFormatter(DefaultLineConfig())
	r := core.NewRecord(fixedTime(), core.InfoLevel, "test message")
	r.Context = core.Fields{core.String("key1", "value1"), core.Int("key2", 42)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Format(r)
	}
}

func TestLineFormatter_TypedNilError(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) { c.ColorMode = ColorNever })

	var pe *paymentError
	r := core.NewRecord(fixedTime(), core.ErrorLevel, "charge failed")
	r.Context = core.Fields{core.Any("cause", pe)}

	var result []byte
	var err error
	func() {
		defer func() {
			if p := recover(); p != nil {
				t.Fatalf("Format() panicked: %v", p)
			}
		}()
		result, err = f.Format(r)
	}()
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if want := `app.ERROR: charge failed {"cause":null}`; !strings.Contains(string(result), want) {
		t.Errorf("Expected %q in output, got: %q", want, result)
	}
	if r.HasException() {
		t.Error("typed nil error reported as exception")
	}
}

func TestLineFormatter_MessageEscapesKept(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) {
		c.ColorMode = ColorNever
		c.IncludeStacktrace = false
	})

	r := core.NewRecord(fixedTime(), core.InfoLevel, `{"path":"C:\new"}`)
	r.Context = core.Fields{core.String("raw", `[a\nb]`)}

	result, _ := f.Format(r)
	expected := `[2026-02-18T13:00:00.000000+00:00] app.INFO: {"path":"C:\new"} {"raw":"[a\\nb]"} ` + "\n"
	if string(result) != expected {
		t.Errorf("Expected %q, got: %q", expected, result)
	}
}

func TestLineFormatter_AliasNamesUncolored(t *testing.T) {
	f := newTestLineFormatter(func(c *LineConfig) { c.IncludeStacktrace = false })

	for _, name := range []string{"FATAL", "warn", "info", "Error"} {
		r := core.NewRecord(fixedTime(), core.ErrorLevel, "renamed")
		r.LevelName = name

		result, _ := f.Format(r)
		if bytes.HasPrefix(result, []byte("\x1b[")) {
			t.Errorf("Expected no color for level name %q, got: %q", name, result)
		}
	}

	r := core.NewRecord(fixedTime(), core.WarningLevel, "canonical")
	result, _ := f.Format(r)
	if !bytes.HasPrefix(result, []byte(LevelColor(core.WarningLevel))) {
		t.Errorf("Expected warning color, got: %q", result)
	}
}
