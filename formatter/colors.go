package formatter

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/Philipp01105/logstream/core"
)

// ColorMode controls ANSI coloring of the line formatter.
type ColorMode string

const (
	ColorAlways ColorMode = "always"
	// ColorAuto colors only when the output is a terminal and NO_COLOR is unset.
	ColorAuto  ColorMode = "auto"
	ColorNever ColorMode = "never"
)

// ParseColorMode accepts "always", "auto" or "never". Empty means always.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ColorAlways, nil
	case ColorAlways, ColorAuto, ColorNever:
		return m, nil
	default:
		return "", errors.Newf("unknown color mode %q", s)
	}
}

var (
	ansiReset = sgr(color.Reset)
	ansiDim   = sgr(color.Faint)
)

// levelColors maps each canonical level to its escape sequence.
var levelColors = map[core.Level]string{
	core.DebugLevel:     sgr(color.FgCyan),
	core.InfoLevel:      sgr(color.FgGreen),
	core.NoticeLevel:    sgr(color.FgBlue),
	core.WarningLevel:   sgr(color.FgYellow),
	core.ErrorLevel:     sgr(color.FgRed),
	core.CriticalLevel:  sgr(color.FgMagenta),
	core.AlertLevel:     sgr(color.FgHiRed),
	core.EmergencyLevel: sgr(color.FgHiWhite, color.BgRed),
}

// sgr builds a Select Graphic Rendition sequence such as "\x1b[97;41m".
func sgr(attrs ...color.Attribute) string {
	codes := make([]string, len(attrs))
	for i, a := range attrs {
		codes[i] = strconv.Itoa(int(a))
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// colorsByName keys levelColors by canonical name.
var colorsByName = func() map[string]string {
	m := make(map[string]string, len(levelColors))
	for l, c := range levelColors {
		m[l.String()] = c
	}
	return m
}()

// colorFor looks the color up by exact canonical level name. Aliases and
// other spellings get none.
func colorFor(name string) string {
	return colorsByName[name]
}

// LevelColor returns the escape sequence used for level l, or "".
func LevelColor(l core.Level) string {
	return levelColors[l]
}

func colorEnabled(mode ColorMode, out io.Writer) bool {
	switch mode {
	case ColorNever:
		return false
	case ColorAuto:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		f, ok := out.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	default:
		return true
	}
}
