package stacktrace

import (
	"strconv"
	"strings"
)

const modulePath = "github.com/Philipp01105/logstream/"

const (
	// TextFrames is the frame limit used by the line formatter.
	TextFrames = 8
	// JSONFrames is the frame limit used by the JSON formatter.
	JSONFrames = 10
	// MaxPathLength is the length above which paths are collapsed.
	MaxPathLength = 60
)

// DefaultSkipPrefixes matches the logging pipeline's own frames and the
// logging libraries that feed it.
var DefaultSkipPrefixes = []string{
	modulePath + "core.",
	modulePath + "stacktrace.",
	modulePath + "ambient.",
	modulePath + "formatter.",
	modulePath + "handler.",
	modulePath + "logger.",
	"log/slog.",
	"log.",
	"go.uber.org/zap",
	"github.com/sirupsen/logrus.",
	"runtime.",
}

// DefaultRootPrefixes are stripped from the front of file paths.
var DefaultRootPrefixes = []string{
	"/var/www/html/",
	"/app/",
}

// Frame is one retained call site.
type Frame struct {
	Index    int
	File     string
	Line     int
	Function string
}

// String renders the frame as "#<index> <file>:<line> <function>()".
func (f Frame) String() string {
	var b strings.Builder
	b.Grow(len(f.File) + len(f.Function) + 16)
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(f.Index))
	b.WriteByte(' ')
	b.WriteString(f.File)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(f.Line))
	b.WriteByte(' ')
	b.WriteString(f.Function)
	b.WriteString("()")
	return b.String()
}

// Extractor filters and shortens a call stack.
// The zero value keeps every frame from the runtime unfiltered.
type Extractor struct {
	MaxFrames     int
	SkipPrefixes  []string
	RootPrefixes  []string
	MaxPathLength int
	Source        Source
}

// New returns an Extractor with the default prefixes and at most maxFrames frames.
func New(maxFrames int) *Extractor {
	return &Extractor{
		MaxFrames:     maxFrames,
		SkipPrefixes:  DefaultSkipPrefixes,
		RootPrefixes:  DefaultRootPrefixes,
		MaxPathLength: MaxPathLength,
		Source:        &RuntimeSource{},
	}
}

// Extract returns the filtered stack of its caller. skip drops that many
// additional frames above the caller before filtering.
func (e *Extractor) Extract(skip int) []Frame {
	src := e.Source
	if src == nil {
		src = &RuntimeSource{}
	}
	// +1 skips Extract itself.
	raw := src.Callers(skip + 1)

	var frames []Frame
	for _, rf := range raw {
		if e.MaxFrames > 0 && len(frames) >= e.MaxFrames {
			break
		}
		if e.skipped(rf.Function) {
			continue
		}
		frames = append(frames, Frame{
			Index:    len(frames),
			File:     e.shorten(orUnknown(rf.File)),
			Line:     rf.Line,
			Function: orUnknown(rf.Function),
		})
	}
	return frames
}

func (e *Extractor) skipped(function string) bool {
	for _, p := range e.SkipPrefixes {
		if strings.HasPrefix(function, p) {
			return true
		}
	}
	return false
}

func (e *Extractor) shorten(path string) string {
	limit := e.MaxPathLength
	if limit <= 0 {
		limit = MaxPathLength
	}
	return shortenPath(path, e.RootPrefixes, limit)
}

// ShortenPath strips the first matching default root prefix from path, or
// collapses a path longer than 60 characters to its last three segments.
func ShortenPath(path string) string {
	return shortenPath(path, DefaultRootPrefixes, MaxPathLength)
}

func shortenPath(path string, roots []string, limit int) string {
	for _, prefix := range roots {
		if strings.HasPrefix(path, prefix) {
			return path[len(prefix):]
		}
	}
	if len(path) <= limit {
		return path
	}
	parts := strings.Split(path, "/")
	if len(parts) <= 3 {
		return path
	}
	return ".../" + strings.Join(parts[len(parts)-3:], "/")
}

// Lines renders frames one per line, each prefixed with indent.
func Lines(frames []Frame, indent string) string {
	var b strings.Builder
	for i, f := range frames {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(indent)
		b.WriteString(f.String())
	}
	return b.String()
}

// Strings renders each frame with Frame.String.
func Strings(frames []Frame) []string {
	if len(frames) == 0 {
		return nil
	}
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.String()
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
