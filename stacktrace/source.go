package stacktrace

import "runtime"

// maxDepth bounds how many raw frames are read from the runtime.
const maxDepth = 64

// RawFrame is one unfiltered call site.
type RawFrame struct {
	Function string
	File     string
	Line     int
}

// Source produces the raw call stack. skip counts frames above the caller
// of Callers, so Callers(0) starts at the function that called Callers.
type Source interface {
	Callers(skip int) []RawFrame
}

// RuntimeSource reads the stack of the calling goroutine.
type RuntimeSource struct{}

// Callers implements Source.
func (*RuntimeSource) Callers(skip int) []RawFrame {
	pcs := make([]uintptr, maxDepth)
	// +2 skips runtime.Callers and this method.
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]RawFrame, 0, n)
	for {
		f, more := frames.Next()
		out = append(out, RawFrame{Function: f.Function, File: f.File, Line: f.Line})
		if !more {
			break
		}
	}
	return out
}

// StaticSource returns a fixed stack regardless of skip.
type StaticSource []RawFrame

// Callers implements Source.
func (s StaticSource) Callers(int) []RawFrame {
	return s
}
