package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Philipp01105/logstream/stacktrace"
)

// Coder is implemented by errors that carry a numeric code.
type Coder interface {
	Code() int
}

// Tracer is implemented by errors that render their own stack trace.
// Errors created with github.com/cockroachdb/errors carry a stack without
// implementing it.
type Tracer interface {
	Trace() string
}

// exception is what the formatters know about an error in a record.
type exception struct {
	Class   string
	Message string
	Code    int
	File    string
	Line    int
	// Trace is the error's own stack, empty when it carries none.
	Trace string
}

func describe(err error) exception {
	e := exception{
		Class:   className(err),
		Message: err.Error(),
	}

	var c Coder
	if errors.As(err, &c) {
		e.Code = c.Code()
	}
	if file, line, _, ok := errors.GetOneLineSource(err); ok {
		e.File = file
		e.Line = line
	}

	var t Tracer
	if errors.As(err, &t) {
		e.Trace = t.Trace()
	} else {
		e.Trace = reportableTrace(err)
	}
	return e
}

// className names the innermost error's type.
func className(err error) string {
	cause := errors.UnwrapAll(err)
	if cause == nil {
		cause = err
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", cause), "*")
}

// reportableTrace renders the stack recorded by cockroachdb/errors,
// innermost call first.
func reportableTrace(err error) string {
	st := errors.GetReportableStackTrace(err)
	if st == nil || len(st.Frames) == 0 {
		return ""
	}

	frames := make([]stacktrace.Frame, 0, len(st.Frames))
	for i := len(st.Frames) - 1; i >= 0; i-- {
		f := st.Frames[i]
		file := f.AbsPath
		if file == "" {
			file = f.Filename
		}
		fn := f.Function
		if f.Module != "" {
			fn = f.Module + "." + fn
		}
		frames = append(frames, stacktrace.Frame{
			Index:    len(frames),
			File:     file,
			Line:     f.Lineno,
			Function: fn,
		})
	}
	return stacktrace.Lines(frames, "")
}

// String renders the error the way the line formatter embeds it:
//
//	[object] (Class(code: N): message at file:line)
func (e exception) String(withTrace bool) string {
	var b strings.Builder
	b.WriteString("[object] (")
	b.WriteString(e.Class)
	b.WriteString("(code: ")
	b.WriteString(strconv.Itoa(e.Code))
	b.WriteString("): ")
	b.WriteString(e.Message)
	if e.File != "" {
		b.WriteString(" at ")
		b.WriteString(e.File)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(e.Line))
	}
	b.WriteByte(')')
	if withTrace && e.Trace != "" {
		b.WriteString("\n[stacktrace]\n")
		b.WriteString(e.Trace)
		b.WriteByte('\n')
	}
	return b.String()
}
