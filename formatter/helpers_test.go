package formatter

import (
	"time"

	"github.com/Philipp01105/logstream/ambient"
	"github.com/Philipp01105/logstream/stacktrace"
)

const (
	frame0 = "#0 internal/orders/service.go:42 example.com/shop/internal/orders.(*Service).Place()"
	frame1 = "#1 cmd/shop/main.go:9 main.main()"
)

func fixedTime() time.Time {
	return time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC)
}

func fakeExtractor(max int) *stacktrace.Extractor {
	return &stacktrace.Extractor{
		MaxFrames:    max,
		SkipPrefixes: stacktrace.DefaultSkipPrefixes,
		RootPrefixes: stacktrace.DefaultRootPrefixes,
		Source: stacktrace.StaticSource{
			{Function: "github.com/Philipp01105/logstream/handler.(*Sink).Handle", File: "/app/handler/sink.go", Line: 88},
			{Function: "example.com/shop/internal/orders.(*Service).Place", File: "/app/internal/orders/service.go", Line: 42},
			{Function: "main.main", File: "/app/cmd/shop/main.go", Line: 9},
		},
	}
}

func emptyExtractor() *stacktrace.Extractor {
	return &stacktrace.Extractor{Source: stacktrace.StaticSource(nil)}
}

func cliProvider() *ambient.Provider {
	return ambient.NewProvider(ambient.StaticEnvironment{ScriptName: "bin/shop"})
}

// paymentError carries a code but no stack.
type paymentError struct {
	msg  string
	code int
}

func (e *paymentError) Error() string { return e.msg }
func (e *paymentError) Code() int     { return e.code }

// tracedError renders its own trace.
type tracedError struct {
	msg   string
	code  int
	trace string
}

func (e *tracedError) Error() string { return e.msg }
func (e *tracedError) Code() int     { return e.code }
func (e *tracedError) Trace() string { return e.trace }
