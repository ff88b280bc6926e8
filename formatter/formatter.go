package formatter

import (
	"bytes"
	"io"
	"sync"

	"github.com/Philipp01105/logstream/core"
)

// Formatter defines the interface for log formatters
type Formatter interface {
	// Format renders a record into bytes. On error nothing is returned.
	Format(r *core.Record) ([]byte, error)
}

// WriterFormatter is an optional interface that formatters can implement
// to write directly to a writer without intermediate byte slice allocation.
// The record is written with a single Write call, and only once formatting
// has succeeded.
type WriterFormatter interface {
	FormatTo(r *core.Record, w io.Writer) error
}

// traceMinLevel is the lowest level that gets a synthesized stack trace.
const traceMinLevel = core.WarningLevel

// wantsTrace reports whether a record at level l gets a synthesized trace.
// Unknown codes never do.
func wantsTrace(l core.Level) bool {
	return l.Valid() && l.IsAtLeast(traceMinLevel)
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(512)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// copyBytes detaches the buffer contents from the pool.
func copyBytes(buf *bytes.Buffer) []byte {
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}
