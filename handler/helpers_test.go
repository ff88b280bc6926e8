package handler

import (
	"errors"
	"sync"
	"time"

	"github.com/Philipp01105/logstream/core"
)

// messageFormatter renders "<LEVEL> <message>\n".
type messageFormatter struct{}

func (messageFormatter) Format(r *core.Record) ([]byte, error) {
	return []byte(r.Name() + " " + r.Message + "\n"), nil
}

// failingFormatter always fails.
type failingFormatter struct{}

func (failingFormatter) Format(*core.Record) ([]byte, error) {
	return nil, errors.New("cannot encode")
}

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

// captureHandler keeps every record it is given.
type captureHandler struct {
	mu      sync.Mutex
	records []*core.Record
	err     error
}

func (c *captureHandler) Handle(r *core.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	return c.err
}

func (c *captureHandler) Close() error { return nil }

func (c *captureHandler) last() *core.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.records) == 0 {
		return nil
	}
	return c.records[len(c.records)-1]
}

func record(level core.Level, msg string) *core.Record {
	return core.NewRecord(time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC), level, msg)
}
