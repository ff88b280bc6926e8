package handler

import (
	"github.com/Philipp01105/logstream/core"
)

// Handler defines the interface for log handlers
type Handler interface {
	// Handle processes a log record. Records the handler does not accept
	// are ignored without error.
	Handle(r *core.Record) error

	// Close closes the handler and releases resources
	Close() error
}

// Filter is implemented by handlers that only take part of the records.
type Filter interface {
	Accepts(r *core.Record) bool
}

// Bubbler is implemented by handlers that decide whether a record they
// accepted is passed on to the handlers after them.
type Bubbler interface {
	Bubble() bool
}
