package handler

import (
	"go.uber.org/multierr"

	"github.com/Philipp01105/logstream/core"
)

// Router hands each record to its handlers in order. A handler that
// accepts a record without bubbling ends the walk.
type Router struct {
	handlers []Handler
}

// NewRouter creates a router over the given handlers
func NewRouter(handlers ...Handler) *Router {
	return &Router{handlers: handlers}
}

// Handle routes a record. Errors from every handler are combined.
func (rt *Router) Handle(r *core.Record) error {
	var err error
	for _, h := range rt.handlers {
		accepted := true
		if f, ok := h.(Filter); ok {
			accepted = f.Accepts(r)
		}
		err = multierr.Append(err, h.Handle(r))
		if !accepted {
			continue
		}
		if b, ok := h.(Bubbler); ok && !b.Bubble() {
			break
		}
	}
	return err
}

// Accepts reports whether any handler would take the record.
func (rt *Router) Accepts(r *core.Record) bool {
	for _, h := range rt.handlers {
		f, ok := h.(Filter)
		if !ok || f.Accepts(r) {
			return true
		}
	}
	return false
}

// Handlers returns the routed handlers.
func (rt *Router) Handlers() []Handler {
	return rt.handlers
}

// Close closes all handlers
func (rt *Router) Close() error {
	var err error
	for _, h := range rt.handlers {
		err = multierr.Append(err, h.Close())
	}
	return err
}
