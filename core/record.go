package core

import (
	"context"
	"reflect"
	"time"
)

// DefaultChannel is used when a record arrives without a channel.
const DefaultChannel = "app"

// Record represents a single log event. Formatters and handlers treat a
// Record as read-only.
type Record struct {
	Time    time.Time
	Channel string
	Level   Level
	// LevelName is the name supplied upstream. It is normally empty and
	// derived from Level; adapters set it when the source carried its own.
	LevelName string
	Message   string
	Context   Fields
	Extra     Fields

	ctx context.Context
}

// NewRecord creates a record with the default channel and empty payloads.
func NewRecord(t time.Time, level Level, msg string) *Record {
	return &Record{
		Time:    t,
		Channel: DefaultChannel,
		Level:   level,
		Message: msg,
	}
}

// Ctx returns the context the record was logged under.
func (r *Record) Ctx() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithCtx returns a shallow copy of r carrying ctx.
func (r *Record) WithCtx(ctx context.Context) *Record {
	r2 := *r
	r2.ctx = ctx
	return &r2
}

// Name returns the level name, preferring the one supplied upstream.
func (r *Record) Name() string {
	if r.LevelName != "" {
		return r.LevelName
	}
	return r.Level.String()
}

// Exception returns the error attached to the record's context and the
// index of the field holding it. The reserved exception key is checked
// first, then every other value. The index is -1 when there is none.
func (r *Record) Exception() (error, int) {
	for i, f := range r.Context {
		if f.Key != ExceptionKey {
			continue
		}
		if err, ok := f.Value.(error); ok && !IsNilError(err) {
			return err, i
		}
	}
	for i, f := range r.Context {
		if err, ok := f.Value.(error); ok && !IsNilError(err) {
			return err, i
		}
	}
	return nil, -1
}

// IsNilError reports whether err is nil or an interface wrapping a nil
// pointer, map, slice, func or channel.
func IsNilError(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// HasException reports whether the context carries an error value.
func (r *Record) HasException() bool {
	_, i := r.Exception()
	return i >= 0
}
