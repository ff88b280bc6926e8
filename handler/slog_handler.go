package handler

import (
	"context"
	"log/slog"

	"github.com/Philipp01105/logstream/core"
)

// slog levels for the severities slog has no constant for.
const (
	SlogLevelNotice    = slog.Level(2)
	SlogLevelCritical  = slog.Level(12)
	SlogLevelAlert     = slog.Level(16)
	SlogLevelEmergency = slog.Level(20)
)

// SlogHandler is an adapter that implements slog.Handler using a Handler.
// This allows the pipeline to be used as a drop-in backend for log/slog.
type SlogHandler struct {
	handler Handler
	level   core.Level
	channel string
	attrs   core.Fields
	group   string
}

// NewSlogHandler creates a new slog.Handler adapter wrapping the given Handler.
// Records below level are dropped before they reach h.
func NewSlogHandler(h Handler, channel string, level core.Level) *SlogHandler {
	if channel == "" {
		channel = core.DefaultChannel
	}
	return &SlogHandler{
		handler: h,
		level:   level,
		channel: channel,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return SlogLevel(level) >= s.level
}

// Handle converts a slog.Record to a core.Record and passes it on. The
// context travels with the record for request metadata.
func (s *SlogHandler) Handle(ctx context.Context, record slog.Record) error {
	r := core.NewRecord(record.Time, SlogLevel(record.Level), record.Message)
	r.Channel = s.channel

	fields := make(core.Fields, 0, len(s.attrs)+record.NumAttrs())
	fields = append(fields, s.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, s.group, a)
		return true
	})
	if len(fields) > 0 {
		r.Context = fields
	}

	if ctx != nil {
		r = r.WithCtx(ctx)
	}
	return s.handler.Handle(r)
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make(core.Fields, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		newAttrs = appendAttr(newAttrs, s.group, a)
	}
	s2 := *s
	s2.attrs = newAttrs
	return &s2
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	s2 := *s
	s2.group = joinKey(s.group, name)
	return &s2
}

// SlogLevel converts a slog.Level to a core.Level. The slog gaps of four
// are split between the extra severities.
func SlogLevel(level slog.Level) core.Level {
	switch {
	case level >= SlogLevelEmergency:
		return core.EmergencyLevel
	case level >= SlogLevelAlert:
		return core.AlertLevel
	case level >= SlogLevelCritical:
		return core.CriticalLevel
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarningLevel
	case level >= SlogLevelNotice:
		return core.NoticeLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

// appendAttr converts a slog.Attr to fields, flattening groups into
// dotted keys.
func appendAttr(fields core.Fields, group string, a slog.Attr) core.Fields {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	key := joinKey(group, a.Key)
	switch a.Value.Kind() {
	case slog.KindGroup:
		// An inline group (empty key) keeps the outer prefix.
		for _, ga := range a.Value.Group() {
			fields = appendAttr(fields, key, ga)
		}
		return fields
	case slog.KindString:
		return append(fields, core.String(key, a.Value.String()))
	case slog.KindInt64:
		return append(fields, core.Int64(key, a.Value.Int64()))
	case slog.KindUint64:
		return append(fields, core.Any(key, a.Value.Uint64()))
	case slog.KindFloat64:
		return append(fields, core.Float64(key, a.Value.Float64()))
	case slog.KindBool:
		return append(fields, core.Bool(key, a.Value.Bool()))
	case slog.KindTime:
		return append(fields, core.Time(key, a.Value.Time()))
	case slog.KindDuration:
		return append(fields, core.Duration(key, a.Value.Duration()))
	default:
		return append(fields, core.Any(key, a.Value.Any()))
	}
}

func joinKey(group, key string) string {
	if group == "" {
		return key
	}
	if key == "" {
		return group
	}
	return group + "." + key
}
