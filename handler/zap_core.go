package handler

import (
	"go.uber.org/zap/zapcore"

	"github.com/Philipp01105/logstream/core"
)

// ZapCore implements zapcore.Core on top of a Handler, so a *zap.Logger
// can write through the sinks:
//
//	logger := zap.New(handler.NewZapCore(router, "api", zapcore.DebugLevel))
type ZapCore struct {
	zapcore.LevelEnabler
	handler Handler
	channel string
	fields  core.Fields
}

// NewZapCore creates a core writing to h. The zap logger name, when set,
// replaces channel.
func NewZapCore(h Handler, channel string, enab zapcore.LevelEnabler) *ZapCore {
	if channel == "" {
		channel = core.DefaultChannel
	}
	return &ZapCore{
		LevelEnabler: enab,
		handler:      h,
		channel:      channel,
	}
}

// With adds structured context to the core.
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	c2 := *c
	c2.fields = appendZapFields(append(core.Fields(nil), c.fields...), fields)
	return &c2
}

// Check adds the core to ce when the entry's level is enabled.
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write converts the entry and hands it to the handler.
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	r := core.NewRecord(ent.Time, ZapLevel(ent.Level), ent.Message)
	r.Channel = c.channel
	if ent.LoggerName != "" {
		r.Channel = ent.LoggerName
	}

	ctx := appendZapFields(append(core.Fields(nil), c.fields...), fields)
	if len(ctx) > 0 {
		r.Context = ctx
	}
	return c.handler.Handle(r)
}

// Sync is a no-op; sinks do not buffer.
func (c *ZapCore) Sync() error {
	return nil
}

// ZapLevel converts a zapcore.Level to a core.Level.
func ZapLevel(l zapcore.Level) core.Level {
	switch {
	case l >= zapcore.FatalLevel:
		return core.EmergencyLevel
	case l >= zapcore.PanicLevel:
		return core.AlertLevel
	case l >= zapcore.DPanicLevel:
		return core.CriticalLevel
	case l >= zapcore.ErrorLevel:
		return core.ErrorLevel
	case l >= zapcore.WarnLevel:
		return core.WarningLevel
	case l >= zapcore.InfoLevel:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

// appendZapFields keeps error values intact so formatters can describe
// them; everything else goes through zap's own map encoder.
func appendZapFields(dst core.Fields, fields []zapcore.Field) core.Fields {
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if err, ok := f.Interface.(error); ok {
				dst = append(dst, core.Any(f.Key, err))
			}
			continue
		}
		enc := zapcore.NewMapObjectEncoder()
		f.AddTo(enc)
		dst = append(dst, core.FieldsFromMap(enc.Fields)...)
	}
	return dst
}
