package handler

import (
	"github.com/sirupsen/logrus"

	"github.com/Philipp01105/logstream/core"
)

// LogrusHook forwards logrus entries to a Handler. Pair it with
// logger.SetOutput(io.Discard) so entries are not written twice.
type LogrusHook struct {
	handler Handler
	channel string
}

// NewLogrusHook creates a hook writing to h under channel.
func NewLogrusHook(h Handler, channel string) *LogrusHook {
	if channel == "" {
		channel = core.DefaultChannel
	}
	return &LogrusHook{handler: h, channel: channel}
}

// Levels implements logrus.Hook.
func (h *LogrusHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *LogrusHook) Fire(e *logrus.Entry) error {
	r := core.NewRecord(e.Time, LogrusLevel(e.Level), e.Message)
	r.Channel = h.channel
	r.Context = core.FieldsFromMap(e.Data)
	if e.Context != nil {
		r = r.WithCtx(e.Context)
	}
	return h.handler.Handle(r)
}

// LogrusLevel converts a logrus.Level to a core.Level.
func LogrusLevel(l logrus.Level) core.Level {
	switch l {
	case logrus.PanicLevel:
		return core.EmergencyLevel
	case logrus.FatalLevel:
		return core.AlertLevel
	case logrus.ErrorLevel:
		return core.ErrorLevel
	case logrus.WarnLevel:
		return core.WarningLevel
	case logrus.InfoLevel:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}
