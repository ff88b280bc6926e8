package logger

import "github.com/Philipp01105/logstream/core"

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	DebugLevel     = core.DebugLevel
	InfoLevel      = core.InfoLevel
	NoticeLevel    = core.NoticeLevel
	WarningLevel   = core.WarningLevel
	ErrorLevel     = core.ErrorLevel
	CriticalLevel  = core.CriticalLevel
	AlertLevel     = core.AlertLevel
	EmergencyLevel = core.EmergencyLevel
)

// ParseLevel converts a level name or code to a Level. Unknown input
// yields InfoLevel.
func ParseLevel(s string) Level {
	l, err := core.ParseLevel(s)
	if err != nil {
		return InfoLevel
	}
	return l
}
