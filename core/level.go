package core

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Level represents the severity level of a log record.
// The numeric codes are fixed and shared with the aggregators downstream.
type Level int

const (
	// DebugLevel for detailed debugging information
	DebugLevel Level = 100
	// InfoLevel for general informational messages (default)
	InfoLevel Level = 200
	// NoticeLevel for normal but significant events
	NoticeLevel Level = 250
	// WarningLevel for exceptional occurrences that are not errors
	WarningLevel Level = 300
	// ErrorLevel for runtime errors that do not require immediate action
	ErrorLevel Level = 400
	// CriticalLevel for critical conditions
	CriticalLevel Level = 500
	// AlertLevel for conditions where action must be taken immediately
	AlertLevel Level = 550
	// EmergencyLevel for an unusable system
	EmergencyLevel Level = 600
)

// ErrUnknownLevel is returned by ParseLevel for names and codes outside the canonical set.
var ErrUnknownLevel = errors.New("unknown log level")

var levelNames = map[Level]string{
	DebugLevel:     "DEBUG",
	InfoLevel:      "INFO",
	NoticeLevel:    "NOTICE",
	WarningLevel:   "WARNING",
	ErrorLevel:     "ERROR",
	CriticalLevel:  "CRITICAL",
	AlertLevel:     "ALERT",
	EmergencyLevel: "EMERGENCY",
}

// nameLevels also carries the aliases used by other logging libraries.
var nameLevels = map[string]Level{
	"DEBUG":     DebugLevel,
	"TRACE":     DebugLevel,
	"INFO":      InfoLevel,
	"NOTICE":    NoticeLevel,
	"WARNING":   WarningLevel,
	"WARN":      WarningLevel,
	"ERROR":     ErrorLevel,
	"CRITICAL":  CriticalLevel,
	"FATAL":     CriticalLevel,
	"ALERT":     AlertLevel,
	"PANIC":     AlertLevel,
	"EMERGENCY": EmergencyLevel,
}

// severityBands is ordered from the most severe threshold down.
var severityBands = [...]Level{
	EmergencyLevel,
	AlertLevel,
	CriticalLevel,
	ErrorLevel,
	WarningLevel,
	NoticeLevel,
	InfoLevel,
}

// String returns the canonical name of the level. Unknown codes are
// returned as their decimal value so the original signal is kept.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return strconv.Itoa(int(l))
}

// NameOf returns the canonical name for a numeric code.
func NameOf(code int) string {
	return Level(code).String()
}

// Valid reports whether l is one of the eight canonical levels.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// IsAtLeast reports whether l is at or above threshold.
func (l Level) IsAtLeast(threshold Level) bool {
	return l >= threshold
}

// SeverityOf classifies any numeric code into a canonical name using
// threshold bands. It never looks at a level name, so records carrying
// a garbled name still classify by their code.
func SeverityOf(l Level) string {
	for _, band := range severityBands {
		if l >= band {
			return levelNames[band]
		}
	}
	return levelNames[DebugLevel]
}

// LevelFromName resolves a canonical name or alias, case-insensitively.
func LevelFromName(name string) (Level, bool) {
	l, ok := nameLevels[strings.ToUpper(strings.TrimSpace(name))]
	return l, ok
}

// ParseLevel converts a level name or a numeric code to a Level.
func ParseLevel(s string) (Level, error) {
	if l, ok := LevelFromName(s); ok {
		return l, nil
	}
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Level(code).Valid() {
		return 0, errors.Wrapf(ErrUnknownLevel, "%q", s)
	}
	return Level(code), nil
}

// LevelOption is one entry of the selectable level list.
type LevelOption struct {
	Value Level  `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Levels returns the canonical levels in ascending order, suitable for
// presenting as a list of choices for the minimum level setting.
func Levels() []LevelOption {
	return []LevelOption{
		{Value: DebugLevel, Label: "DEBUG"},
		{Value: InfoLevel, Label: "INFO"},
		{Value: NoticeLevel, Label: "NOTICE"},
		{Value: WarningLevel, Label: "WARNING"},
		{Value: ErrorLevel, Label: "ERROR"},
		{Value: CriticalLevel, Label: "CRITICAL"},
		{Value: AlertLevel, Label: "ALERT"},
		{Value: EmergencyLevel, Label: "EMERGENCY"},
	}
}
