package core

import (
	"context"
	"math"
	"strconv"
	"time"
)

// FromMap builds a Record from the loosely-typed record shape used by
// older producers:
//
//	level, level_name, message, context, extra, channel, datetime
//
// Missing keys get defaults: level 200, channel "app", the current time,
// and empty context and extra. An unknown numeric level is kept as-is.
func FromMap(m map[string]interface{}) *Record {
	r := &Record{
		Time:    time.Now(),
		Channel: DefaultChannel,
		Level:   InfoLevel,
	}

	if v, ok := m["level"]; ok {
		if l, ok := levelFromValue(v); ok {
			r.Level = l
		}
	}
	if v, ok := m["level_name"].(string); ok {
		r.LevelName = v
	}
	if v, ok := m["message"].(string); ok {
		r.Message = v
	}
	if v, ok := m["channel"].(string); ok && v != "" {
		r.Channel = v
	}
	if v, ok := m["datetime"]; ok {
		if t, ok := timeFromValue(v); ok {
			r.Time = t
		}
	}
	r.Context = fieldsFromValue(m["context"])
	r.Extra = fieldsFromValue(m["extra"])

	if ctx, ok := m["ctx"].(context.Context); ok {
		r.ctx = ctx
	}
	return r
}

func levelFromValue(v interface{}) (Level, bool) {
	switch l := v.(type) {
	case Level:
		return l, true
	case int:
		return Level(l), true
	case int64:
		return Level(l), true
	case float64:
		if math.Trunc(l) != l {
			return 0, false
		}
		return Level(l), true
	case string:
		if lv, ok := LevelFromName(l); ok {
			return lv, true
		}
		if code, err := strconv.Atoi(l); err == nil {
			return Level(code), true
		}
	}
	return 0, false
}

func timeFromValue(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	case int64:
		return time.Unix(t, 0), true
	case int:
		return time.Unix(int64(t), 0), true
	case float64:
		sec, frac := math.Modf(t)
		return time.Unix(int64(sec), int64(frac*1e9)), true
	}
	return time.Time{}, false
}

func fieldsFromValue(v interface{}) Fields {
	switch fs := v.(type) {
	case Fields:
		return fs
	case []Field:
		return Fields(fs)
	case map[string]interface{}:
		return FieldsFromMap(fs)
	}
	return nil
}
