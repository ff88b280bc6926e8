package core

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ExceptionKey is the reserved context key for an error attached to a record.
const ExceptionKey = "exception"

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// Fields is an ordered set of key-value pairs. Keys are expected to be
// unique; the first occurrence wins on lookup.
type Fields []Field

// String creates a string field
func String(key, val string) Field {
	return Field{Key: key, Value: val}
}

// Int creates an int field
func Int(key string, val int) Field {
	return Field{Key: key, Value: val}
}

// Int64 creates an int64 field
func Int64(key string, val int64) Field {
	return Field{Key: key, Value: val}
}

// Float64 creates a float64 field
func Float64(key string, val float64) Field {
	return Field{Key: key, Value: val}
}

// Bool creates a bool field
func Bool(key string, val bool) Field {
	return Field{Key: key, Value: val}
}

// Time creates a time field
func Time(key string, val time.Time) Field {
	return Field{Key: key, Value: val}
}

// Duration creates a duration field
func Duration(key string, val time.Duration) Field {
	return Field{Key: key, Value: val}
}

// Err creates a field holding err under the reserved exception key
func Err(err error) Field {
	return Field{Key: ExceptionKey, Value: err}
}

// Any creates a field with any value
func Any(key string, val interface{}) Field {
	return Field{Key: key, Value: val}
}

// FieldsFromMap converts a map into Fields sorted by key, since map
// iteration order is not stable.
func FieldsFromMap(m map[string]interface{}) Fields {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fs := make(Fields, 0, len(keys))
	for _, k := range keys {
		fs = append(fs, Field{Key: k, Value: m[k]})
	}
	return fs
}

// Get returns the value stored under key.
func (fs Fields) Get(key string) (interface{}, bool) {
	for _, f := range fs {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Without returns a copy of fs with the i-th field removed.
func (fs Fields) Without(i int) Fields {
	if i < 0 || i >= len(fs) {
		return fs
	}
	out := make(Fields, 0, len(fs)-1)
	out = append(out, fs[:i]...)
	return append(out, fs[i+1:]...)
}

// Map returns the fields as a plain map.
func (fs Fields) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(fs))
	for _, f := range fs {
		if _, ok := m[f.Key]; !ok {
			m[f.Key] = f.Value
		}
	}
	return m
}

// IsScalar reports whether the field holds a string, bool, or number.
func (f Field) IsScalar() bool {
	switch f.Value.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// StringValue returns the string representation of a field's value
func (f Field) StringValue() string {
	switch v := f.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case time.Duration:
		return v.String()
	case error:
		if IsNilError(v) {
			return "<nil>"
		}
		return v.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}
