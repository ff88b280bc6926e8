package formatter

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/Philipp01105/logstream/core"
)

// appendJSONString writes a JSON-escaped string (without surrounding quotes) to the buffer.
// Invalid UTF-8 is replaced with U+FFFD.
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			if start < i {
				buf.WriteString(s[start:i])
			}
			switch c {
			case '"':
				buf.WriteString(`\"`)
			case '\\':
				buf.WriteString(`\\`)
			case '\n':
				buf.WriteString(`\n`)
			case '\r':
				buf.WriteString(`\r`)
			case '\t':
				buf.WriteString(`\t`)
			default:
				buf.WriteString(`\u00`)
				buf.WriteByte(hexChars[c>>4])
				buf.WriteByte(hexChars[c&0x0f])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			if start < i {
				buf.WriteString(s[start:i])
			}
			buf.WriteString(`\ufffd`)
			i += size
			start = i
			continue
		}
		i += size
	}
	if start < len(s) {
		buf.WriteString(s[start:])
	}
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

func appendQuoted(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	appendJSONString(buf, s)
	buf.WriteByte('"')
}

// valueEncoder writes arbitrary values as JSON. convert, when set, replaces
// values before encoding (errors and times are rendered differently by
// each formatter).
type valueEncoder struct {
	convert func(v interface{}) (interface{}, bool)
}

func (e valueEncoder) append(buf *bytes.Buffer, v interface{}) error {
	if e.convert != nil {
		if c, ok := e.convert(v); ok {
			v = c
		}
	}

	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		appendQuoted(buf, val)
	case bool:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), val))
	case int:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(val), 10))
	case int64:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), val, 10))
	case core.Fields:
		return e.appendFields(buf, val)
	case []core.Field:
		return e.appendFields(buf, core.Fields(val))
	case map[string]interface{}:
		return e.appendFields(buf, core.FieldsFromMap(val))
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.append(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case error:
		if core.IsNilError(val) {
			buf.WriteString("null")
			break
		}
		appendQuoted(buf, val.Error())
	case time.Time:
		appendQuoted(buf, val.Format(time.RFC3339Nano))
	default:
		return appendMarshaled(buf, val)
	}
	return nil
}

// appendFields writes fs as a JSON object, keeping field order.
func (e valueEncoder) appendFields(buf *bytes.Buffer, fs core.Fields) error {
	buf.WriteByte('{')
	for i, f := range fs {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendQuoted(buf, f.Key)
		buf.WriteByte(':')
		if err := e.append(buf, f.Value); err != nil {
			return errors.Wrapf(err, "encoding %q", f.Key)
		}
	}
	buf.WriteByte('}')
	return nil
}

// appendMarshaled falls back to encoding/json. Nothing is written on error.
func appendMarshaled(buf *bytes.Buffer, v interface{}) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encoding value")
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}
