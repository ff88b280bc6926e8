package core

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/valyala/fastjson"
)

// ErrNotARecord is returned when a JSON line is neither an object nor an
// array of objects.
var ErrNotARecord = errors.New("json line is not a log record")

var parserPool fastjson.ParserPool

// reservedKeys are consumed into Record fields instead of Context.
var reservedKeys = map[string]struct{}{
	"level": {}, "level_name": {}, "message": {}, "msg": {},
	"channel": {}, "logger": {}, "datetime": {}, "time": {}, "timestamp": {},
	"context": {}, "extra": {},
}

// ParseJSONLine decodes one line of JSON log output into records. The line
// may hold a single object or a batch array of objects. Keys other than the
// record keys are collected into Context, which makes output of most JSON
// loggers (zerolog, zap, slog) usable as input.
func ParseJSONLine(line []byte) ([]*Record, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil {
		return nil, errors.Wrap(err, "parsing json line")
	}

	switch v.Type() {
	case fastjson.TypeObject:
		r, err := recordFromValue(v)
		if err != nil {
			return nil, err
		}
		return []*Record{r}, nil
	case fastjson.TypeArray:
		items, _ := v.Array()
		records := make([]*Record, 0, len(items))
		for i, item := range items {
			r, err := recordFromValue(item)
			if err != nil {
				return nil, errors.Wrapf(err, "batch item %d", i)
			}
			records = append(records, r)
		}
		return records, nil
	default:
		return nil, ErrNotARecord
	}
}

func recordFromValue(v *fastjson.Value) (*Record, error) {
	obj, err := v.Object()
	if err != nil {
		return nil, ErrNotARecord
	}

	r := &Record{
		Time:    time.Now(),
		Channel: DefaultChannel,
		Level:   InfoLevel,
	}

	if lv := v.Get("level"); lv != nil {
		if l, ok := levelFromValue(jsonToInterface(lv)); ok {
			r.Level = l
		}
	}
	if name := v.GetStringBytes("level_name"); name != nil {
		r.LevelName = string(name)
	}
	r.Message = firstString(v, "message", "msg")
	if ch := firstString(v, "channel", "logger"); ch != "" {
		r.Channel = ch
	}
	for _, key := range []string{"datetime", "time", "timestamp"} {
		if tv := v.Get(key); tv != nil {
			if t, ok := timeFromValue(jsonToInterface(tv)); ok {
				r.Time = t
				break
			}
		}
	}
	if cv := v.Get("context"); cv != nil && cv.Type() == fastjson.TypeObject {
		r.Context = objectFields(cv)
	}
	if ev := v.Get("extra"); ev != nil && ev.Type() == fastjson.TypeObject {
		r.Extra = objectFields(ev)
	}

	obj.Visit(func(key []byte, val *fastjson.Value) {
		if _, ok := reservedKeys[string(key)]; ok {
			return
		}
		r.Context = append(r.Context, Field{Key: string(key), Value: jsonToInterface(val)})
	})
	return r, nil
}

func firstString(v *fastjson.Value, keys ...string) string {
	for _, k := range keys {
		if b := v.GetStringBytes(k); b != nil {
			return string(b)
		}
	}
	return ""
}

func objectFields(v *fastjson.Value) Fields {
	obj, err := v.Object()
	if err != nil {
		return nil
	}
	var fs Fields
	obj.Visit(func(key []byte, val *fastjson.Value) {
		fs = append(fs, Field{Key: string(key), Value: jsonToInterface(val)})
	})
	return fs
}

// jsonToInterface copies a fastjson value out of parser-owned memory.
// Integral numbers become int64, everything else float64.
func jsonToInterface(v *fastjson.Value) interface{} {
	switch v.Type() {
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return string(b)
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeArray:
		items, _ := v.Array()
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = jsonToInterface(item)
		}
		return out
	case fastjson.TypeObject:
		obj, _ := v.Object()
		out := make(map[string]interface{}, obj.Len())
		obj.Visit(func(key []byte, val *fastjson.Value) {
			out[string(key)] = jsonToInterface(val)
		})
		return out
	default:
		return nil
	}
}
