package formatter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Philipp01105/logstream/core"
)

var leftoverPlaceholder = regexp.MustCompile(`%(?:extra|context)\..+?%`)

// render substitutes the template placeholders for r.
func (f *LineFormatter) render(r *core.Record) (string, error) {
	out := f.cfg.Format
	extra, ctx := r.Extra, r.Context

	var err error
	if out, extra, err = f.replaceKeyed(out, "extra", extra); err != nil {
		return "", err
	}
	if out, ctx, err = f.replaceKeyed(out, "context", ctx); err != nil {
		return "", err
	}

	pairs := []string{
		"%datetime%", f.replaceNewlines(r.Time.Format(f.cfg.DateFormat)),
		"%channel%", f.replaceNewlines(r.Channel),
		"%level_name%", f.replaceNewlines(r.Name()),
		"%level%", strconv.Itoa(int(r.Level)),
		"%message%", f.replaceNewlines(r.Message),
	}
	for _, p := range []struct {
		placeholder string
		fields      core.Fields
	}{
		{"%context%", ctx},
		{"%extra%", extra},
	} {
		if len(p.fields) == 0 && f.cfg.IgnoreEmptyContextAndExtra {
			pairs = append(pairs, p.placeholder, "")
			continue
		}
		s, err := f.stringify(p.fields)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, p.placeholder, s)
	}

	out = strings.NewReplacer(pairs...).Replace(out)
	if strings.Contains(out, "%") {
		out = leftoverPlaceholder.ReplaceAllString(out, "")
	}
	return out, nil
}

// replaceKeyed fills %<scope>.<key>% placeholders and returns the fields
// that were not consumed by one.
func (f *LineFormatter) replaceKeyed(out, scope string, fs core.Fields) (string, core.Fields, error) {
	prefix := "%" + scope + "."
	if !strings.Contains(out, prefix) || len(fs) == 0 {
		return out, fs, nil
	}

	var rest core.Fields
	for _, field := range fs {
		placeholder := prefix + field.Key + "%"
		if !strings.Contains(out, placeholder) {
			rest = append(rest, field)
			continue
		}
		s, err := f.stringify(field.Value)
		if err != nil {
			return "", nil, err
		}
		out = strings.ReplaceAll(out, placeholder, s)
	}
	return out, rest, nil
}

// stringify renders a value for the template. Scalars are written as-is,
// everything else as JSON.
func (f *LineFormatter) stringify(v interface{}) (string, error) {
	if c, ok := f.normalize(v); ok {
		v = c
	}

	switch val := v.(type) {
	case nil:
		return "null", nil
	case string:
		return f.replaceNewlines(val), nil
	case core.Fields:
		if len(val) == 0 {
			return "[]", nil
		}
	}
	if (core.Field{Value: v}).IsScalar() {
		return (core.Field{Value: v}).StringValue(), nil
	}

	buf := getBuffer()
	defer putBuffer(buf)
	if err := f.values.append(buf, v); err != nil {
		return "", err
	}
	return f.serializedNewlines(buf.String()), nil
}

// normalize renders errors and times as strings.
func (f *LineFormatter) normalize(v interface{}) (interface{}, bool) {
	switch val := v.(type) {
	case error:
		if core.IsNilError(val) {
			return nil, true
		}
		return describe(val).String(f.cfg.IncludeStacktrace), true
	case time.Time:
		return val.Format(f.cfg.DateFormat), true
	}
	return nil, false
}

// replaceNewlines handles line breaks in plain text. Text is never
// unescaped.
func (f *LineFormatter) replaceNewlines(s string) string {
	if f.cfg.AllowInlineLineBreaks || !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
}

// serializedNewlines handles line breaks in values the formatter encoded
// as JSON itself.
func (f *LineFormatter) serializedNewlines(s string) string {
	if f.cfg.AllowInlineLineBreaks {
		return unescapeLineBreaks(s)
	}
	return f.replaceNewlines(s)
}

// unescapeLineBreaks turns the \n and \r escapes of serialized JSON back
// into real line breaks. Escaped backslashes are left alone.
func unescapeLineBreaks(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case 'n', 'r':
			b.WriteByte('\n')
		default:
			b.WriteByte(c)
			b.WriteByte(s[i+1])
		}
		i++
	}
	return b.String()
}
