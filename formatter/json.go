package formatter

import (
	"bytes"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Philipp01105/logstream/ambient"
	"github.com/Philipp01105/logstream/core"
	"github.com/Philipp01105/logstream/stacktrace"
)

const (
	DefaultServiceName = "app"
	DefaultEnvironment = "production"

	atomFormat  = "2006-01-02T15:04:05-07:00"
	microFormat = "2006-01-02T15:04:05.000000-07:00"
)

// BatchMode selects how FormatBatch joins records.
type BatchMode int

const (
	// BatchJSON renders a batch as one JSON array.
	BatchJSON BatchMode = iota + 1
	// BatchNewlines renders one JSON object per line.
	BatchNewlines
)

// ParseBatchMode accepts "json" or "newlines". Empty means json.
func ParseBatchMode(s string) (BatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return BatchJSON, nil
	case "newlines":
		return BatchNewlines, nil
	default:
		return 0, errors.Newf("unknown batch mode %q", s)
	}
}

// JSONConfig configures a JSONFormatter.
type JSONConfig struct {
	ServiceName string
	Environment string
	// IncludeStacktrace synthesizes a caller trace for records at WARNING
	// and above that do not carry one from an error.
	IncludeStacktrace bool
	BatchMode         BatchMode
	AppendNewline     bool
	// Ambient supplies request, trace and pod metadata.
	Ambient *ambient.Provider
	// Stack overrides the trace extractor.
	Stack *stacktrace.Extractor
}

// DefaultJSONConfig returns the default aggregator configuration.
func DefaultJSONConfig() JSONConfig {
	return JSONConfig{
		ServiceName:       DefaultServiceName,
		Environment:       DefaultEnvironment,
		IncludeStacktrace: true,
		BatchMode:         BatchJSON,
		AppendNewline:     true,
	}
}

// JSONFormatter renders records as single-line JSON objects carrying the
// field aliases expected by common log aggregators (Elastic, Datadog,
// New Relic, Loki).
type JSONFormatter struct {
	cfg    JSONConfig
	values valueEncoder
}

// NewJSONFormatter creates a JSON formatter. Empty strings and nil
// collaborators in cfg take their defaults.
func NewJSONFormatter(cfg JSONConfig) *JSONFormatter {
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.BatchMode == 0 {
		cfg.BatchMode = BatchJSON
	}
	if cfg.Ambient == nil {
		cfg.Ambient = ambient.NewProvider(nil)
	}
	if cfg.Stack == nil {
		cfg.Stack = stacktrace.New(stacktrace.JSONFrames)
	}
	return &JSONFormatter{cfg: cfg}
}

// Format renders a record as one JSON line
func (f *JSONFormatter) Format(r *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := f.formatJSONToBuffer(r, buf); err != nil {
		return nil, err
	}
	if f.cfg.AppendNewline {
		buf.WriteByte('\n')
	}
	return copyBytes(buf), nil
}

// FormatTo renders a record and writes it to w in one call
func (f *JSONFormatter) FormatTo(r *core.Record, w io.Writer) error {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := f.formatJSONToBuffer(r, buf); err != nil {
		return err
	}
	if f.cfg.AppendNewline {
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// FormatBatch renders several records according to the batch mode.
func (f *JSONFormatter) FormatBatch(records []*core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	sep := byte('\n')
	if f.cfg.BatchMode == BatchJSON {
		buf.WriteByte('[')
		sep = ','
	}
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(sep)
		}
		if err := f.formatJSONToBuffer(r, buf); err != nil {
			return nil, errors.Wrapf(err, "batch record %d", i)
		}
	}
	if f.cfg.BatchMode == BatchJSON {
		buf.WriteByte(']')
	}
	if f.cfg.AppendNewline {
		buf.WriteByte('\n')
	}
	return copyBytes(buf), nil
}

// objectWriter writes the members of one JSON object in order.
type objectWriter struct {
	buf    *bytes.Buffer
	values valueEncoder
	n      int
}

func (o *objectWriter) key(k string) {
	if o.n > 0 {
		o.buf.WriteByte(',')
	}
	o.n++
	appendQuoted(o.buf, k)
	o.buf.WriteByte(':')
}

func (o *objectWriter) str(k, v string) {
	o.key(k)
	appendQuoted(o.buf, v)
}

func (o *objectWriter) value(k string, v interface{}) error {
	o.key(k)
	if err := o.values.append(o.buf, v); err != nil {
		return errors.Wrapf(err, "field %q", k)
	}
	return nil
}

func (f *JSONFormatter) formatJSONToBuffer(r *core.Record, buf *bytes.Buffer) error {
	start := buf.Len()
	if err := f.writeObject(r, buf); err != nil {
		buf.Truncate(start)
		return err
	}
	return nil
}

func (f *JSONFormatter) writeObject(r *core.Record, buf *bytes.Buffer) error {
	o := &objectWriter{buf: buf, values: f.values}
	buf.WriteByte('{')

	atom := r.Time.Format(atomFormat)
	o.str("timestamp", atom)
	o.str("@timestamp", atom)
	o.str("time", r.Time.Format(microFormat))

	name := r.Name()
	o.str("level", name)
	o.str("level_name", name)
	o.str("severity", core.SeverityOf(r.Level))
	o.str("log.level", name)

	o.str("message", r.Message)
	o.str("msg", r.Message)

	o.str("service", f.cfg.ServiceName)
	o.str("service.name", f.cfg.ServiceName)
	o.str("application", f.cfg.ServiceName)
	o.str("environment", f.cfg.Environment)
	o.str("env", f.cfg.Environment)

	o.str("channel", r.Channel)
	o.str("logger", r.Channel)

	ctx := r.Ctx()
	if req := f.cfg.Ambient.RequestContext(ctx); len(req) > 0 {
		if err := o.value("request", req); err != nil {
			return err
		}
		for _, field := range req {
			if err := o.value("http."+field.Key, field.Value); err != nil {
				return err
			}
		}
	}

	context := r.Context
	hasTrace := false
	if exc, i := r.Exception(); i >= 0 {
		e := describe(exc)
		if err := o.value("error", exceptionFields(e)); err != nil {
			return err
		}
		o.str("error.class", e.Class)
		o.str("error.message", e.Message)
		if e.Trace != "" {
			o.str("stack_trace", e.Trace)
			hasTrace = true
		}
		context = context.Without(i)
	}

	if len(context) > 0 {
		if err := o.value("context", context); err != nil {
			return err
		}
		for _, field := range context {
			if !field.IsScalar() {
				continue
			}
			if err := o.value("ctx."+field.Key, field.Value); err != nil {
				return err
			}
		}
	}

	if len(r.Extra) > 0 {
		if err := o.value("extra", r.Extra); err != nil {
			return err
		}
	}

	if f.cfg.IncludeStacktrace && !hasTrace && wantsTrace(r.Level) {
		if frames := stacktrace.Strings(f.cfg.Stack.Extract(0)); len(frames) > 0 {
			o.str("stack_trace", strings.Join(frames, "\n"))
			if err := o.value("trace", frames); err != nil {
				return err
			}
		}
	}

	if id := f.cfg.Ambient.TraceID(ctx); id != "" {
		o.str("trace_id", id)
		o.str("trace.id", id)
	}

	if k8s := f.cfg.Ambient.Kubernetes(f.cfg.ServiceName); k8s != nil {
		if err := o.value("kubernetes", k8s); err != nil {
			return err
		}
	}

	buf.WriteByte('}')
	return nil
}

func exceptionFields(e exception) core.Fields {
	fs := core.Fields{
		core.String("class", e.Class),
		core.String("message", e.Message),
		core.Int("code", e.Code),
	}
	if e.File != "" {
		fs = append(fs, core.String("file", e.File), core.Int("line", e.Line))
	}
	return fs
}
