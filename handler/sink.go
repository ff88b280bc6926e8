package handler

import (
	"io"
	"os"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/Philipp01105/logstream/core"
	"github.com/Philipp01105/logstream/formatter"
)

const (
	StdoutName = "stdout"
	StderrName = "stderr"
)

// streamLock is one mutex per underlying stream, shared by every open sink
// writing to it, so records never interleave.
type streamLock struct {
	mu   sync.Mutex
	refs int
}

var (
	streamLocksMu sync.Mutex
	// streamLocks is keyed by the address of pointer writers. An entry lives
	// while a sink holding the writer is open.
	streamLocks = map[uintptr]*streamLock{}
)

// acquireLock returns the mutex for w and a func releasing it. Writers that
// are not pointers cannot be identified and get a mutex of their own.
func acquireLock(w io.Writer) (*sync.Mutex, func()) {
	v := reflect.ValueOf(w)
	if w == nil || v.Kind() != reflect.Ptr || v.IsNil() {
		return new(sync.Mutex), func() {}
	}
	key := v.Pointer()

	streamLocksMu.Lock()
	defer streamLocksMu.Unlock()
	l, ok := streamLocks[key]
	if !ok {
		l = &streamLock{}
		streamLocks[key] = l
	}
	l.refs++

	var once sync.Once
	return &l.mu, func() {
		once.Do(func() {
			streamLocksMu.Lock()
			defer streamLocksMu.Unlock()
			if l.refs--; l.refs == 0 {
				delete(streamLocks, key)
			}
		})
	}
}

// lockedWriter serializes Write calls on a shared stream.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// SinkConfig holds configuration for a level-filtered sink
type SinkConfig struct {
	// Name labels the sink in stats and metrics (default: "sink")
	Name string
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: line formatter)
	Formatter formatter.Formatter
	// MinLevel and MaxLevel bound the accepted levels, inclusive
	MinLevel core.Level
	MaxLevel core.Level
	// Bubble passes accepted records on to later handlers in a Router
	Bubble bool
}

// Sink writes the records whose level falls inside [MinLevel, MaxLevel]
// to one stream. Each record is formatted first and then written with a
// single Write call; nothing is buffered between records.
type Sink struct {
	name            string
	writer          io.Writer
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	min, max        core.Level
	bubble          bool
	stats           *Stats
	release         func()
}

// NewSink creates a sink. The writer is fixed for the sink's lifetime.
func NewSink(cfg SinkConfig) *Sink {
	if cfg.Name == "" {
		cfg.Name = "sink"
	}
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		lc := formatter.DefaultLineConfig()
		lc.Output = cfg.Writer
		cfg.Formatter = formatter.NewLineFormatter(lc)
	}

	mu, release := acquireLock(cfg.Writer)
	s := &Sink{
		name:      cfg.Name,
		writer:    &lockedWriter{mu: mu, w: cfg.Writer},
		formatter: cfg.Formatter,
		min:       cfg.MinLevel,
		max:       cfg.MaxLevel,
		bubble:    cfg.Bubble,
		stats:     NewStats(cfg.Name),
		release:   release,
	}
	if wf, ok := cfg.Formatter.(formatter.WriterFormatter); ok {
		s.writerFormatter = wf
	}
	return s
}

// StdoutMinLevel returns min when it is a canonical level at or below
// INFO, and INFO otherwise.
func StdoutMinLevel(min core.Level) core.Level {
	if min.Valid() && min <= core.InfoLevel {
		return min
	}
	return core.InfoLevel
}

// NewStdoutSink creates the low sink: [min, INFO] on standard output.
func NewStdoutSink(min core.Level, f formatter.Formatter) *Sink {
	return newStdoutSink(os.Stdout, min, f)
}

func newStdoutSink(w io.Writer, min core.Level, f formatter.Formatter) *Sink {
	return NewSink(SinkConfig{
		Name:      StdoutName,
		Writer:    w,
		Formatter: f,
		MinLevel:  StdoutMinLevel(min),
		MaxLevel:  core.InfoLevel,
	})
}

// NewStderrSink creates the high sink: [WARNING, EMERGENCY] on standard error.
func NewStderrSink(f formatter.Formatter) *Sink {
	return newStderrSink(os.Stderr, f)
}

func newStderrSink(w io.Writer, f formatter.Formatter) *Sink {
	return NewSink(SinkConfig{
		Name:      StderrName,
		Writer:    w,
		Formatter: f,
		MinLevel:  core.WarningLevel,
		MaxLevel:  core.EmergencyLevel,
	})
}

// Accepts reports whether the record's numeric level is inside the band.
func (s *Sink) Accepts(r *core.Record) bool {
	return r.Level >= s.min && r.Level <= s.max
}

// Handle formats and writes an accepted record. Records outside the band
// are a no-op. Format and write errors are returned, never retried.
func (s *Sink) Handle(r *core.Record) error {
	if !s.Accepts(r) {
		s.stats.IncrementRejected(r.Level)
		return nil
	}

	if err := s.write(r); err != nil {
		s.stats.IncrementFailed(r.Level)
		return errors.Wrapf(err, "%s sink", s.name)
	}
	s.stats.IncrementProcessed(r.Level)
	return nil
}

func (s *Sink) write(r *core.Record) error {
	if s.writerFormatter != nil {
		return s.writerFormatter.FormatTo(r, s.writer)
	}
	out, err := s.formatter.Format(r)
	if err != nil {
		return err
	}
	_, err = s.writer.Write(out)
	return err
}

// Bubble reports whether accepted records continue to later handlers.
func (s *Sink) Bubble() bool {
	return s.bubble
}

// Name returns the sink's name.
func (s *Sink) Name() string {
	return s.name
}

// Levels returns the inclusive band of accepted levels.
func (s *Sink) Levels() (min, max core.Level) {
	return s.min, s.max
}

// Stats returns the sink statistics
func (s *Sink) Stats() *Stats {
	return s.stats
}

// Close releases the sink's hold on the stream lock. The stream itself
// stays open.
func (s *Sink) Close() error {
	s.release()
	return nil
}
