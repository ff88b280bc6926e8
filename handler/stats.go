package handler

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Philipp01105/logstream/core"
)

var (
	recordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logstream_records_total",
			Help: "Records seen by a sink, by level and outcome (written, rejected, failed)",
		},
		[]string{"sink", "level", "outcome"},
	)

	writeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logstream_write_errors_total",
			Help: "Format or write failures returned by a sink",
		},
		[]string{"sink"},
	)
)

const (
	outcomeWritten  = "written"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Stats tracks sink statistics. Every update is mirrored to the
// process-wide Prometheus counters under the sink's name.
type Stats struct {
	sink string

	// ProcessedTotal counts records written to the stream
	ProcessedTotal uint64
	// RejectedTotal counts records outside the sink's level band
	RejectedTotal uint64
	// FailedTotal counts records that could not be formatted or written
	FailedTotal uint64
}

// NewStats creates a new Stats instance for the named sink
func NewStats(sink string) *Stats {
	return &Stats{sink: sink}
}

// IncrementProcessed atomically increments the processed counter
func (s *Stats) IncrementProcessed(level core.Level) {
	atomic.AddUint64(&s.ProcessedTotal, 1)
	recordsTotal.WithLabelValues(s.sink, level.String(), outcomeWritten).Inc()
}

// IncrementRejected atomically increments the rejected counter
func (s *Stats) IncrementRejected(level core.Level) {
	atomic.AddUint64(&s.RejectedTotal, 1)
	recordsTotal.WithLabelValues(s.sink, level.String(), outcomeRejected).Inc()
}

// IncrementFailed atomically increments the failed counter
func (s *Stats) IncrementFailed(level core.Level) {
	atomic.AddUint64(&s.FailedTotal, 1)
	recordsTotal.WithLabelValues(s.sink, level.String(), outcomeFailed).Inc()
	writeErrorsTotal.WithLabelValues(s.sink).Inc()
}

// GetProcessed returns the processed count
func (s *Stats) GetProcessed() uint64 {
	return atomic.LoadUint64(&s.ProcessedTotal)
}

// GetRejected returns the rejected count
func (s *Stats) GetRejected() uint64 {
	return atomic.LoadUint64(&s.RejectedTotal)
}

// GetFailed returns the failed count
func (s *Stats) GetFailed() uint64 {
	return atomic.LoadUint64(&s.FailedTotal)
}

// Reset resets the local counters to zero. Prometheus counters are
// monotonic and are left alone.
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.ProcessedTotal, 0)
	atomic.StoreUint64(&s.RejectedTotal, 0)
	atomic.StoreUint64(&s.FailedTotal, 0)
}

// Snapshot returns a snapshot of current stats
type Snapshot struct {
	Sink           string `json:"sink" yaml:"sink"`
	ProcessedTotal uint64 `json:"processed" yaml:"processed"`
	RejectedTotal  uint64 `json:"rejected" yaml:"rejected"`
	FailedTotal    uint64 `json:"failed" yaml:"failed"`
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	return Snapshot{
		Sink:           s.sink,
		ProcessedTotal: s.GetProcessed(),
		RejectedTotal:  s.GetRejected(),
		FailedTotal:    s.GetFailed(),
	}
}
