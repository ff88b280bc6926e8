// Package handler routes log records to output streams.
//
// A Sink accepts records whose numeric level lies inside an inclusive band
// and writes them, formatted, to one stream:
//
//   - NewStdoutSink accepts [min, INFO] and writes to standard output. An
//     invalid or unset min falls back to INFO.
//   - NewStderrSink accepts [WARNING, EMERGENCY] and writes to standard error.
//
// Each record is formatted completely before anything is written, then
// written with a single Write call under a mutex shared by every sink on
// the same stream. Nothing is queued or buffered, so a record is visible
// as soon as Handle returns, and a format or write failure is returned to
// the caller.
//
// A Router hands records to several handlers in order; a sink that accepts
// a record stops the walk unless it was configured to bubble.
//
// SlogHandler, ZapCore and LogrusHook adapt log/slog, zap and logrus so
// their records flow through the same sinks. Every sink counts written,
// rejected and failed records in Stats, mirrored to the Prometheus counters
// logstream_records_total and logstream_write_errors_total.
package handler
