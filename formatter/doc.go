// Package formatter renders log records into bytes.
//
// LineFormatter produces template-driven text lines for terminals. Each
// line is wrapped in the ANSI color of its level, and records at WARNING
// and above that carry no error get a dimmed caller trace appended.
//
// JSONFormatter produces one JSON object per line for log aggregators.
// Common fields are written under every alias the usual aggregators look
// for (timestamp and @timestamp, level and log.level, service and
// service.name), together with request, trace and pod metadata from the
// ambient package.
//
// Both formatters implement Formatter and WriterFormatter. They use a
// pooled bytes.Buffer internally; buffers larger than 64 KiB are not
// returned to the pool to prevent a single large record from permanently
// inflating memory usage. A record that fails to encode produces an error
// and no output.
package formatter
