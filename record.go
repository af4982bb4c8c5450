package ringlog

import "time"

// maxMessageBytes bounds an individual rendered message (spec Open
// Question 4: the source leaves this unbounded; we truncate).
const maxMessageBytes = 64 * 1024

const truncatedSuffix = "...(truncated)"

// Context carries the pre-built call-site information a producer attaches
// to a Record. Rendering placeholders and capturing source location are
// both the caller's responsibility; Context only carries the result.
type Context struct {
	Module     string // short module/component name, set via Producer.SetModule
	Function   string
	File       string // full path as supplied by the caller
	Line       int
	ProducerID uint64 // opaque per-producer identity, stable for the producer's lifetime
}

// Record is an in-memory log entry. Records are move-only by convention:
// once handed to ProducerRing.enqueue the producer must not read or write
// it again. The zero value is never a valid enqueued Record.
type Record struct {
	Message   string
	Level     Level
	Context   Context
	Timestamp time.Time
}

// newRecord stamps the current wall-clock time and truncates an
// oversized message before the Record becomes visible to the consumer.
func newRecord(message string, level Level, ctx Context) Record {
	if len(message) > maxMessageBytes {
		message = message[:maxMessageBytes-len(truncatedSuffix)] + truncatedSuffix
	}
	return Record{
		Message:   message,
		Level:     level,
		Context:   ctx,
		Timestamp: time.Now(),
	}
}
