// FILE: compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/ringlog"
)

// FastHTTPAdapter implements fasthttp's Logger interface (a single
// Printf(format string, args ...any) method) over a dedicated Producer,
// so fasthttp's request-handling goroutines submit through the same
// lock-free ring pipeline as the rest of the application.
type FastHTTPAdapter struct {
	producer      *ringlog.Producer
	defaultLevel  ringlog.Level
	levelDetector func(string) ringlog.Level
}

// FastHTTPOption customizes adapter construction.
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when the detector finds no hint.
func WithDefaultLevel(level ringlog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) { a.defaultLevel = level }
}

// WithLevelDetector overrides the message-content level heuristic.
func WithLevelDetector(detector func(string) ringlog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) { a.levelDetector = detector }
}

// NewFastHTTPAdapter allocates its own Producer against l, labelled
// "fasthttp" — one ring per adapter, matching the SPSC contract.
func NewFastHTTPAdapter(l *ringlog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	a := &FastHTTPAdapter{
		producer:      l.NewProducer("fasthttp"),
		defaultLevel:  ringlog.LevelInfo,
		levelDetector: DetectLogLevel,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Printf implements fasthttp's Logger interface.
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != 0 {
			level = detected
		}
	}

	loc := ringlog.SourceLocation{Function: "fasthttp"}
	a.producer.Log(level, loc, msg)
}

// Close releases the adapter's Producer.
func (a *FastHTTPAdapter) Close() {
	a.producer.Close()
}

// DetectLogLevel heuristically classifies a message by keyword.
func DetectLogLevel(msg string) ringlog.Level {
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic"):
		return ringlog.LevelError
	case strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated"):
		return ringlog.LevelWarning
	case strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace"):
		return ringlog.LevelDebug
	default:
		return ringlog.LevelInfo
	}
}
