// FILE: compat/gnet.go
package compat

import (
	"fmt"
	"os"

	"github.com/lixenwraith/ringlog"
)

// GnetAdapter implements gnet's logging.Logger interface over a
// dedicated Producer.
type GnetAdapter struct {
	producer     *ringlog.Producer
	fatalHandler func(msg string)
}

// GnetOption customizes adapter construction.
type GnetOption func(*GnetAdapter)

// WithFatalHandler overrides the default os.Exit(1) fatal behavior.
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) { a.fatalHandler = handler }
}

// NewGnetAdapter allocates its own Producer against l, labelled "gnet".
func NewGnetAdapter(l *ringlog.Logger, opts ...GnetOption) *GnetAdapter {
	a := &GnetAdapter{
		producer:     l.NewProducer("gnet"),
		fatalHandler: func(string) { os.Exit(1) },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var gnetLoc = ringlog.SourceLocation{Function: "gnet"}

func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.producer.Log(ringlog.LevelDebug, gnetLoc, fmt.Sprintf(format, args...))
}

func (a *GnetAdapter) Infof(format string, args ...any) {
	a.producer.Log(ringlog.LevelInfo, gnetLoc, fmt.Sprintf(format, args...))
}

func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.producer.Log(ringlog.LevelWarning, gnetLoc, fmt.Sprintf(format, args...))
}

func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.producer.Log(ringlog.LevelError, gnetLoc, fmt.Sprintf(format, args...))
}

// Fatalf logs at fatal level then invokes the fatal handler. It does not
// wait for the Consumer to write the record first, so with the default
// handler (os.Exit(1)) the fatal line may never reach the sinks.
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.producer.Log(ringlog.LevelFatal, gnetLoc, msg)
	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

// Close releases the adapter's Producer.
func (a *GnetAdapter) Close() {
	a.producer.Close()
}
