// FILE: default.go
package ringlog

import "time"

// Package-level convenience functions delegate to the process-wide
// singleton returned by GetInstance, so callers that don't need an
// explicit Logger handle can log directly through the package.

// Initialize configures and starts the singleton Logger, creating it on
// first call.
func Initialize(cfg *Config) error {
	return ensureSingleton().Initialize(cfg)
}

// Configure applies a new configuration to the singleton Logger at
// runtime. Returns ErrNotInitialized if called before Initialize.
func Configure(cfg *Config) error {
	l, err := GetInstance()
	if err != nil {
		return err
	}
	return l.Configure(cfg)
}

// Shutdown drains and stops the singleton Logger.
func Shutdown(timeout time.Duration) error {
	return DestroyInstance(timeout)
}

// SetLogLevel changes the singleton Logger's minimum severity. A no-op
// before Initialize, since there is no running Logger to affect.
func SetLogLevel(level Level) {
	if l, err := GetInstance(); err == nil {
		l.SetLogLevel(level)
	}
}

// SetModuleName sets the module name of the calling goroutine's
// package-level Producer. A no-op before Initialize.
func SetModuleName(name string) {
	if l, err := GetInstance(); err == nil {
		l.SetModuleName(name)
	}
}

// NewProducer allocates a dedicated Producer against the singleton
// Logger. Returns nil before Initialize, since no Consumer would ever
// drain the ring it would otherwise register.
func NewProducer(module string) *Producer {
	l, err := GetInstance()
	if err != nil {
		return nil
	}
	return l.NewProducer(module)
}

// current returns the calling goroutine's package-level Producer, or nil
// before Initialize — callers of the functions below must not register a
// ring, let alone enqueue a Record, against a singleton with no Consumer
// running to drain it.
func current() *Producer {
	l, err := GetInstance()
	if err != nil {
		return nil
	}
	return l.producerForCurrentGoroutine()
}

// The functions below capture the call site themselves (skip 2:
// callerLocation's frame and this function's own) rather than delegating to
// Producer's same-named methods, which would otherwise attribute every
// package-level call to this file instead of the real caller.

func Trace(message string) {
	if p := current(); p != nil {
		p.Log(LevelTrace, callerLocation(2), message)
	}
}

func Debug(message string) {
	if p := current(); p != nil {
		p.Log(LevelDebug, callerLocation(2), message)
	}
}

func Info(message string) {
	if p := current(); p != nil {
		p.Log(LevelInfo, callerLocation(2), message)
	}
}

func Warning(message string) {
	if p := current(); p != nil {
		p.Log(LevelWarning, callerLocation(2), message)
	}
}

func Error(message string) {
	if p := current(); p != nil {
		p.Log(LevelError, callerLocation(2), message)
	}
}

func Fatal(message string) {
	if p := current(); p != nil {
		p.Log(LevelFatal, callerLocation(2), message)
	}
}

func Step(message string) {
	if p := current(); p != nil {
		p.Log(LevelStep, callerLocation(2), message)
	}
}
