package ringlog

import "errors"

// Sentinel errors a caller can compare against with errors.Is.
var (
	// ErrNotInitialized is returned by GetInstance and Configure (method
	// and package-level) when called before Initialize has started the
	// Logger.
	ErrNotInitialized = errors.New("ringlog: not initialized")

	// ErrFileOpenFailed wraps a failure to open or create the active log
	// file, whether at startup or during rotation.
	ErrFileOpenFailed = errors.New("ringlog: file open failed")

	// ErrFileWriteFailed wraps a failure closing the active log file
	// before rotation. fileSink.write reports that failure (and plain
	// write failures) as ErrFileSinkDisabled, with this error's text in
	// the message; the consumer logs it to the internal diagnostics sink
	// and continues.
	ErrFileWriteFailed = errors.New("ringlog: file write failed")

	// ErrFormatFailed names a failure to render a Record. Format itself
	// cannot fail and does not recover panics, so no function in this
	// package returns it.
	ErrFormatFailed = errors.New("ringlog: format failed")

	// ErrAlreadyInitialized is returned by Initialize when called a second
	// time on a Logger still running; use Configure to change settings.
	ErrAlreadyInitialized = errors.New("ringlog: already initialized")

	// ErrShuttingDown names a call made after Shutdown has begun draining
	// the pipeline. No function in this package returns it: Producer.Log
	// has no error result and still enqueues after Shutdown.
	ErrShuttingDown = errors.New("ringlog: shutting down")

	// ErrFileSinkDisabled is returned by fileSink.write once, at the
	// moment the file sink enters its degraded state: a rotation/rename
	// failure, or a write failure that still fails after one retry,
	// disables the file sink until a reopen rather than retrying forever
	// against a file or directory that is not coming back. Later writes
	// are dropped and counted and return nil.
	ErrFileSinkDisabled = errors.New("ringlog: file sink disabled after unrecoverable failure")
)
