// FILE: logger.go
package ringlog

import (
	"sync"
	"sync/atomic"
	"time"
)

// loggerStats holds the pipeline-wide counters PrintStats reports,
// scoped to what the ring pipeline itself can observe. rotations,
// deletions, and droppedRecords are written directly by fileSink, the
// same way the file sink's ancestor tracked its own deletion counter.
type loggerStats struct {
	totalProcessed atomic.Uint64
	internalErrors atomic.Uint64
	droppedRecords atomic.Uint64
	rotations      atomic.Uint64
	deletions      atomic.Uint64
	startTime      time.Time
}

// Logger ties together the Registry of live Producer Rings, the single
// background Consumer, and the active Config. Applications normally use
// the package-level singleton (Initialize/GetInstance/DestroyInstance)
// but may also construct independent Loggers directly via NewLogger for
// tests or multi-tenant hosting within one process.
type Logger struct {
	currentConfig atomic.Value // *Config

	registry *Registry
	consumer *Consumer

	producers     *goroutineProducers
	defaultModule atomic.Value // string

	minLvl atomic.Int32

	initMu    sync.Mutex
	started   atomic.Bool
	destroyed atomic.Bool

	stats loggerStats
}

// NewLogger allocates a Logger with default configuration. It does not
// start the Consumer; call Initialize before submitting Records.
func NewLogger() *Logger {
	l := &Logger{
		registry:  newRegistry(),
		producers: newGoroutineProducers(),
	}
	l.currentConfig.Store(DefaultConfig())
	l.defaultModule.Store("")
	l.minLvl.Store(int32(LevelInfo))
	l.consumer = newConsumer(l, l.registry)
	l.stats.startTime = time.Now()
	return l
}

// Initialize validates cfg, wires the sinks, and starts the Consumer
// goroutine. Calling Initialize on an already-started Logger returns
// ErrAlreadyInitialized; use Configure to change settings at runtime.
func (l *Logger) Initialize(cfg *Config) error {
	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.started.Load() {
		return ErrAlreadyInitialized
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := l.consumer.applySinks(cfg); err != nil {
		return err
	}
	l.currentConfig.Store(cfg)
	l.minLvl.Store(int32(cfg.MinLevel))

	l.consumer.start()
	l.started.Store(true)
	return nil
}

// Configure applies a new validated Config at runtime. A
// change to log_dir/file_prefix/file_output reopens the file sink; other
// fields (levels, show_* toggles, colors) take effect on the very next
// rendered batch since the Consumer reads getConfig() fresh every round.
func (l *Logger) Configure(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	if !l.started.Load() {
		return ErrNotInitialized
	}

	old := l.getConfig()
	needsReopen := configRequiresFileReopen(old, cfg)

	l.currentConfig.Store(cfg)
	l.minLvl.Store(int32(cfg.MinLevel))

	if needsReopen {
		if cfg.FileOutput {
			if err := l.consumer.reopenFile(cfg); err != nil {
				l.currentConfig.Store(old)
				return err
			}
		} else if l.consumer.file != nil {
			_ = l.consumer.file.close()
			l.consumer.file = nil
		}
	}
	l.consumer.console = newConsoleSink(cfg.ConsoleTarget)
	return nil
}

// getConfig returns the current configuration (thread-safe, no copy —
// callers must treat it as read-only).
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// GetConfig returns a defensive copy of the current configuration.
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// minLevel is the fast-path check Producer.Log uses before constructing
// a Record at all.
func (l *Logger) minLevel() Level {
	return Level(l.minLvl.Load())
}

// SetLogLevel changes the process-wide minimum severity. Affects every
// Producer immediately since Producer.Log reads minLevel() on every call.
func (l *Logger) SetLogLevel(level Level) {
	l.minLvl.Store(int32(level))
}

// SetModuleName sets the module name of the calling goroutine's
// package-level Producer (creating it if needed). Like Producer.SetModule
// it affects only that one producer: other goroutines and explicit
// Producers are untouched.
func (l *Logger) SetModuleName(name string) {
	l.producerForCurrentGoroutine().SetModule(name)
}

func (l *Logger) defaultModuleName() string {
	if v, ok := l.defaultModule.Load().(string); ok {
		return v
	}
	return ""
}

// NewProducer allocates and registers a dedicated Producer for module.
// This is the primary ingress primitive: callers that want a stable
// identity across goroutine hand-off keep this handle for the producer's
// whole logical lifetime and Close it on exit.
func (l *Logger) NewProducer(module string) *Producer {
	return newProducer(l, module)
}

// producerForCurrentGoroutine returns (creating if necessary) the
// best-effort per-goroutine Producer backing the package-level
// convenience functions (Trace/Debug/.../Step in default.go).
func (l *Logger) producerForCurrentGoroutine() *Producer {
	return l.producers.get(l)
}

// DiskFree reports free space on the filesystem backing the configured
// log directory.
func (l *Logger) DiskFree() (int64, error) {
	return diskFreeBytes(l.getConfig().LogDir)
}

// Shutdown stops accepting new work from package-level convenience
// callers is NOT enforced here (Producers remain usable; it is the
// caller's responsibility to stop logging), but it drains every
// registered ring to completion, flushes sinks, and releases resources.
// Idempotent.
func (l *Logger) Shutdown(timeout time.Duration) error {
	l.initMu.Lock()
	defer l.initMu.Unlock()

	if !l.started.CompareAndSwap(true, false) {
		return nil
	}

	done := make(chan struct{})
	go func() {
		l.consumer.stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		return fmtErrorf("consumer did not drain within timeout (%v)", timeout)
	}

	return l.consumer.closeSinks()
}

// --- Process-wide singleton -------------------------------------------

var (
	singletonMu   sync.Mutex
	singletonInst *Logger
)

// ensureSingleton lazily constructs the process-wide Logger (uninitialized)
// the first time Initialize is called through the package-level facade.
// It does not by itself satisfy GetInstance's "already initialized"
// requirement.
func ensureSingleton() *Logger {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singletonInst == nil {
		singletonInst = NewLogger()
	}
	return singletonInst
}

// GetInstance returns the process-wide Logger singleton. Calling it
// before Initialize has started the singleton is a usage error: it
// returns ErrNotInitialized and a nil Logger rather than silently handing
// back a Logger with no Consumer running to drain anything submitted to
// it.
func GetInstance() (*Logger, error) {
	singletonMu.Lock()
	inst := singletonInst
	singletonMu.Unlock()
	if inst == nil || !inst.started.Load() {
		return nil, ErrNotInitialized
	}
	return inst, nil
}

// DestroyInstance shuts down and discards the process-wide singleton, if
// any, so a subsequent GetInstance starts fresh. Primarily useful in
// tests that need isolated Logger lifecycles within one process.
func DestroyInstance(timeout time.Duration) error {
	singletonMu.Lock()
	inst := singletonInst
	singletonInst = nil
	singletonMu.Unlock()

	if inst == nil {
		return nil
	}
	return inst.Shutdown(timeout)
}
