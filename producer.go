package ringlog

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// SourceLocation is the pre-built call-site context a caller attaches to a
// submission. Capturing it is the caller's responsibility; the convenience
// Debug/Info/... helpers below capture it via runtime.Caller as a thin
// facade over the core Log primitive.
type SourceLocation struct {
	File     string
	Line     int
	Function string
}

// Producer is the Ingress handle for one logical producer.
// It owns exactly one ProducerRing, created and registered with the
// Logger's Registry when the Producer is created. A Producer must not be shared between
// goroutines that are concurrently submitting — the ring beneath it is
// strictly single-producer.
type Producer struct {
	logger *Logger
	ring   *ProducerRing
	module atomic.Value // string
	id     uint64
	closed atomic.Bool
}

// newProducer allocates and registers a ring-backed Producer.
func newProducer(l *Logger, module string) *Producer {
	id := l.registry.allocateID()
	p := &Producer{
		logger: l,
		ring:   newProducerRing(id, int(l.getConfig().RingCapacity)),
		id:     id,
	}
	p.module.Store(module)
	l.registry.register(p.ring)
	return p
}

// SetModule changes the module name attached to subsequent Records from
// this Producer. Affects only this Producer — other Producers and the
// package-level default module name are untouched.
func (p *Producer) SetModule(name string) {
	p.module.Store(name)
}

func (p *Producer) moduleName() string {
	if v, ok := p.module.Load().(string); ok {
		return v
	}
	return ""
}

// Log is the fast-path submission primitive. It returns immediately
// without allocation when level is below the logger's configured minimum.
func (p *Producer) Log(level Level, loc SourceLocation, message string) {
	if p.closed.Load() {
		return
	}
	if level < p.logger.minLevel() {
		return
	}
	ctx := Context{
		Module:     p.moduleName(),
		Function:   loc.Function,
		File:       loc.File,
		Line:       loc.Line,
		ProducerID: p.id,
	}
	p.ring.enqueue(newRecord(message, level, ctx))
}

// Close marks the producer's ring inactive and unregisters it. While the
// Logger is running, Close first waits until the Consumer has drained
// every Record already enqueued, so nothing submitted before Close is
// lost with the ring. Close is idempotent.
func (p *Producer) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.ring.markInactive()
	for !p.ring.isEmpty() && p.logger.started.Load() {
		runtime.Gosched()
	}
	p.logger.registry.unregister(p.ring)
}

// --- Convenience facade -----------------------------------------------
//
// The methods below are sugar over Log: they capture the call site with
// runtime.Caller(2) the way a typical logging facade does. They are not
// part of the ingestion-pipeline core; a caller that wants zero capture
// overhead should build a SourceLocation itself and call Log directly.

func callerLocation(skip int) SourceLocation {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return SourceLocation{}
	}
	fn := runtime.FuncForPC(pc)
	name := ""
	if fn != nil {
		name = fn.Name()
	}
	return SourceLocation{File: file, Line: line, Function: name}
}

func (p *Producer) Trace(message string)   { p.Log(LevelTrace, callerLocation(2), message) }
func (p *Producer) Debug(message string)   { p.Log(LevelDebug, callerLocation(2), message) }
func (p *Producer) Info(message string)    { p.Log(LevelInfo, callerLocation(2), message) }
func (p *Producer) Warning(message string) { p.Log(LevelWarning, callerLocation(2), message) }
func (p *Producer) Error(message string)   { p.Log(LevelError, callerLocation(2), message) }
func (p *Producer) Fatal(message string)   { p.Log(LevelFatal, callerLocation(2), message) }
func (p *Producer) Step(message string)    { p.Log(LevelStep, callerLocation(2), message) }

// --- Goroutine-keyed convenience cache ----------------------------------

// goroutineProducers backs the package-level Debug/Info/... functions:
// each calling goroutine lazily gets its own Producer the first time it
// logs through the package-level API, keyed by a best-effort goroutine
// identity (see goroutineID in util.go). This approximates "per calling
// thread" ingress without requiring every caller to carry an explicit
// Producer handle, binding instead to the calling goroutine's identity.
type goroutineProducers struct {
	mu    sync.Mutex
	byGID map[uint64]*Producer
}

func newGoroutineProducers() *goroutineProducers {
	return &goroutineProducers{byGID: make(map[uint64]*Producer)}
}

func (g *goroutineProducers) get(l *Logger) *Producer {
	gid := goroutineID()
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.byGID[gid]; ok && !p.closed.Load() {
		return p
	}
	p := newProducer(l, "")
	g.byGID[gid] = p
	return p
}
