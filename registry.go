package ringlog

import (
	"sync"
	"sync/atomic"
)

// Registry is the process-wide set of live Producer Rings. The Consumer
// calls snapshot once per round; register/unregister are serialized by mu
// and each publishes a fresh copy of the ring list, while snapshot is a
// lock-free load of the latest published copy. Enumeration runs against
// that plain copy of strong references, so an unregister during a
// consumer round cannot free memory still being read.
type Registry struct {
	mu      sync.Mutex
	rings   []*ProducerRing // registration order; used as the iteration tie-break
	current atomic.Pointer[[]*ProducerRing]
	nextID  atomic.Uint64
}

func newRegistry() *Registry {
	reg := &Registry{}
	empty := make([]*ProducerRing, 0)
	reg.current.Store(&empty)
	return reg
}

// allocateID hands out a monotonically increasing producer identity,
// stable for the lifetime of the ring (used as Record.Context.ProducerID
// and the Formatter's "T-<hash>" token).
func (reg *Registry) allocateID() uint64 {
	return reg.nextID.Add(1)
}

// register adds a ring to the live set and publishes a fresh snapshot.
func (reg *Registry) register(r *ProducerRing) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rings = append(reg.rings, r)
	reg.publishLocked()
}

// unregister removes a ring from the live set. Idempotent: unregistering
// a ring that is not present (already removed, or never registered) is a
// no-op.
func (reg *Registry) unregister(r *ProducerRing) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for i, candidate := range reg.rings {
		if candidate == r {
			reg.rings = append(reg.rings[:i:i], reg.rings[i+1:]...)
			reg.publishLocked()
			return
		}
	}
}

// publishLocked must be called with mu held; it copies the current slice
// and atomically swaps in the copy so snapshot() never observes a slice
// that register/unregister is still mutating.
func (reg *Registry) publishLocked() {
	cp := make([]*ProducerRing, len(reg.rings))
	copy(cp, reg.rings)
	reg.current.Store(&cp)
}

// snapshot returns a point-in-time view of the live rings, in registration
// order. The returned slice and the *ProducerRing values it holds remain
// valid for as long as the caller retains the slice, independent of any
// unregister that happens afterward.
func (reg *Registry) snapshot() []*ProducerRing {
	return *reg.current.Load()
}

// count is an approximate, racy observation used only for sizing hints.
func (reg *Registry) count() int {
	return len(reg.snapshot())
}
