// Package semaphore provides a counting semaphore that doesn't trip up the
// race detector like a sync.WaitGroup abused for the same purpose would.
// Every stage bounds its in-flight task count with one of these, per
// max_workers.* in the configuration.
package semaphore

import "sync"

// Semaphore is a bounded counting semaphore: up to max callers may hold it
// concurrently; further Acquire calls block until a Release frees a slot.
type Semaphore struct {
	cond *sync.Cond
	lock sync.Mutex
	max  int
	held int
}

// New creates a Semaphore that allows up to max concurrent holders. A
// non-positive max means unbounded.
func New(max int) *Semaphore {
	s := &Semaphore{max: max}
	s.cond = sync.NewCond(&s.lock)
	return s
}

// Acquire blocks until a slot is available, then takes it.
func (sm *Semaphore) Acquire() {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	for sm.max > 0 && sm.held >= sm.max {
		sm.cond.Wait()
	}
	sm.held++
}

// Release frees a slot, waking one blocked Acquire if any.
func (sm *Semaphore) Release() {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	if sm.held > 0 {
		sm.held--
	}
	sm.cond.Signal()
}

// Held reports the current number of held slots, for tests/diagnostics.
func (sm *Semaphore) Held() int {
	sm.lock.Lock()
	defer sm.lock.Unlock()
	return sm.held
}
