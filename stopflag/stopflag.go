// Package stopflag is the process-wide cooperative cancellation signal
// spec.md §4.11/§9 calls for: every stage checks it at task boundaries
// instead of forcing mid-request cancellation. Grounded on the teacher's
// quit-channel pattern in fetcher.go/dispatcher.go, generalized from one
// dispatcher's private channel into a single flag shared by every stage.
package stopflag

import "sync"

// Flag is a closed-once signal safe for concurrent Stop/Stopped calls.
type Flag struct {
	once sync.Once
	ch   chan struct{}
}

// New returns a Flag that has not been signaled.
func New() *Flag {
	return &Flag{ch: make(chan struct{})}
}

// Stop signals the flag. Safe to call more than once or concurrently.
func (f *Flag) Stop() {
	f.once.Do(func() { close(f.ch) })
}

// Stopped reports whether Stop has been called.
func (f *Flag) Stopped() bool {
	select {
	case <-f.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when Stop is called, for use in select
// statements alongside in-flight work.
func (f *Flag) Done() <-chan struct{} {
	return f.ch
}
