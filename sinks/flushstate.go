package sinks

import "sync"

// flushState is a single-slot, replaceable completion signal. At any
// instant the signal is either pending (queue non-empty or a write in
// flight) or resolved (nothing left to process). Only two mutations exist:
// resolve the current signal if it is still pending, and replace a
// resolved signal with a fresh pending one.
type flushState struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
}

// newFlushState returns a signal that starts resolved: a sink with no
// accepted entries has nothing to wait for.
func newFlushState() *flushState {
	fs := &flushState{done: make(chan struct{}), resolved: true}
	close(fs.done)
	return fs
}

// Wait returns the channel backing the current signal. The channel is
// closed once the signal resolves; an already-resolved signal yields an
// already-closed channel.
func (fs *flushState) Wait() <-chan struct{} {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.done
}

// Resolve marks the current signal complete. Resolving an already-resolved
// signal is a no-op, so the backing channel is closed at most once.
func (fs *flushState) Resolve() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.resolved {
		fs.resolved = true
		close(fs.done)
	}
}

// Reset installs a fresh pending signal if the current one is resolved.
// Callers that enqueue new work use this so a subsequent Wait observes the
// new work. A pending signal is kept as-is.
func (fs *flushState) Reset() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.resolved {
		fs.resolved = false
		fs.done = make(chan struct{})
	}
}
