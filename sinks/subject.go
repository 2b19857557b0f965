package sinks

import (
	"sync"

	"github.com/fanlog/fanlog/core"
	"github.com/fanlog/fanlog/selflog"
)

// Subject fans a single entry stream out to a dynamic set of observers.
// It is an observer itself, so a producer pushes into it exactly as it
// would into a single sink, and every notification is re-emitted to the
// current subscriber set.
//
// The subscriber set is held as an immutable snapshot behind a mutex:
// every subscribe/unsubscribe builds a new slice and swaps it wholesale,
// so dispatch reads a consistent set without holding the lock. Completion
// or error freezes the subject exactly once; afterwards the set is
// permanently empty and new subscribers are completed immediately.
type Subject struct {
	mu     sync.Mutex
	subs   []*subscription
	frozen bool
}

var (
	_ core.Observer   = (*Subject)(nil)
	_ core.Observable = (*Subject)(nil)
)

// NewSubject creates an empty, unfrozen subject.
func NewSubject() *Subject {
	return &Subject{}
}

// subscription ties one registered observer to its subject. Identity of
// the pointer distinguishes two registrations of the same observer.
type subscription struct {
	subject  *Subject
	observer core.Observer
	once     sync.Once
}

// Unsubscribe removes exactly this registration from the subject. It is
// idempotent and no-ops if the observer was already removed, including by
// a freeze.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.subject != nil {
			s.subject.remove(s)
		}
	})
}

// Subscribe adds an observer to the live set and returns its unsubscribe
// handle. If the subject is already frozen the observer is told the stream
// has ended and a no-op handle is returned; it never joins the live set.
func (sub *Subject) Subscribe(o core.Observer) core.Subscription {
	sub.mu.Lock()
	if sub.frozen {
		sub.mu.Unlock()
		deliver(o, func() { o.OnCompleted() })
		return &subscription{}
	}

	s := &subscription{subject: sub, observer: o}
	next := make([]*subscription, len(sub.subs), len(sub.subs)+1)
	copy(next, sub.subs)
	sub.subs = append(next, s)
	sub.mu.Unlock()

	return s
}

// OnNext delivers the entry to every observer in the current snapshot, in
// subscription order. Only snapshot retrieval is synchronized; delivery
// runs outside the lock. A failing observer does not prevent the rest of
// the snapshot from being notified.
func (sub *Subject) OnNext(e core.Entry) {
	sub.mu.Lock()
	snapshot := sub.subs
	sub.mu.Unlock()

	for _, s := range snapshot {
		o := s.observer
		deliver(o, func() { o.OnNext(e) })
	}
}

// OnCompleted freezes the subject and notifies the captured snapshot that
// the stream has ended. Only the first termination, completed or failed,
// dispatches anything.
func (sub *Subject) OnCompleted() {
	sub.terminate(nil)
}

// OnError freezes the subject and forwards err to the captured snapshot.
func (sub *Subject) OnError(err error) {
	sub.terminate(err)
}

// Close is equivalent to OnCompleted.
func (sub *Subject) Close() error {
	sub.OnCompleted()
	return nil
}

// terminate performs the one-shot freeze: take the snapshot, mark the
// subject frozen and clear the live set atomically, then dispatch the
// termination notification to the snapshot concurrently. Losers of the
// race observe no snapshot and do nothing.
func (sub *Subject) terminate(err error) {
	sub.mu.Lock()
	if sub.frozen {
		sub.mu.Unlock()
		return
	}
	snapshot := sub.subs
	sub.frozen = true
	sub.subs = nil
	sub.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range snapshot {
		wg.Add(1)
		go func(o core.Observer) {
			defer wg.Done()
			deliver(o, func() {
				if err != nil {
					o.OnError(err)
				} else {
					o.OnCompleted()
				}
			})
		}(s.observer)
	}
	wg.Wait()
}

// remove swaps in a new snapshot without the given registration. Nothing
// happens if it is no longer present.
func (sub *Subject) remove(s *subscription) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	for i, cur := range sub.subs {
		if cur == s {
			next := make([]*subscription, 0, len(sub.subs)-1)
			next = append(next, sub.subs[:i]...)
			next = append(next, sub.subs[i+1:]...)
			sub.subs = next
			return
		}
	}
}

// deliver invokes one observer notification, isolating the rest of the
// dispatch from its panics.
func deliver(o core.Observer, notify func()) {
	defer func() {
		if r := recover(); r != nil {
			if selflog.IsEnabled() {
				selflog.Printf("[subject] observer panic: %v", r)
			}
		}
	}()
	notify()
}
