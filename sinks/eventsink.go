package sinks

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fanlog/fanlog/core"
	"github.com/fanlog/fanlog/formatters"
	"github.com/fanlog/fanlog/selflog"
)

// EventSink consumes entries as an observer and writes each one to an
// external facility, either inline on the calling goroutine or through a
// dedicated background worker draining an unbounded FIFO queue.
//
// Failures on the write path are never surfaced to the producer: a sink
// must not be able to crash or block application logic because of its own
// I/O problems. They are reported through selflog instead.
//
// The owner must call Close (or OnCompleted/OnError) when done with the
// sink; an abandoned asynchronous sink leaks its worker goroutine and the
// external handle.
type EventSink struct {
	target    string
	source    string
	formatter core.Formatter
	writer    core.EventWriter
	async     bool

	// writeMu serializes inline writes to the external handle so
	// concurrent producers cannot interleave records.
	writeMu sync.Mutex

	qmu      sync.Mutex
	qcond    *sync.Cond
	queue    []core.Entry
	stopping bool
	wg       sync.WaitGroup

	flush *flushState

	closeOnce sync.Once
	closeErr  error
}

var _ core.Observer = (*EventSink)(nil)

// Option configures an EventSink.
type Option func(*sinkConfig)

type sinkConfig struct {
	source       string
	formatter    core.Formatter
	formatterSet bool
	writer       core.EventWriter
	async        bool
}

// WithSource sets the source qualifier recorded with the external
// facility. Empty means "use the target as the source".
func WithSource(source string) Option {
	return func(c *sinkConfig) { c.source = source }
}

// WithFormatter replaces the default renderer. Passing nil is a
// construction error.
func WithFormatter(f core.Formatter) Option {
	return func(c *sinkConfig) {
		c.formatter = f
		c.formatterSet = true
	}
}

// WithAsync makes the sink queue entries and write them from a background
// worker instead of on the calling goroutine.
func WithAsync() Option {
	return func(c *sinkConfig) { c.async = true }
}

// WithWriter replaces the platform event-log writer with a custom
// EventWriter. The sink takes ownership and closes it on Close.
func WithWriter(w core.EventWriter) Option {
	return func(c *sinkConfig) { c.writer = w }
}

// NewEventSink creates a sink writing to the external facility identified
// by target. Construction fails fast on an empty target or a nil
// formatter; no partially constructed sink is ever returned.
func NewEventSink(target string, opts ...Option) (*EventSink, error) {
	if target == "" {
		return nil, errors.New("eventsink: target must not be empty")
	}

	cfg := sinkConfig{formatter: formatters.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.formatterSet && cfg.formatter == nil {
		return nil, errors.New("eventsink: formatter must not be nil")
	}

	writer := cfg.writer
	if writer == nil {
		w, err := newPlatformWriter(target, cfg.source)
		if err != nil {
			return nil, fmt.Errorf("eventsink: open facility for %q: %w", target, err)
		}
		writer = w
	}

	s := &EventSink{
		target:    target,
		source:    cfg.source,
		formatter: cfg.formatter,
		writer:    writer,
		async:     cfg.async,
		flush:     newFlushState(),
	}

	if s.async {
		s.qcond = sync.NewCond(&s.qmu)
		s.wg.Add(1)
		go s.worker()
	}

	return s, nil
}

// Target returns the identity of the external facility this sink writes to.
func (s *EventSink) Target() string { return s.target }

// Async reports whether the sink writes through a background worker.
func (s *EventSink) Async() bool { return s.async }

// OnNext accepts one entry. In synchronous mode it formats and writes
// inline, holding the write lock for the duration of the external call. In
// asynchronous mode it enqueues and returns immediately, re-arming the
// flush signal if the previous one had already resolved.
func (s *EventSink) OnNext(e core.Entry) {
	if !s.async {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		s.attempt(e)
		return
	}

	s.qmu.Lock()
	if s.stopping {
		s.qmu.Unlock()
		return
	}
	s.flush.Reset()
	s.queue = append(s.queue, e)
	s.qcond.Signal()
	s.qmu.Unlock()
}

// Flush returns a channel that is closed once every entry accepted so far
// has been attempted against the external facility, successfully or not.
// An idle sink yields an already-closed channel, and repeated calls with no
// intervening entries return the same signal.
func (s *EventSink) Flush() <-chan struct{} {
	return s.flush.Wait()
}

// OnCompleted drains pending work and closes the sink.
func (s *EventSink) OnCompleted() {
	_ = s.Close()
}

// OnError drains pending work and closes the sink. The upstream error is
// recorded through selflog; shutdown does not otherwise depend on it.
func (s *EventSink) OnError(err error) {
	if err != nil && selflog.IsEnabled() {
		selflog.Printf("[eventsink] %s: upstream error: %v", s.target, err)
	}
	_ = s.Close()
}

// Close stops the sink and releases the external handle. In asynchronous
// mode it signals the worker, waits for the queue to drain fully, then
// closes the writer; a write already in flight is allowed to finish.
// Close is idempotent, and concurrent callers block until the first call
// has completed.
func (s *EventSink) Close() error {
	s.closeOnce.Do(func() {
		if s.async {
			s.qmu.Lock()
			s.stopping = true
			s.qcond.Signal()
			s.qmu.Unlock()

			s.wg.Wait()

			s.qmu.Lock()
			s.queue = nil
			s.qmu.Unlock()
		}
		s.closeErr = s.writer.Close()
	})
	return s.closeErr
}

// worker drains the queue one entry at a time. It has two states: running,
// where an empty queue resolves the flush signal and blocks for more work,
// and draining, entered when Close signals stop, where the remaining queue
// is written out and the loop exits. The flush signal is resolved exactly
// once more on exit so no waiter is left hanging.
func (s *EventSink) worker() {
	defer s.wg.Done()

	for {
		s.qmu.Lock()
		for len(s.queue) == 0 && !s.stopping {
			s.flush.Resolve()
			s.qcond.Wait()
		}
		if len(s.queue) == 0 {
			s.qmu.Unlock()
			break
		}
		e := s.queue[0]
		s.queue = s.queue[1:]
		s.qmu.Unlock()

		s.attempt(e)
	}

	s.flush.Resolve()
}

// attempt renders and writes one entry. A formatter returning "" skips the
// entry; every other failure, including panics out of the formatter or the
// writer, is swallowed and reported so the next entry proceeds normally.
func (s *EventSink) attempt(e core.Entry) {
	defer func() {
		if r := recover(); r != nil {
			if selflog.IsEnabled() {
				selflog.Printf("[eventsink] %s: write panic: %v", s.target, r)
			}
		}
	}()

	payload := s.formatter.Format(e)
	if payload == "" {
		return
	}

	if err := s.writer.WriteEntry(payload, e.Level, e.EventID); err != nil {
		if selflog.IsEnabled() {
			selflog.Printf("[eventsink] %s: write failed: %v", s.target, err)
		}
	}
}
