package sinks

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fanlog/fanlog/core"
	"github.com/fanlog/fanlog/formatters"
)

// slowWriter delays every write, for exercising flush and drain paths.
type slowWriter struct {
	MemoryWriter
	delay time.Duration
}

func (w *slowWriter) WriteEntry(payload string, level core.Level, eventID uint32) error {
	time.Sleep(w.delay)
	return w.MemoryWriter.WriteEntry(payload, level, eventID)
}

// gatedWriter blocks every write until the gate is opened.
type gatedWriter struct {
	MemoryWriter
	gate chan struct{}
}

func (w *gatedWriter) WriteEntry(payload string, level core.Level, eventID uint32) error {
	<-w.gate
	return w.MemoryWriter.WriteEntry(payload, level, eventID)
}

// failingWriter fails every write but still records the attempt.
type failingWriter struct {
	MemoryWriter
	err error
}

func (w *failingWriter) WriteEntry(payload string, level core.Level, eventID uint32) error {
	_ = w.MemoryWriter.WriteEntry(payload, level, eventID)
	return w.err
}

func entry(msg string) core.Entry {
	return core.Entry{
		Timestamp: time.Now(),
		Level:     core.InformationLevel,
		EventID:   1,
		Message:   msg,
	}
}

func TestEventSinkAsyncOrder(t *testing.T) {
	mem := NewMemoryWriter()
	sink, err := NewEventSink("TestApp",
		WithAsync(),
		WithWriter(mem),
		WithFormatter(formatters.Uppercase(formatters.MessageOnly())),
	)
	if err != nil {
		t.Fatalf("NewEventSink failed: %v", err)
	}
	defer sink.Close()

	for _, msg := range []string{"a", "b", "c"} {
		sink.OnNext(entry(msg))
	}
	<-sink.Flush()

	got := mem.Payloads()
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("write %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEventSinkFlushIdle(t *testing.T) {
	sink, err := NewEventSink("TestApp", WithAsync(), WithWriter(NewMemoryWriter()))
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	select {
	case <-sink.Flush():
	default:
		t.Error("expected idle flush to be already resolved")
	}
}

func TestEventSinkFlushRepeatedCallsShareSignal(t *testing.T) {
	sink, err := NewEventSink("TestApp", WithAsync(), WithWriter(NewMemoryWriter()))
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	if sink.Flush() != sink.Flush() {
		t.Error("expected repeated flushes with no new entries to return the same signal")
	}
}

func TestEventSinkFlushWaitsForPendingWrites(t *testing.T) {
	w := &gatedWriter{gate: make(chan struct{})}
	sink, err := NewEventSink("TestApp", WithAsync(), WithWriter(w),
		WithFormatter(formatters.MessageOnly()))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		close(w.gate)
		sink.Close()
	}()

	for i := 0; i < 3; i++ {
		sink.OnNext(entry(fmt.Sprintf("event-%d", i)))
	}

	select {
	case <-sink.Flush():
		t.Fatal("flush resolved while writes were still pending")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventSinkFlushResolvesAfterAllAttempts(t *testing.T) {
	w := &slowWriter{delay: 5 * time.Millisecond}
	sink, err := NewEventSink("TestApp", WithAsync(), WithWriter(w),
		WithFormatter(formatters.MessageOnly()))
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	const n = 20
	for i := 0; i < n; i++ {
		sink.OnNext(entry(fmt.Sprintf("event-%d", i)))
	}

	select {
	case <-sink.Flush():
	case <-time.After(5 * time.Second):
		t.Fatal("flush did not resolve")
	}

	if got := w.Count(); got != n {
		t.Errorf("expected %d writes before flush resolved, got %d", n, got)
	}
}

func TestEventSinkCloseDrainsQueue(t *testing.T) {
	w := &slowWriter{delay: time.Millisecond}
	sink, err := NewEventSink("TestApp", WithAsync(), WithWriter(w),
		WithFormatter(formatters.MessageOnly()))
	if err != nil {
		t.Fatal(err)
	}

	const n = 50
	for i := 0; i < n; i++ {
		sink.OnNext(entry(fmt.Sprintf("event-%d", i)))
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if got := w.Count(); got != n {
		t.Errorf("expected Close to drain %d entries, got %d", n, got)
	}
	if !w.Closed() {
		t.Error("expected writer to be closed")
	}
}

func TestEventSinkCloseIdempotent(t *testing.T) {
	mem := NewMemoryWriter()
	sink, err := NewEventSink("TestApp", WithAsync(), WithWriter(mem))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sink.Close(); err != nil {
				t.Errorf("Close failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// OnNext after close is dropped, not a panic.
	sink.OnNext(entry("late"))
	if mem.Count() != 0 {
		t.Error("expected entry after close to be dropped")
	}
}

func TestEventSinkSyncMode(t *testing.T) {
	mem := NewMemoryWriter()
	sink, err := NewEventSink("TestApp", WithWriter(mem),
		WithFormatter(formatters.MessageOnly()))
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	sink.OnNext(entry("inline"))

	// Synchronous mode writes on the calling goroutine.
	if got := mem.Count(); got != 1 {
		t.Fatalf("expected 1 write, got %d", got)
	}
	if got := mem.Payloads()[0]; got != "inline" {
		t.Errorf("got payload %q", got)
	}

	select {
	case <-sink.Flush():
	default:
		t.Error("expected synchronous sink flush to be always resolved")
	}
}

func TestEventSinkSyncModeConcurrentProducers(t *testing.T) {
	mem := NewMemoryWriter()
	sink, err := NewEventSink("TestApp", WithWriter(mem),
		WithFormatter(formatters.MessageOnly()))
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				sink.OnNext(entry(fmt.Sprintf("g%d-%d", g, i)))
			}
		}(g)
	}
	wg.Wait()

	if got := mem.Count(); got != 400 {
		t.Errorf("expected 400 writes, got %d", got)
	}
}

func TestEventSinkAsyncConcurrentProducers(t *testing.T) {
	mem := NewMemoryWriter()
	sink, err := NewEventSink("TestApp", WithAsync(), WithWriter(mem),
		WithFormatter(formatters.MessageOnly()))
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				sink.OnNext(entry(fmt.Sprintf("g%d-%d", g, i)))
			}
		}(g)
	}
	wg.Wait()

	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	if got := mem.Count(); got != 400 {
		t.Errorf("expected 400 writes after drain, got %d", got)
	}
}

func TestEventSinkSkipsEmptyPayload(t *testing.T) {
	mem := NewMemoryWriter()
	skipVerbose := formatters.Skip(func(e core.Entry) bool {
		return e.Level == core.VerboseLevel
	}, formatters.MessageOnly())

	sink, err := NewEventSink("TestApp", WithAsync(), WithWriter(mem),
		WithFormatter(skipVerbose))
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	verbose := entry("noise")
	verbose.Level = core.VerboseLevel
	sink.OnNext(verbose)
	sink.OnNext(entry("signal"))
	<-sink.Flush()

	if got := mem.Payloads(); len(got) != 1 || got[0] != "signal" {
		t.Errorf("expected only the non-verbose entry, got %v", got)
	}
}

func TestEventSinkOnCompletedCloses(t *testing.T) {
	mem := NewMemoryWriter()
	sink, err := NewEventSink("TestApp", WithAsync(), WithWriter(mem),
		WithFormatter(formatters.MessageOnly()))
	if err != nil {
		t.Fatal(err)
	}

	sink.OnNext(entry("last"))
	sink.OnCompleted()

	if mem.Count() != 1 {
		t.Error("expected pending entry to be written before completion")
	}
	if !mem.Closed() {
		t.Error("expected writer to be closed")
	}
}

func TestEventSinkOnErrorCloses(t *testing.T) {
	mem := NewMemoryWriter()
	sink, err := NewEventSink("TestApp", WithAsync(), WithWriter(mem),
		WithFormatter(formatters.MessageOnly()))
	if err != nil {
		t.Fatal(err)
	}

	sink.OnNext(entry("last"))
	sink.OnError(errors.New("upstream broke"))

	if mem.Count() != 1 {
		t.Error("expected pending entry to be written before shutdown")
	}
	if !mem.Closed() {
		t.Error("expected writer to be closed")
	}
}

func TestNewEventSinkValidation(t *testing.T) {
	if _, err := NewEventSink(""); err == nil {
		t.Error("expected error for empty target")
	}

	if _, err := NewEventSink("TestApp", WithWriter(NewMemoryWriter()), WithFormatter(nil)); err == nil {
		t.Error("expected error for nil formatter")
	}
}
