package sinks

import (
	"sync"

	"github.com/fanlog/fanlog/core"
)

// WriteRecord is one call captured by a MemoryWriter.
type WriteRecord struct {
	Payload string
	Level   core.Level
	EventID uint32
}

// MemoryWriter records writes in memory. It stands in for the external
// facility in tests and development setups.
type MemoryWriter struct {
	mu      sync.RWMutex
	records []WriteRecord
	closed  bool
}

var _ core.EventWriter = (*MemoryWriter)(nil)

// NewMemoryWriter creates an empty memory writer.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

// WriteEntry records the call.
func (m *MemoryWriter) WriteEntry(payload string, level core.Level, eventID uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, WriteRecord{Payload: payload, Level: level, EventID: eventID})
	return nil
}

// Close marks the writer closed. Closing twice is harmless.
func (m *MemoryWriter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemoryWriter) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Records returns a copy of all captured writes.
func (m *MemoryWriter) Records() []WriteRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]WriteRecord, len(m.records))
	copy(result, m.records)
	return result
}

// Payloads returns just the payload of each captured write, in order.
func (m *MemoryWriter) Payloads() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]string, len(m.records))
	for i, r := range m.records {
		result[i] = r.Payload
	}
	return result
}

// Count returns the number of captured writes.
func (m *MemoryWriter) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Clear removes all captured writes.
func (m *MemoryWriter) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = m.records[:0]
}
