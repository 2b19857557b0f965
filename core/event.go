package core

import "time"

// Entry represents a single log event flowing through the pipeline.
// An Entry is immutable once produced: the producer owns it until it is
// handed to a sink, after which it is logically shared read-only by every
// subscribed observer.
type Entry struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Level is the severity of the event.
	Level Level

	// EventID is the numeric code recorded against the external facility.
	EventID uint32

	// Message is the rendered (or renderable) payload.
	Message string

	// Properties contains optional structured data attached to the event.
	Properties map[string]any
}

// Property returns the named property value and whether it was present.
func (e Entry) Property(name string) (any, bool) {
	v, ok := e.Properties[name]
	return v, ok
}
