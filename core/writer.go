package core

// EventWriter is the external write capability: an append-only facility
// that records one formatted payload together with its severity and
// numeric event code. Implementations are not required to be safe for
// concurrent use; callers serialize access to a single writer.
type EventWriter interface {
	// WriteEntry appends one record to the facility.
	WriteEntry(payload string, level Level, eventID uint32) error

	// Close releases the underlying handle.
	Close() error
}

// Formatter renders an entry into the payload written to the external
// facility. Returning an empty string means the entry should be skipped.
type Formatter interface {
	Format(e Entry) string
}

// FormatterFunc adapts a plain function to the Formatter interface.
type FormatterFunc func(e Entry) string

// Format calls f(e).
func (f FormatterFunc) Format(e Entry) string {
	return f(e)
}
