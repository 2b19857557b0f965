package sinks

import (
	"github.com/rs/zerolog"

	"github.com/fanlog/fanlog/core"
)

// zerologWriter is an EventWriter that forwards records to a
// zerolog.Logger.
type zerologWriter struct {
	l zerolog.Logger
}

var _ core.EventWriter = (*zerologWriter)(nil)

// NewZerologWriter creates an EventWriter backed by the given zerolog
// logger. Critical records are written with WithLevel at fatal severity,
// which does not terminate the process.
func NewZerologWriter(l zerolog.Logger) core.EventWriter {
	return &zerologWriter{l: l}
}

func (w *zerologWriter) WriteEntry(payload string, level core.Level, eventID uint32) error {
	zlvl := zerologLevel(level)
	if zlvl != zerolog.NoLevel && zlvl < w.l.GetLevel() {
		return nil
	}
	w.l.WithLevel(zlvl).Uint32("eventId", eventID).Msg(payload)
	return nil
}

func (w *zerologWriter) Close() error {
	return nil
}

func zerologLevel(level core.Level) zerolog.Level {
	switch level {
	case core.CriticalLevel:
		return zerolog.FatalLevel
	case core.ErrorLevel:
		return zerolog.ErrorLevel
	case core.WarningLevel:
		return zerolog.WarnLevel
	case core.InformationLevel:
		return zerolog.InfoLevel
	case core.VerboseLevel:
		return zerolog.DebugLevel
	default:
		// LogAlways bypasses level filtering entirely.
		return zerolog.NoLevel
	}
}
