package sinks

import (
	"github.com/go-logr/logr"

	"github.com/fanlog/fanlog/core"
)

// logrWriter is an EventWriter that forwards records to a logr.Logger,
// letting a sink target whatever backend the host application already
// logs through.
type logrWriter struct {
	logger logr.Logger
}

var _ core.EventWriter = (*logrWriter)(nil)

// NewLogrWriter creates an EventWriter backed by the given logr.Logger.
func NewLogrWriter(logger logr.Logger) core.EventWriter {
	return &logrWriter{logger: logger}
}

func (w *logrWriter) WriteEntry(payload string, level core.Level, eventID uint32) error {
	switch {
	case level >= core.ErrorLevel:
		w.logger.Error(nil, payload, "eventId", eventID, "level", level.String())
	case level == core.VerboseLevel:
		w.logger.V(1).Info(payload, "eventId", eventID)
	default:
		w.logger.Info(payload, "eventId", eventID)
	}
	return nil
}

func (w *logrWriter) Close() error {
	return nil
}
