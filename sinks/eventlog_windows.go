//go:build windows
// +build windows

package sinks

import (
	"golang.org/x/sys/windows/svc/eventlog"

	"github.com/fanlog/fanlog/core"
)

// windowsEventWriter appends records to the Windows Event Log through an
// event source handle.
type windowsEventWriter struct {
	log *eventlog.Log
}

// newPlatformWriter opens the event source for the sink. The source
// qualifier takes precedence; an empty source means the target itself is
// the registered source name.
func newPlatformWriter(target, source string) (core.EventWriter, error) {
	name := source
	if name == "" {
		name = target
	}
	l, err := eventlog.Open(name)
	if err != nil {
		return nil, err
	}
	return &windowsEventWriter{log: l}, nil
}

func (w *windowsEventWriter) WriteEntry(payload string, level core.Level, eventID uint32) error {
	// The facility only distinguishes error, warning and info records.
	switch {
	case level >= core.ErrorLevel:
		return w.log.Error(eventID, payload)
	case level == core.WarningLevel:
		return w.log.Warning(eventID, payload)
	default:
		return w.log.Info(eventID, payload)
	}
}

func (w *windowsEventWriter) Close() error {
	return w.log.Close()
}
