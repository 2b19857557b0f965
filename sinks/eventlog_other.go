//go:build !windows
// +build !windows

package sinks

import (
	"log/syslog"
	"strconv"

	"github.com/fanlog/fanlog/core"
)

// syslogEventWriter appends records to the local syslog daemon, the
// closest equivalent of a system event log on non-Windows platforms.
type syslogEventWriter struct {
	w *syslog.Writer
}

func newPlatformWriter(target, source string) (core.EventWriter, error) {
	tag := source
	if tag == "" {
		tag = target
	}
	w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, tag)
	if err != nil {
		return nil, err
	}
	return &syslogEventWriter{w: w}, nil
}

func (w *syslogEventWriter) WriteEntry(payload string, level core.Level, eventID uint32) error {
	msg := "[" + strconv.FormatUint(uint64(eventID), 10) + "] " + payload
	switch level {
	case core.CriticalLevel:
		return w.w.Crit(msg)
	case core.ErrorLevel:
		return w.w.Err(msg)
	case core.WarningLevel:
		return w.w.Warning(msg)
	case core.VerboseLevel:
		return w.w.Debug(msg)
	default:
		return w.w.Info(msg)
	}
}

func (w *syslogEventWriter) Close() error {
	return w.w.Close()
}
