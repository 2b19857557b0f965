// Package formatters provides renderers that turn an entry into the
// payload written to the external facility.
package formatters

import (
	"sort"
	"strings"

	"github.com/fanlog/fanlog/core"
)

// Default returns the standard renderer:
//
//	[2006-01-02 15:04:05.000] [LVL] message key=value ...
//
// Properties are appended in key order so output is deterministic.
func Default() core.Formatter {
	return core.FormatterFunc(func(e core.Entry) string {
		var b strings.Builder
		b.WriteByte('[')
		b.WriteString(e.Timestamp.Format("2006-01-02 15:04:05.000"))
		b.WriteString("] [")
		b.WriteString(e.Level.Short())
		b.WriteString("] ")
		b.WriteString(e.Message)

		if len(e.Properties) > 0 {
			keys := make([]string, 0, len(e.Properties))
			for k := range e.Properties {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				b.WriteByte(' ')
				b.WriteString(k)
				b.WriteByte('=')
				b.WriteString(stringify(e.Properties[k]))
			}
		}
		return b.String()
	})
}

// MessageOnly returns a renderer that emits just the entry's message.
func MessageOnly() core.Formatter {
	return core.FormatterFunc(func(e core.Entry) string {
		return e.Message
	})
}

// Uppercase wraps a formatter so its output is upper-cased. A skipped
// entry (empty output) stays skipped.
func Uppercase(inner core.Formatter) core.Formatter {
	return core.FormatterFunc(func(e core.Entry) string {
		return strings.ToUpper(inner.Format(e))
	})
}

// Skip wraps a formatter with a predicate; entries the predicate rejects
// render to the empty string and are dropped by the sink.
func Skip(pred func(core.Entry) bool, inner core.Formatter) core.Formatter {
	return core.FormatterFunc(func(e core.Entry) string {
		if pred(e) {
			return ""
		}
		return inner.Format(e)
	})
}
