package formatters

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fanlog/fanlog/core"
)

// Template returns a renderer driven by a layout string with {Name}
// placeholders. {Timestamp}, {Level}, {EventID} and {Message} are built in;
// any other name is looked up in the entry's properties and renders empty
// when absent. Braces with no closing brace are emitted literally.
func Template(layout string) core.Formatter {
	return core.FormatterFunc(func(e core.Entry) string {
		var b strings.Builder
		rest := layout
		for {
			open := strings.IndexByte(rest, '{')
			if open < 0 {
				b.WriteString(rest)
				return b.String()
			}
			end := strings.IndexByte(rest[open:], '}')
			if end < 0 {
				b.WriteString(rest)
				return b.String()
			}
			b.WriteString(rest[:open])
			name := rest[open+1 : open+end]
			b.WriteString(expand(e, name))
			rest = rest[open+end+1:]
		}
	})
}

func expand(e core.Entry, name string) string {
	switch name {
	case "Timestamp":
		return e.Timestamp.Format("2006-01-02 15:04:05.000")
	case "Level":
		return e.Level.String()
	case "EventID":
		return strconv.FormatUint(uint64(e.EventID), 10)
	case "Message":
		return e.Message
	default:
		if v, ok := e.Property(name); ok {
			return stringify(v)
		}
		return ""
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
