package core

import (
	"fmt"
	"strings"
)

// Level specifies the severity of a log entry. Values are ordered by
// increasing severity; LogAlways is the lowest and is never filtered.
type Level int

const (
	// LogAlwaysLevel marks entries that bypass severity filtering.
	LogAlwaysLevel Level = iota

	// VerboseLevel is the most detailed logging level.
	VerboseLevel

	// InformationLevel is for informational messages.
	InformationLevel

	// WarningLevel is for warnings.
	WarningLevel

	// ErrorLevel is for errors.
	ErrorLevel

	// CriticalLevel is for unrecoverable failures.
	CriticalLevel
)

// String returns the canonical name of the level.
func (l Level) String() string {
	switch l {
	case LogAlwaysLevel:
		return "LogAlways"
	case VerboseLevel:
		return "Verbose"
	case InformationLevel:
		return "Information"
	case WarningLevel:
		return "Warning"
	case ErrorLevel:
		return "Error"
	case CriticalLevel:
		return "Critical"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Short returns the three-letter form used by the default renderer.
func (l Level) Short() string {
	switch l {
	case LogAlwaysLevel:
		return "ALL"
	case VerboseLevel:
		return "VRB"
	case InformationLevel:
		return "INF"
	case WarningLevel:
		return "WRN"
	case ErrorLevel:
		return "ERR"
	case CriticalLevel:
		return "CRT"
	default:
		return "???"
	}
}

// ParseLevel parses a level name, accepting both the canonical and the
// abbreviated forms.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "logalways", "all":
		return LogAlwaysLevel, nil
	case "verbose", "vrb":
		return VerboseLevel, nil
	case "information", "info", "inf":
		return InformationLevel, nil
	case "warning", "warn", "wrn":
		return WarningLevel, nil
	case "error", "err":
		return ErrorLevel, nil
	case "critical", "crit", "crt":
		return CriticalLevel, nil
	default:
		return InformationLevel, fmt.Errorf("unknown level: %s", s)
	}
}
