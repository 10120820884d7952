package render

import (
	"strings"

	"github.com/kenfdev/cctail/internal/domain"
)

// Symbols is the indicator set used in line prefixes. Two stable variants
// exist: emoji for interactive terminals, ASCII for piped output.
type Symbols struct {
	User      string
	Assistant string
	System    string
	Progress  string
	ToolUse   string
	Unknown   string
}

// EmojiSymbols is the interactive-terminal symbol set.
func EmojiSymbols() Symbols {
	return Symbols{
		User:      "🧑",
		Assistant: "🤖",
		System:    "⚙️",
		Progress:  "⏳",
		ToolUse:   "~",
		Unknown:   "?",
	}
}

// ASCIISymbols is the piped-output symbol set.
func ASCIISymbols() Symbols {
	return Symbols{
		User:      "[H]",
		Assistant: "[A]",
		System:    "[S]",
		Progress:  "[P]",
		ToolUse:   "~",
		Unknown:   "?",
	}
}

// RoleIndicator picks the indicator for an entry type.
func (s Symbols) RoleIndicator(entryType domain.EntryType) string {
	switch entryType {
	case domain.EntryTypeUser:
		return s.User
	case domain.EntryTypeAssistant:
		return s.Assistant
	case domain.EntryTypeSystem:
		return s.System
	case domain.EntryTypeProgress:
		return s.Progress
	default:
		return s.Unknown
	}
}

// Indicator picks the indicator for a rendered line, using the line's role
// for text lines and the fixed tool/unknown markers otherwise.
func (s Symbols) Indicator(line Line) string {
	switch line.Kind {
	case LineToolUse:
		return s.ToolUse
	case LineUnknown:
		return s.Unknown
	case LineProgress:
		return s.Progress
	default:
		switch line.Role {
		case "user":
			return s.User
		case "assistant":
			return s.Assistant
		case "system":
			return s.System
		default:
			return s.Unknown
		}
	}
}

// FormatLine assembles the flat display text of a line:
// "HH:MM:SS <indicator>[ prefix] <body>".
func FormatLine(line Line, sym Symbols) string {
	var b strings.Builder
	b.WriteString(line.Timestamp)
	b.WriteByte(' ')
	b.WriteString(sym.Indicator(line))
	if line.AgentPrefix != "" {
		b.WriteByte(' ')
		b.WriteString(line.AgentPrefix)
	}
	b.WriteByte(' ')
	b.WriteString(line.Body)
	return b.String()
}

// FormatTimestamp extracts HH:MM:SS from an ISO 8601 timestamp, returning
// "--:--:--" when the timestamp is missing or unrecognisable.
func FormatTimestamp(ts string) string {
	if idx := strings.IndexByte(ts, 'T'); idx >= 0 {
		timePart := ts[idx+1:]
		if len(timePart) >= 8 && timePart[2] == ':' && timePart[5] == ':' {
			return timePart[:8]
		}
	}
	return "--:--:--"
}
