package render

import (
	"github.com/tidwall/gjson"

	"github.com/kenfdev/cctail/internal/domain"
)

// Entry renders a full log entry into display lines.
//
// Progress entries take a dedicated path: a single progress note derived
// from the entry's data payload. Message entries render their content
// blocks; an entry with a message but no renderable content still produces
// one empty text line so the timestamp and role stay visible.
func Entry(e *domain.LogEntry) []Line {
	ctx := Ctx{
		Role:      e.Role(),
		Timestamp: FormatTimestamp(e.Timestamp),
	}
	if e.IsSidechain {
		ctx.AgentPrefix = "[" + e.AgentSlugWord() + "]"
	}

	if e.EntryType == domain.EntryTypeProgress {
		return []Line{{
			Kind:        LineProgress,
			AgentPrefix: ctx.AgentPrefix,
			Timestamp:   ctx.Timestamp,
			Body:        progressDescription(e),
		}}
	}

	if e.Message == nil {
		return []Line{{Kind: LineText, AgentPrefix: ctx.AgentPrefix, Role: ctx.Role, Timestamp: ctx.Timestamp}}
	}

	lines := ContentBlocks(e.Message.Content, ctx)
	if len(lines) == 0 {
		return []Line{{Kind: LineText, AgentPrefix: ctx.AgentPrefix, Role: ctx.Role, Timestamp: ctx.Timestamp}}
	}
	return lines
}

// progressDescription pulls a short description out of a progress entry's
// data payload, falling back to a generic note.
func progressDescription(e *domain.LogEntry) string {
	if len(e.Data) > 0 {
		for _, key := range []string{"status", "message", "description"} {
			if v := gjson.GetBytes(e.Data, key); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	return "working..."
}
