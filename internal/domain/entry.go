package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EntryType is the "type" field of a JSONL log entry.
type EntryType string

const (
	EntryTypeUser                EntryType = "user"
	EntryTypeAssistant           EntryType = "assistant"
	EntryTypeProgress            EntryType = "progress"
	EntryTypeFileHistorySnapshot EntryType = "file-history-snapshot"
	EntryTypeSystem              EntryType = "system"
	EntryTypeQueueOperation      EntryType = "queue-operation"
	EntryTypeUnknown             EntryType = "unknown"
)

// ParseEntryType maps a raw type string to an EntryType. Unrecognised
// strings map to EntryTypeUnknown so new upstream types never fail a parse.
func ParseEntryType(s string) EntryType {
	switch EntryType(s) {
	case EntryTypeUser, EntryTypeAssistant, EntryTypeProgress,
		EntryTypeFileHistorySnapshot, EntryTypeSystem, EntryTypeQueueOperation:
		return EntryType(s)
	default:
		return EntryTypeUnknown
	}
}

// Message is the message object embedded inside a log entry.
//
// Content is kept as raw JSON so we stay forward-compatible with new
// content-block shapes; the render package interprets it lazily.
type Message struct {
	Role    string          `json:"role,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
	Model   string          `json:"model,omitempty"`
}

// LogEntry is a single parsed JSONL log entry.
//
// Every field is optional in the source JSON; missing fields keep their
// zero value. Unknown top-level fields are ignored.
type LogEntry struct {
	EntryType   EntryType       `json:"type"`
	SessionID   string          `json:"sessionId,omitempty"`
	Timestamp   string          `json:"timestamp,omitempty"`
	UUID        string          `json:"uuid,omitempty"`
	ParentUUID  string          `json:"parentUuid,omitempty"`
	IsSidechain bool            `json:"isSidechain,omitempty"`
	AgentID     string          `json:"agentId,omitempty"`
	Slug        string          `json:"slug,omitempty"`
	Message     *Message        `json:"message,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`

	// cached estimate from estimatedSize, 0 until computed
	sizeEstimate int
}

// rawEntry mirrors LogEntry but keeps the type field as a plain string so
// unknown types can be mapped instead of rejected.
type rawEntry struct {
	Type        string          `json:"type"`
	SessionID   string          `json:"sessionId"`
	Timestamp   string          `json:"timestamp"`
	UUID        string          `json:"uuid"`
	ParentUUID  string          `json:"parentUuid"`
	IsSidechain bool            `json:"isSidechain"`
	AgentID     string          `json:"agentId"`
	Slug        string          `json:"slug"`
	Message     *Message        `json:"message"`
	Data        json.RawMessage `json:"data"`
}

// parseErrorSnippetLen bounds how much of a malformed line a ParseError
// carries for diagnostics.
const parseErrorSnippetLen = 200

// ParseError reports a malformed JSONL line together with a truncated
// snippet of the raw text.
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed JSONL line %q: %v", e.Snippet, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseLine parses a single JSONL line into a LogEntry.
//
// Returns a *ParseError for malformed JSON. The caller decides whether to
// skip silently or log (silent skip in normal mode, diagnostic in verbose).
func ParseLine(line []byte) (*LogEntry, error) {
	var raw rawEntry
	if err := json.Unmarshal(line, &raw); err != nil {
		snippet := string(line)
		if len(snippet) > parseErrorSnippetLen {
			snippet = snippet[:parseErrorSnippetLen]
		}
		return nil, &ParseError{Snippet: snippet, Err: err}
	}

	return &LogEntry{
		EntryType:   ParseEntryType(raw.Type),
		SessionID:   raw.SessionID,
		Timestamp:   raw.Timestamp,
		UUID:        raw.UUID,
		ParentUUID:  raw.ParentUUID,
		IsSidechain: raw.IsSidechain,
		AgentID:     raw.AgentID,
		Slug:        raw.Slug,
		Message:     raw.Message,
		Data:        raw.Data,
	}, nil
}

// EstimatedByteSize returns an estimate of the entry's serialized size,
// used for ring-buffer byte accounting. The result is cached after the
// first call; it is deterministic for a given entry.
func (e *LogEntry) EstimatedByteSize() int {
	if e.sizeEstimate > 0 {
		return e.sizeEstimate
	}
	// Fixed overhead for the scalar fields plus the raw payload lengths.
	size := 64 +
		len(e.EntryType) + len(e.SessionID) + len(e.Timestamp) +
		len(e.UUID) + len(e.ParentUUID) + len(e.AgentID) + len(e.Slug) +
		len(e.Data)
	if e.Message != nil {
		size += len(e.Message.Role) + len(e.Message.Model) + len(e.Message.Content)
	}
	e.sizeEstimate = size
	return size
}

// Role returns the message role, or "" when the entry has no message.
func (e *LogEntry) Role() string {
	if e.Message == nil {
		return ""
	}
	return e.Message.Role
}

// AgentSlugWord returns the last token of the subagent slug, used as the
// short display prefix (e.g. "effervescent-soaring-cook" -> "cook").
// Falls back to a shortened agent ID, then "agent".
func (e *LogEntry) AgentSlugWord() string {
	if e.Slug != "" {
		if idx := strings.LastIndex(e.Slug, "-"); idx >= 0 {
			return e.Slug[idx+1:]
		}
		return e.Slug
	}
	if e.AgentID != "" {
		if len(e.AgentID) > 7 {
			return e.AgentID[:7]
		}
		return e.AgentID
	}
	return "agent"
}
