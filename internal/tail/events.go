package tail

import "github.com/kenfdev/cctail/internal/domain"

// DefaultChannelCapacity bounds in-flight events between the watcher and
// the UI loop. The producer blocks on a full channel rather than dropping.
const DefaultChannelCapacity = 1024

// EventKind discriminates watcher events.
type EventKind int

const (
	// EventEntry carries a decoded log entry.
	EventEntry EventKind = iota
	// EventNewFile announces a newly created .jsonl file.
	EventNewFile
	// EventTruncated reports that a tailed file shrank and was re-read
	// from the start.
	EventTruncated
	// EventParseError reports a malformed line that was skipped.
	EventParseError
	// EventShutdown is the watcher's final message.
	EventShutdown
)

// Event is one message on the watcher channel.
type Event struct {
	Kind  EventKind
	Path  string
	Entry *domain.LogEntry
	// Reason describes parse errors; empty otherwise.
	Reason string
}
