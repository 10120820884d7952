package tail

import "github.com/kenfdev/cctail/internal/domain"

// DefaultByteBudget bounds the total estimated size of buffered entries
// (50 MiB). Pushing past the budget evicts oldest entries first.
const DefaultByteBudget = 50 * 1024 * 1024

type sizedEntry struct {
	entry *domain.LogEntry
	size  int
}

// RingBuffer is a byte-budgeted FIFO of log entries.
//
// Entries are stored in insertion order. When a push would exceed the
// budget, oldest entries are evicted until the new entry fits. A single
// entry larger than the whole budget drains the buffer and is accepted as
// the sole occupant.
//
// The buffer is owned by a single goroutine (the UI loop) and is not
// synchronized.
type RingBuffer struct {
	entries    []sizedEntry
	head       int
	totalBytes int
	budget     int
}

// NewRingBuffer creates a RingBuffer with the given byte budget.
func NewRingBuffer(budget int) *RingBuffer {
	if budget <= 0 {
		budget = DefaultByteBudget
	}
	return &RingBuffer{budget: budget}
}

// Push appends an entry, evicting oldest entries as needed to stay within
// the byte budget. Amortized O(1).
func (rb *RingBuffer) Push(entry *domain.LogEntry) {
	size := entry.EstimatedByteSize()

	for rb.totalBytes+size > rb.budget && rb.head < len(rb.entries) {
		rb.totalBytes -= rb.entries[rb.head].size
		rb.entries[rb.head] = sizedEntry{}
		rb.head++
	}

	// Compact once the dead prefix dominates, keeping append amortized O(1).
	if rb.head > 0 && rb.head*2 >= len(rb.entries) {
		rb.entries = append(rb.entries[:0], rb.entries[rb.head:]...)
		rb.head = 0
	}

	rb.entries = append(rb.entries, sizedEntry{entry: entry, size: size})
	rb.totalBytes += size
}

// Iter calls fn for each entry in insertion order (oldest first); returning
// false stops the iteration.
func (rb *RingBuffer) Iter(fn func(*domain.LogEntry) bool) {
	for _, se := range rb.entries[rb.head:] {
		if !fn(se.entry) {
			return
		}
	}
}

// IterFiltered calls fn for each entry satisfying pred, oldest first.
func (rb *RingBuffer) IterFiltered(pred func(*domain.LogEntry) bool, fn func(*domain.LogEntry) bool) {
	for _, se := range rb.entries[rb.head:] {
		if !pred(se.entry) {
			continue
		}
		if !fn(se.entry) {
			return
		}
	}
}

// ByteSize is the total estimated byte size of buffered entries.
func (rb *RingBuffer) ByteSize() int { return rb.totalBytes }

// Len is the number of buffered entries.
func (rb *RingBuffer) Len() int { return len(rb.entries) - rb.head }

// Budget is the configured byte budget.
func (rb *RingBuffer) Budget() int { return rb.budget }

// Oldest returns the oldest entry, or nil when empty.
func (rb *RingBuffer) Oldest() *domain.LogEntry {
	if rb.Len() == 0 {
		return nil
	}
	return rb.entries[rb.head].entry
}

// Clear removes every entry and resets the byte counter.
func (rb *RingBuffer) Clear() {
	rb.entries = rb.entries[:0]
	rb.head = 0
	rb.totalBytes = 0
}
