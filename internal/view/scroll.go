package view

import (
	"github.com/mattn/go-runewidth"
)

// scrollOff keeps the current search match a few visual lines below the
// top when jumping to it.
const scrollOff = 3

// PendingKind describes a recorded scroll request awaiting the next render
// phase (which knows the wrap width).
type PendingKind int

const (
	// PendingUp scrolls up by Delta visual lines from the bottom.
	PendingUp PendingKind = iota
	// PendingTop jumps to the first visual line.
	PendingTop
	// PendingHalfPageUp scrolls up half a viewport.
	PendingHalfPageUp
	// PendingToMatch places the current search match scrollOff visual lines
	// below the top of the viewport.
	PendingToMatch
)

// PendingScroll is the recorded request of the two-phase entry handshake.
type PendingScroll struct {
	Kind  PendingKind
	Delta int
}

// ScrollSnapshot is the frozen viewport captured when scroll mode
// activates. The snapshot does not change as new entries arrive; exiting
// scroll mode drops it.
type ScrollSnapshot struct {
	// Lines is the frozen flat display-line list.
	Lines []string
	// TotalVisualLines is the wrapped line count under InnerWidth.
	TotalVisualLines int
	// InnerWidth is the wrap width the snapshot was computed for.
	InnerWidth int
	// ViewportHeight is the visible row count at snapshot time.
	ViewportHeight int
	// Offset is the index of the first visible visual line, clamped to
	// [0, max(0, TotalVisualLines-ViewportHeight)].
	Offset int

	// per-logical-line visual heights, for match positioning
	heights []int
}

// ScrollState is the scroll-mode state machine: nil/nil means live tail.
type ScrollState struct {
	Pending *PendingScroll
	Active  *ScrollSnapshot
}

// IsLive reports whether the view is following the tail.
func (s *ScrollState) IsLive() bool { return s.Pending == nil && s.Active == nil }

// Request records a pending scroll request. In live mode this starts the
// two-phase entry; with an active snapshot the request applies directly on
// the next render via the same pending path.
func (s *ScrollState) Request(kind PendingKind, delta int) {
	s.Pending = &PendingScroll{Kind: kind, Delta: delta}
}

// Invalidate drops the active snapshot but keeps scroll mode engaged via a
// pending request, so the next render re-materializes with fresh lines.
// Used when search navigation must re-center on a new frame.
func (s *ScrollState) Invalidate(kind PendingKind, delta int) {
	s.Active = nil
	s.Pending = &PendingScroll{Kind: kind, Delta: delta}
}

// Exit returns to live tailing, dropping any snapshot.
func (s *ScrollState) Exit() {
	s.Pending = nil
	s.Active = nil
}

// Materialize resolves a pending request against the just-rendered lines,
// producing the Active snapshot. matchLine is the logical line of the
// current search match (-1 when none); it anchors PendingToMatch.
func (s *ScrollState) Materialize(lines []string, innerWidth, viewportHeight, matchLine int) {
	pending := s.Pending
	if pending == nil {
		return
	}
	s.Pending = nil

	if len(lines) == 0 {
		s.Active = nil
		return
	}

	prevOffset := -1
	if s.Active != nil {
		prevOffset = s.Active.Offset
	}

	snap := newSnapshot(lines, innerWidth, viewportHeight)
	maxOffset := snap.maxOffset()

	switch pending.Kind {
	case PendingTop:
		snap.Offset = 0
	case PendingHalfPageUp:
		base := maxOffset
		if prevOffset >= 0 {
			base = prevOffset
		}
		snap.Offset = clamp(base-(viewportHeight+1)/2, 0, maxOffset)
	case PendingToMatch:
		if matchLine >= 0 {
			snap.Offset = clamp(snap.VisualPositionOfLine(matchLine)-scrollOff, 0, maxOffset)
		} else {
			snap.Offset = maxOffset
		}
	default: // PendingUp
		base := maxOffset
		if prevOffset >= 0 {
			base = prevOffset
		}
		snap.Offset = clamp(base-pending.Delta, 0, maxOffset)
	}

	s.Active = snap
}

// ScrollBy moves the active snapshot by delta visual lines (positive is
// down). Returns true when scrolling past the bottom should exit to live.
func (s *ScrollState) ScrollBy(delta int) (atBottom bool) {
	if s.Active == nil {
		return false
	}
	maxOffset := s.Active.maxOffset()
	next := s.Active.Offset + delta
	s.Active.Offset = clamp(next, 0, maxOffset)
	return next >= maxOffset
}

func newSnapshot(lines []string, innerWidth, viewportHeight int) *ScrollSnapshot {
	snap := &ScrollSnapshot{
		Lines:          lines,
		InnerWidth:     innerWidth,
		ViewportHeight: viewportHeight,
		heights:        make([]int, len(lines)),
	}
	total := 0
	for i, line := range lines {
		h := visualHeight(line, innerWidth)
		snap.heights[i] = h
		total += h
	}
	snap.TotalVisualLines = total
	return snap
}

func (snap *ScrollSnapshot) maxOffset() int {
	return maxInt(0, snap.TotalVisualLines-snap.ViewportHeight)
}

// VisualPositionOfLine is the visual row where logical line idx starts:
// the sum of wrapped heights of all preceding lines.
func (snap *ScrollSnapshot) VisualPositionOfLine(idx int) int {
	pos := 0
	for i := 0; i < idx && i < len(snap.heights); i++ {
		pos += snap.heights[i]
	}
	return pos
}

// TotalVisualLines sums the wrapped height of each line at the given wrap
// width. An empty logical line still occupies one visual row.
func TotalVisualLines(lines []string, width int) int {
	total := 0
	for _, line := range lines {
		total += visualHeight(line, width)
	}
	return total
}

func visualHeight(line string, width int) int {
	if width <= 0 {
		return 1
	}
	w := runewidth.StringWidth(line)
	if w == 0 {
		return 1
	}
	return (w + width - 1) / width
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
