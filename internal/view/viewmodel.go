package view

import (
	"go.uber.org/zap"

	"github.com/kenfdev/cctail/internal/domain"
	"github.com/kenfdev/cctail/internal/render"
	"github.com/kenfdev/cctail/internal/tail"
)

// DefaultDrainPerFrame caps how many channel events one frame consumes.
const DefaultDrainPerFrame = 256

// Highlight is one search-overlay span in the flat line list.
type Highlight struct {
	LineIndex int
	ByteStart int
	ByteEnd   int
	Current   bool
}

// Frame is the per-tick output handed to the drawing layer.
type Frame struct {
	// Lines is the flat display-line list (frozen lines in scroll mode).
	Lines []string
	// Kinds parallels Lines with each line's render kind, for styling.
	Kinds []render.LineKind
	// Highlights are the search overlay spans into Lines.
	Highlights []Highlight
	// Live is true when following the tail (auto-scrolled to bottom).
	Live bool
	// Offset is the first visible visual line.
	Offset int
	// TotalVisualLines is the wrapped line count at the frame's width.
	TotalVisualLines int
}

// DrainResult summarizes one channel drain.
type DrainResult struct {
	Entries   int
	NewFiles  []string
	Truncated []string
	ParseErrs int
	Shutdown  bool
}

// ViewModel orchestrates the ring buffer, filter, search and scroll state
// on each frame. Owned by the single-threaded UI loop.
type ViewModel struct {
	Ring    *tail.RingBuffer
	Filter  FilterState
	Search  SearchState
	Scroll  ScrollState
	Symbols render.Symbols

	// ProgressVisible toggles progress entries independently of --verbose.
	ProgressVisible bool
	// FullHistoryLoaded is set after a confirmed full-history load.
	FullHistoryLoaded bool
	// ActiveSessionID scopes live drains: the watcher observes the whole
	// project directory, but only the active session's entries are
	// buffered. Empty admits everything.
	ActiveSessionID string

	log *zap.SugaredLogger
}

// New creates a ViewModel with the given ring-buffer budget.
func New(budget int, sym render.Symbols, log *zap.SugaredLogger) *ViewModel {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ViewModel{
		Ring:    tail.NewRingBuffer(budget),
		Search:  NewSearchState(),
		Symbols: sym,
		log:     log,
	}
}

// VisiblePredicate is the baseline predicate adjusted for the progress
// toggle, shared by replay and live drains.
func (vm *ViewModel) VisiblePredicate() tail.VisiblePredicate {
	if vm.ProgressVisible {
		return tail.VisibleWithProgress
	}
	return tail.BaselineVisible
}

// Drain consumes up to max events from the watcher channel without
// blocking, pushing entries into the ring buffer.
func (vm *ViewModel) Drain(ch <-chan tail.Event, max int) DrainResult {
	if max <= 0 {
		max = DefaultDrainPerFrame
	}
	var res DrainResult
	for i := 0; i < max; i++ {
		select {
		case ev, ok := <-ch:
			if !ok {
				res.Shutdown = true
				return res
			}
			switch ev.Kind {
			case tail.EventEntry:
				if ev.Entry.EntryType == domain.EntryTypeFileHistorySnapshot {
					break
				}
				if vm.ActiveSessionID != "" && ev.Entry.SessionID != "" &&
					ev.Entry.SessionID != vm.ActiveSessionID {
					break
				}
				// Buffered even when hidden (progress) so the toggle can
				// resurface recent entries without a re-read.
				vm.Ring.Push(ev.Entry)
				res.Entries++
			case tail.EventNewFile:
				res.NewFiles = append(res.NewFiles, ev.Path)
			case tail.EventTruncated:
				res.Truncated = append(res.Truncated, ev.Path)
			case tail.EventParseError:
				res.ParseErrs++
				vm.log.Debugw("parse error", "path", ev.Path, "reason", ev.Reason)
			case tail.EventShutdown:
				res.Shutdown = true
				return res
			}
		default:
			return res
		}
	}
	return res
}

// SwitchSession clears the buffer, replays the session's recent messages
// and resets search and scroll. Returns the per-file EOF offsets for the
// watcher handoff.
func (vm *ViewModel) SwitchSession(sess *domain.Session) map[string]uint64 {
	vm.Ring.Clear()
	vm.FullHistoryLoaded = false
	vm.ActiveSessionID = sess.ID
	entries, offsets := tail.Replay(sess, vm.VisiblePredicate(), tail.DefaultReplayCount, vm.log)
	for _, e := range entries {
		vm.Ring.Push(e)
	}
	vm.Search = NewSearchState()
	vm.Scroll.Exit()
	return offsets
}

// LoadFullHistory clears the buffer and replays the entire session.
func (vm *ViewModel) LoadFullHistory(sess *domain.Session) map[string]uint64 {
	vm.Ring.Clear()
	entries, offsets := tail.Replay(sess, vm.VisiblePredicate(), tail.ReplayAll, vm.log)
	for _, e := range entries {
		vm.Ring.Push(e)
	}
	vm.FullHistoryLoaded = true
	return offsets
}

// ApplyFilter atomically swaps in the desired filter state. Search resets
// and scroll exits so the next frame rebuilds from scratch.
func (vm *ViewModel) ApplyFilter(f FilterState) {
	vm.Filter = f
	vm.Search = NewSearchState()
	vm.Scroll.Exit()
}

// ConfirmSearch confirms the typed query. An active search forces scroll
// mode so the view can jump to the first match.
func (vm *ViewModel) ConfirmSearch() {
	vm.Search.Confirm()
	if vm.Search.Mode == SearchActive {
		vm.Scroll.Invalidate(PendingToMatch, 0)
	}
}

// NextMatch moves to the next match and scrolls it near the top of the
// viewport.
func (vm *ViewModel) NextMatch() {
	vm.Search.NextMatch()
	if vm.Search.Mode == SearchActive {
		vm.Scroll.Invalidate(PendingToMatch, 0)
	}
}

// PrevMatch moves to the previous match and scrolls it near the top of the
// viewport.
func (vm *ViewModel) PrevMatch() {
	vm.Search.PrevMatch()
	if vm.Search.Mode == SearchActive {
		vm.Scroll.Invalidate(PendingToMatch, 0)
	}
}

// CancelSearch clears the search; highlights disappear on the next frame.
func (vm *ViewModel) CancelSearch() {
	vm.Search.Cancel()
}

// RenderLines rebuilds the logical line list from the ring buffer under
// the active filter, returning flat display strings plus line kinds.
func (vm *ViewModel) RenderLines() ([]string, []render.LineKind) {
	var texts []string
	var kinds []render.LineKind
	visible := vm.VisiblePredicate()
	vm.Ring.IterFiltered(vm.Filter.Matches, func(e *domain.LogEntry) bool {
		if !visible(e) {
			return true
		}
		for _, line := range render.Entry(e) {
			if !vm.Filter.ToolLineVisible(line) {
				continue
			}
			texts = append(texts, render.FormatLine(line, vm.Symbols))
			kinds = append(kinds, line.Kind)
		}
		return true
	})
	return texts, kinds
}

// Frame runs the per-tick pipeline: render under the filter, rescan
// search, resolve scroll, and emit the flat output for drawing.
func (vm *ViewModel) Frame(innerWidth, viewportHeight int) Frame {
	texts, kinds := vm.RenderLines()

	// Scroll resolution. A pending request snapshots the lines rendered
	// this frame; an active snapshot keeps displaying its frozen lines.
	displayed := texts
	displayedKinds := kinds
	live := true
	offset := 0

	if vm.Scroll.Pending != nil {
		matchLine := vm.rescan(texts)
		vm.Scroll.Materialize(texts, innerWidth, viewportHeight, matchLine)
	}

	var total int
	if snap := vm.Scroll.Active; snap != nil {
		displayed = snap.Lines
		displayedKinds = nil // kinds are only styled live; frozen lines use defaults
		live = false
		offset = snap.Offset
		total = snap.TotalVisualLines
		vm.rescan(displayed)
	} else {
		total = TotalVisualLines(texts, innerWidth)
		offset = maxInt(0, total-viewportHeight)
		if vm.Search.Mode == SearchActive {
			vm.rescan(texts)
		} else if vm.Search.Mode == SearchInactive {
			vm.Search.Matches = nil
			vm.Search.Current = -1
		}
	}

	var highlights []Highlight
	if vm.Search.Mode == SearchActive {
		highlights = make([]Highlight, 0, len(vm.Search.Matches))
		for i, m := range vm.Search.Matches {
			highlights = append(highlights, Highlight{
				LineIndex: m.LineIndex,
				ByteStart: m.ByteStart,
				ByteEnd:   m.ByteStart + m.ByteLen,
				Current:   i == vm.Search.Current,
			})
		}
	}

	return Frame{
		Lines:            displayed,
		Kinds:            displayedKinds,
		Highlights:       highlights,
		Live:             live,
		Offset:           offset,
		TotalVisualLines: total,
	}
}

// rescan recomputes search matches over the given lines, preserving the
// current match identity by (lineIndex, byteRange) when possible. Returns
// the logical line of the current match, -1 when none.
func (vm *ViewModel) rescan(lines []string) int {
	if vm.Search.Mode != SearchActive || vm.Search.Query == "" {
		return -1
	}

	prev := vm.Search.CurrentMatch()

	var matches []SearchMatch
	for idx, text := range lines {
		for _, m := range FindMatches(text, vm.Search.Query) {
			matches = append(matches, SearchMatch{LineIndex: idx, ByteStart: m[0], ByteLen: m[1]})
		}
	}
	vm.Search.Matches = matches

	vm.Search.Current = -1
	if prev != nil {
		for i, m := range matches {
			if m == *prev {
				vm.Search.Current = i
				break
			}
		}
	}
	if vm.Search.Current < 0 && len(matches) > 0 {
		vm.Search.Current = 0
	}

	if cur := vm.Search.CurrentMatch(); cur != nil {
		return cur.LineIndex
	}
	return -1
}
