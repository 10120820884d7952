package view

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SearchMode is the state of the search feature.
type SearchMode int

const (
	// SearchInactive: no overlay, no highlights.
	SearchInactive SearchMode = iota
	// SearchInput: the user is typing a query.
	SearchInput
	// SearchActive: matches are highlighted and navigable.
	SearchActive
)

// SearchMatch is one occurrence within the rendered output. ByteStart and
// ByteLen index the original text of the line, always on UTF-8 boundaries.
type SearchMatch struct {
	LineIndex int
	ByteStart int
	ByteLen   int
}

// SearchState is the three-mode search state machine. Matching is
// case-insensitive plain substring over visible rendered lines.
type SearchState struct {
	Mode        SearchMode
	InputBuffer string
	Query       string
	Matches     []SearchMatch
	// Current indexes Matches; -1 means no current match.
	Current int
}

// NewSearchState returns an inactive search state.
func NewSearchState() SearchState {
	return SearchState{Current: -1}
}

// StartInput transitions Inactive -> Input. The previous query is kept so
// confirming an empty buffer re-searches it.
func (s *SearchState) StartInput() {
	s.Mode = SearchInput
	s.InputBuffer = ""
}

// OnRune appends a typed character in Input mode.
func (s *SearchState) OnRune(r rune) {
	if s.Mode == SearchInput {
		s.InputBuffer += string(r)
	}
}

// OnBackspace removes the last character in Input mode.
func (s *SearchState) OnBackspace() {
	if s.Mode != SearchInput || s.InputBuffer == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.InputBuffer)
	s.InputBuffer = s.InputBuffer[:len(s.InputBuffer)-size]
}

// Confirm applies the typed query (Enter in Input mode). With no query at
// all the state returns to Inactive. Matches are computed by the next
// render pass.
func (s *SearchState) Confirm() {
	if s.Mode != SearchInput {
		return
	}
	if s.InputBuffer != "" {
		s.Query = s.InputBuffer
	}
	if s.Query == "" {
		s.Mode = SearchInactive
	} else {
		s.Mode = SearchActive
		s.Matches = nil
		s.Current = -1
	}
	s.InputBuffer = ""
}

// Cancel handles Escape: Input discards the buffer, Active clears the
// query and highlights.
func (s *SearchState) Cancel() {
	switch s.Mode {
	case SearchInput:
		s.Mode = SearchInactive
		s.InputBuffer = ""
	case SearchActive:
		*s = NewSearchState()
	}
}

// NextMatch advances the current match, wrapping at the end.
func (s *SearchState) NextMatch() {
	if len(s.Matches) == 0 {
		return
	}
	if s.Current < 0 {
		s.Current = 0
		return
	}
	s.Current = (s.Current + 1) % len(s.Matches)
}

// PrevMatch retreats the current match, wrapping at the start.
func (s *SearchState) PrevMatch() {
	if len(s.Matches) == 0 {
		return
	}
	if s.Current <= 0 {
		s.Current = len(s.Matches) - 1
		return
	}
	s.Current--
}

// CurrentMatch returns the current match, or nil.
func (s *SearchState) CurrentMatch() *SearchMatch {
	if s.Current < 0 || s.Current >= len(s.Matches) {
		return nil
	}
	return &s.Matches[s.Current]
}

// MatchCounter formats the status-bar counter ("[3/17]"), empty outside
// Active mode.
func (s *SearchState) MatchCounter() string {
	if s.Mode != SearchActive {
		return ""
	}
	if len(s.Matches) == 0 {
		return "[0/0]"
	}
	if s.Current < 0 {
		return fmt.Sprintf("[0/%d]", len(s.Matches))
	}
	return fmt.Sprintf("[%d/%d]", s.Current+1, len(s.Matches))
}

// FindMatches returns every non-overlapping, case-insensitive occurrence
// of query in text as (byteStart, byteLen) pairs into the original text.
//
// Lowercasing can change byte length (İ, ẞ), so matches are located in the
// lowered copy and mapped back through a per-rune offset table. Returned
// ranges always lie on UTF-8 boundaries of the original text.
func FindMatches(text, query string) [][2]int {
	if query == "" || text == "" {
		return nil
	}

	lowered, lowerToOrig := lowerWithOffsets(text)
	queryLower := strings.ToLower(query)
	queryLen := len(queryLower)

	var results [][2]int
	start := 0
	for start+queryLen <= len(lowered) {
		pos := strings.Index(lowered[start:], queryLower)
		if pos < 0 {
			break
		}
		lowerStart := start + pos
		lowerEnd := lowerStart + queryLen
		origStart := mapOffset(lowerToOrig, lowerStart, len(text))
		origEnd := mapOffset(lowerToOrig, lowerEnd, len(text))
		results = append(results, [2]int{origStart, origEnd - origStart})
		start = lowerEnd
	}
	return results
}

// lowerWithOffsets lowercases text rune by rune, recording for each rune
// the pair (lowered byte offset, original byte offset), plus a sentinel
// for end-of-string.
func lowerWithOffsets(text string) (string, [][2]int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([][2]int, 0, len(text)/2+2)

	lowerOff, origOff := 0, 0
	for _, r := range text {
		offsets = append(offsets, [2]int{lowerOff, origOff})
		lr := unicode.ToLower(r)
		b.WriteRune(lr)
		lowerOff += utf8.RuneLen(lr)
		origOff += utf8.RuneLen(r)
	}
	offsets = append(offsets, [2]int{lowerOff, origOff})
	return b.String(), offsets
}

// mapOffset looks up the original byte offset for a lowered byte offset.
// Offsets between rune boundaries resolve to the preceding boundary.
func mapOffset(offsets [][2]int, lowerPos, origLen int) int {
	idx := sort.Search(len(offsets), func(i int) bool {
		return offsets[i][0] >= lowerPos
	})
	if idx < len(offsets) && offsets[idx][0] == lowerPos {
		return offsets[idx][1]
	}
	if idx == 0 {
		return 0
	}
	if idx > len(offsets) {
		return origLen
	}
	return offsets[idx-1][1]
}
