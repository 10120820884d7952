package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenfdev/cctail/internal/view"
)

func TestWrapSegments(t *testing.T) {
	t.Run("short line is one segment", func(t *testing.T) {
		segs := wrapSegments("hello", 10)
		require.Len(t, segs, 1)
		assert.Equal(t, segment{start: 0, end: 5}, segs[0])
	})

	t.Run("long line splits on width", func(t *testing.T) {
		segs := wrapSegments(strings.Repeat("x", 25), 10)
		require.Len(t, segs, 3)
		assert.Equal(t, segment{start: 0, end: 10}, segs[0])
		assert.Equal(t, segment{start: 10, end: 20}, segs[1])
		assert.Equal(t, segment{start: 20, end: 25}, segs[2])
	})

	t.Run("segments respect rune boundaries", func(t *testing.T) {
		line := strings.Repeat("日", 7) // each 2 cells, 3 bytes
		segs := wrapSegments(line, 10)
		require.Len(t, segs, 2)
		for _, seg := range segs {
			assert.Equal(t, 0, seg.start%3)
			assert.Equal(t, 0, seg.end%3)
		}
	})

	t.Run("empty and zero width", func(t *testing.T) {
		assert.Len(t, wrapSegments("", 10), 1)
		assert.Len(t, wrapSegments("abc", 0), 1)
	})
}

func TestWrapSegmentsMatchesVisualAccounting(t *testing.T) {
	// The drawing layer and scroll mode must agree on how many visual
	// lines a logical line occupies.
	lines := []string{
		"short",
		strings.Repeat("x", 35),
		strings.Repeat("日", 12),
		"",
	}
	width := 10
	total := 0
	for _, line := range lines {
		total += len(wrapSegments(line, width))
	}
	assert.Equal(t, view.TotalVisualLines(lines, width), total)
}

func TestStyleSegmentHighlightSlicing(t *testing.T) {
	theme := DarkTheme()
	line := "the auth module handles auth tokens"

	spans := []view.Highlight{
		{LineIndex: 0, ByteStart: 4, ByteEnd: 8},
		{LineIndex: 0, ByteStart: 24, ByteEnd: 28, Current: true},
	}

	seg := segment{start: 0, end: len(line)}
	out := styleSegment(line, seg, spans, DarkTheme().Timestamp, theme)
	// All original bytes survive styling in order.
	stripped := stripANSI(out)
	assert.Equal(t, line, stripped)
}

func TestStyleSegmentPartialOverlap(t *testing.T) {
	theme := DarkTheme()
	line := "abcdefghij"
	// Highlight straddles the segment boundary.
	spans := []view.Highlight{{LineIndex: 0, ByteStart: 3, ByteEnd: 8}}

	first := stripANSI(styleSegment(line, segment{start: 0, end: 5}, spans, DarkTheme().Timestamp, theme))
	second := stripANSI(styleSegment(line, segment{start: 5, end: 10}, spans, DarkTheme().Timestamp, theme))
	assert.Equal(t, "abcde", first)
	assert.Equal(t, "fghij", second)
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inEscape {
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
				inEscape = false
			}
			continue
		}
		if c == 0x1b {
			inEscape = true
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func TestFilterMenu(t *testing.T) {
	key := func(s string) tea.KeyMsg {
		if s == "esc" {
			return tea.KeyMsg{Type: tea.KeyEsc}
		}
		if s == "enter" {
			return tea.KeyMsg{Type: tea.KeyEnter}
		}
		if s == " " {
			return tea.KeyMsg{Type: tea.KeySpace}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	t.Run("toggle hide tools and apply", func(t *testing.T) {
		var fm filterMenu
		fm.open(view.FilterState{}, []string{"cook"})

		applied, _ := fm.onKey(key(" "))
		assert.False(t, applied)
		assert.True(t, fm.desired.HideToolCalls)

		applied, state := fm.onKey(key("enter"))
		assert.True(t, applied)
		assert.True(t, state.HideToolCalls)
		assert.False(t, fm.visible)
	})

	t.Run("select an agent", func(t *testing.T) {
		var fm filterMenu
		fm.open(view.FilterState{}, []string{"cook", "swimmer"})

		fm.onKey(key("j")) // all agents
		fm.onKey(key("j")) // cook
		fm.onKey(key("j")) // swimmer
		applied, state := fm.onKey(key("enter"))
		assert.True(t, applied)
		assert.Equal(t, "swimmer", state.SelectedAgent)
	})

	t.Run("escape cancels without applying", func(t *testing.T) {
		var fm filterMenu
		fm.open(view.FilterState{HideToolCalls: true}, nil)
		applied, _ := fm.onKey(key("esc"))
		assert.False(t, applied)
		assert.False(t, fm.visible)
	})

	t.Run("cursor clamps at both ends", func(t *testing.T) {
		var fm filterMenu
		fm.open(view.FilterState{}, nil)
		fm.onKey(key("k"))
		assert.Equal(t, 0, fm.cursor)
		fm.onKey(key("j"))
		fm.onKey(key("j"))
		fm.onKey(key("j"))
		assert.Equal(t, 1, fm.cursor)
	})
}
