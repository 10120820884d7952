package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kenfdev/cctail/internal/domain"
	"github.com/kenfdev/cctail/internal/render"
)

func TestFilterState(t *testing.T) {
	mainEntry := &domain.LogEntry{EntryType: domain.EntryTypeUser}
	cook := &domain.LogEntry{EntryType: domain.EntryTypeAssistant, IsSidechain: true, AgentID: "a1", Slug: "effervescent-soaring-cook"}
	swimmer := &domain.LogEntry{EntryType: domain.EntryTypeAssistant, IsSidechain: true, AgentID: "a2", Slug: "brave-silent-swimmer"}

	t.Run("default matches everything", func(t *testing.T) {
		f := FilterState{}
		assert.False(t, f.IsActive())
		assert.True(t, f.Matches(mainEntry))
		assert.True(t, f.Matches(cook))
	})

	t.Run("agent selection drops other agents and main", func(t *testing.T) {
		f := FilterState{SelectedAgent: "cook"}
		assert.True(t, f.IsActive())
		assert.True(t, f.Matches(cook))
		assert.False(t, f.Matches(swimmer))
		assert.False(t, f.Matches(mainEntry))
	})

	t.Run("tool line mask", func(t *testing.T) {
		toolLine := render.Line{Kind: render.LineToolUse, Body: "[Bash] ls"}
		textLine := render.Line{Kind: render.LineText, Body: "hello"}

		off := FilterState{}
		assert.True(t, off.ToolLineVisible(toolLine))

		on := FilterState{HideToolCalls: true}
		assert.False(t, on.ToolLineVisible(toolLine))
		assert.True(t, on.ToolLineVisible(textLine))
	})

	t.Run("idempotent", func(t *testing.T) {
		f := FilterState{HideToolCalls: true, SelectedAgent: "cook"}
		entries := []*domain.LogEntry{mainEntry, cook, swimmer}
		var once, twice []*domain.LogEntry
		for _, e := range entries {
			if f.Matches(e) {
				once = append(once, e)
			}
		}
		for _, e := range once {
			if f.Matches(e) {
				twice = append(twice, e)
			}
		}
		assert.Equal(t, once, twice)
	})

	t.Run("display labels", func(t *testing.T) {
		assert.Empty(t, FilterState{}.Display())
		assert.Equal(t, "filter: no tools", FilterState{HideToolCalls: true}.Display())
		assert.Equal(t, "filter: agent cook", FilterState{SelectedAgent: "cook"}.Display())
		assert.Equal(t, "filter: no tools + agent cook",
			FilterState{HideToolCalls: true, SelectedAgent: "cook"}.Display())
	})
}
