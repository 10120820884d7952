// Package view holds the derived, recomputable state that sits on top of
// the ring buffer: filtering, search, scroll and the per-frame view model.
package view

import (
	"strings"

	"github.com/kenfdev/cctail/internal/domain"
	"github.com/kenfdev/cctail/internal/render"
)

// FilterState is the two-dimensional display filter: an entry-level agent
// selection and a line-level tool-call mask. It is a pure predicate; the
// ViewModel swaps in a new state atomically and rebuilds the line list.
type FilterState struct {
	// HideToolCalls drops tool-use lines from the rendered output.
	HideToolCalls bool
	// SelectedAgent is a subagent slug word; empty shows all agents.
	SelectedAgent string
}

// IsActive reports whether any field deviates from the default.
func (f FilterState) IsActive() bool {
	return f.HideToolCalls || f.SelectedAgent != ""
}

// Matches is the entry-level predicate: with an agent selected, only that
// subagent's entries pass.
func (f FilterState) Matches(e *domain.LogEntry) bool {
	if f.SelectedAgent == "" {
		return true
	}
	return e.IsSidechain && e.AgentSlugWord() == f.SelectedAgent
}

// ToolLineVisible is the line-level predicate for the tool-call mask.
func (f FilterState) ToolLineVisible(line render.Line) bool {
	return !(f.HideToolCalls && line.Kind == render.LineToolUse)
}

// Display renders the status-bar label, empty when inactive.
func (f FilterState) Display() string {
	var parts []string
	if f.HideToolCalls {
		parts = append(parts, "no tools")
	}
	if f.SelectedAgent != "" {
		parts = append(parts, "agent "+f.SelectedAgent)
	}
	if len(parts) == 0 {
		return ""
	}
	return "filter: " + strings.Join(parts, " + ")
}
