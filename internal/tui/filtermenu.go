package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kenfdev/cctail/internal/view"
)

// filterMenu is the single-select filter overlay opened with `f`. It edits
// a desired FilterState; applying hands the state to the ViewModel, which
// swaps it in atomically.
type filterMenu struct {
	visible bool
	cursor  int
	// desired is the state being edited.
	desired view.FilterState
	// agents are the known subagent slug words ("" is the all-agents row).
	agents []string
}

// open snapshots the current filter state and known agents.
func (fm *filterMenu) open(current view.FilterState, agents []string) {
	fm.visible = true
	fm.cursor = 0
	fm.desired = current
	fm.agents = agents
}

// item count: hide-tools toggle + all-agents + one per agent.
func (fm *filterMenu) itemCount() int {
	return 2 + len(fm.agents)
}

// onKey processes a key while the menu is open. Returns (true, state) when
// the user applied the desired filter.
func (fm *filterMenu) onKey(msg tea.KeyMsg) (bool, view.FilterState) {
	switch msg.String() {
	case "esc":
		fm.visible = false
	case "up", "k":
		if fm.cursor > 0 {
			fm.cursor--
		}
	case "down", "j":
		if fm.cursor < fm.itemCount()-1 {
			fm.cursor++
		}
	case " ":
		fm.toggle(fm.cursor)
	case "enter":
		// Enter on a radio row selects it; the checkbox row keeps its
		// current value. Then the desired state applies.
		if fm.cursor > 0 {
			fm.toggle(fm.cursor)
		}
		fm.visible = false
		return true, fm.desired
	}
	return false, view.FilterState{}
}

func (fm *filterMenu) toggle(idx int) {
	switch {
	case idx == 0:
		fm.desired.HideToolCalls = !fm.desired.HideToolCalls
	case idx == 1:
		fm.desired.SelectedAgent = ""
	default:
		fm.desired.SelectedAgent = fm.agents[idx-2]
	}
}

// view renders the menu into the footer line.
func (fm *filterMenu) view(theme Theme) string {
	var items []string

	check := "[ ]"
	if fm.desired.HideToolCalls {
		check = "[x]"
	}
	items = append(items, check+" hide tool calls")

	radio := func(selected bool) string {
		if selected {
			return "(•)"
		}
		return "( )"
	}
	items = append(items, radio(fm.desired.SelectedAgent == "")+" all agents")
	for _, agent := range fm.agents {
		items = append(items, radio(fm.desired.SelectedAgent == agent)+" "+agent)
	}

	for i := range items {
		if i == fm.cursor {
			items[i] = theme.Selected.Render(items[i])
		}
	}
	return theme.StatusBar.Render("filter: ") + strings.Join(items, "  ") +
		theme.Help.Render("  (space:toggle enter:apply esc:cancel)")
}
