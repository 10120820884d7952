package tui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the lipgloss styles for one color scheme.
type Theme struct {
	Title         lipgloss.Style
	StatusBar     lipgloss.Style
	Help          lipgloss.Style
	Sidebar       lipgloss.Style
	SidebarActive lipgloss.Style
	SessionActive lipgloss.Style
	SessionIdle   lipgloss.Style
	SessionNew    lipgloss.Style
	Selected      lipgloss.Style
	Timestamp     lipgloss.Style
	ToolUse       lipgloss.Style
	Progress      lipgloss.Style
	Unknown       lipgloss.Style
	Match         lipgloss.Style
	CurrentMatch  lipgloss.Style
	Placeholder   lipgloss.Style
}

// DarkTheme is the default theme.
func DarkTheme() Theme {
	return Theme{
		Title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Background(lipgloss.Color("236")).Padding(0, 1),
		StatusBar:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Help:          lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Sidebar:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		SidebarActive: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		SessionActive: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		SessionIdle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		SessionNew:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Selected:      lipgloss.NewStyle().Reverse(true),
		Timestamp:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		ToolUse:       lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		Progress:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Unknown:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Match:         lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230")),
		CurrentMatch:  lipgloss.NewStyle().Background(lipgloss.Color("208")).Foreground(lipgloss.Color("16")).Bold(true),
		Placeholder:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}

// LightTheme adjusts the palette for light terminals.
func LightTheme() Theme {
	t := DarkTheme()
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")).Background(lipgloss.Color("254")).Padding(0, 1)
	t.Sidebar = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	t.ToolUse = lipgloss.NewStyle().Foreground(lipgloss.Color("127"))
	t.Match = lipgloss.NewStyle().Background(lipgloss.Color("153")).Foreground(lipgloss.Color("16"))
	return t
}

// ThemeFor maps a theme name to its styles.
func ThemeFor(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}
