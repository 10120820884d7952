package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kenfdev/cctail/internal/project"
	"github.com/kenfdev/cctail/internal/tui"
)

// TuiCmd launches the interactive TUI, the default command.
type TuiCmd struct{}

// Run resolves the project directory, builds the model and enters the
// bubbletea event loop.
func (c *TuiCmd) Run(globals *Globals) error {
	resolver, err := project.NewResolver()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	projectDir, err := resolver.Resolve(cwd, globals.Project)
	if err != nil {
		return err
	}
	globals.Log.Infow("resolved project", "dir", projectDir)

	model, err := tui.New(globals.Config, projectDir, project.DisplayName(projectDir), globals.Session, globals.Log)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal error: %w", err)
	}
	return nil
}
