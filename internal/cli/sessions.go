package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/kenfdev/cctail/internal/domain"
	"github.com/kenfdev/cctail/internal/project"
	"github.com/kenfdev/cctail/internal/session"
	"github.com/kenfdev/cctail/internal/tail"
)

// SessionsCmd lists the project's discovered sessions.
type SessionsCmd struct {
	Limit int `default:"20" help:"Max sessions to show."`
}

// Run prints a table of sessions, most recent first.
func (c *SessionsCmd) Run(globals *Globals) error {
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

	ix := session.NewIndex()
	sessions, err := ix.Discover(projectDir, c.Limit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(globals.Stdout, "No sessions found in", projectDir)
		return nil
	}

	table := tablewriter.NewWriter(globals.Stdout)
	table.Header("Session", "Status", "Modified", "Agents", "Size")
	for i := range sessions {
		sess := &sessions[i]
		status := "inactive"
		if ix.Status(sess) == domain.SessionActive {
			status = "active"
		}
		if err := table.Append(
			sess.ID,
			status,
			sess.LastModified.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", len(sess.Agents)),
			tail.FormatByteSize(tail.SessionFileSize(sess)),
		); err != nil {
			return err
		}
	}
	return table.Render()
}
