// Package cli defines the command surface: the TUI by default, plus the
// stream, sessions and version subcommands.
package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/kenfdev/cctail/internal/config"
)

// CLI is the root command structure.
type CLI struct {
	// Global flags
	Project string `help:"Project directory (code path; converted to the ~/.claude/projects/ equivalent)." type:"path"`
	Session string `help:"Attach to a session by ID prefix (default: most recent)."`
	Verbose bool   `short:"v" help:"Show progress entries and parse diagnostics."`
	ASCII   bool   `help:"Use ASCII symbols instead of emoji."`
	Theme   string `help:"Color theme: dark or light."`

	// Commands
	Tui      TuiCmd      `cmd:"" default:"1" help:"Interactive TUI (default command)"`
	Stream   StreamCmd   `cmd:"" help:"Tail a single JSONL file to stdout"`
	Sessions SessionsCmd `cmd:"" help:"List discovered sessions for the project"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands.
type Globals struct {
	Project string
	Session string
	Verbose bool
	ASCII   bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Log     *zap.SugaredLogger
}

// NewGlobals merges CLI flags over config values.
func NewGlobals(c *CLI, cfg *config.Config, log *zap.SugaredLogger) *Globals {
	if c.Verbose {
		cfg.Verbose = true
	}
	if c.ASCII {
		cfg.ASCII = true
	}
	if c.Theme != "" {
		cfg.Theme = c.Theme
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Globals{
		Project: c.Project,
		Session: c.Session,
		Verbose: cfg.Verbose,
		ASCII:   cfg.ASCII,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
		Log:     log,
	}
}

// Version information (set at build time).
var (
	Version = "dev"
	Commit  = "none"
)

// VersionCmd shows version information.
type VersionCmd struct{}

// Run executes the version command.
func (v *VersionCmd) Run(globals *Globals) error {
	_, err := io.WriteString(globals.Stdout, "cctail version "+Version+" ("+Commit+")\n")
	return err
}
