// Package tmux spawns one tmux pane per session agent, each running the
// stream subcommand against that agent's log file.
package tmux

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"

	"github.com/GianlucaP106/gotmux/gotmux"
)

// Errors returned by the manager.
var (
	ErrTmuxNotInstalled = fmt.Errorf("tmux is not installed")
	ErrNotInsideTmux    = fmt.Errorf("not inside a tmux session")
)

var sessionNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// IsInsideTmux reports whether the process runs inside tmux.
func IsInsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// IsTmuxAvailable reports whether the tmux binary is installed.
func IsTmuxAvailable() bool {
	_, err := exec.LookPath("tmux")
	return err == nil
}

// Manager tracks the tmux session and panes spawned for the active
// cctail session.
type Manager struct {
	mu      sync.Mutex
	tmux    *gotmux.Tmux
	session *gotmux.Session
	panes   int
}

// NewManager creates a tmux manager.
func NewManager() (*Manager, error) {
	if !IsTmuxAvailable() {
		return nil, ErrTmuxNotInstalled
	}
	tm, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("initializing tmux: %w", err)
	}
	return &Manager{tmux: tm}, nil
}

// AgentPane names one pane to spawn: a display label plus the log file the
// pane should stream.
type AgentPane struct {
	Label   string
	LogPath string
}

// SessionName derives the tmux session name from the prefix and project
// path, sanitized for tmux.
func SessionName(prefix, projectPath string) string {
	base := projectPath
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	name := prefix + "-" + base
	return sessionNameSanitizer.ReplaceAllString(name, "-")
}

// SpawnSession creates (or reuses) a detached tmux session with one window
// per agent, each running the stream subcommand for that agent's log.
// Returns the number of windows spawned.
func (m *Manager) SpawnSession(prefix, projectPath string, agents []AgentPane) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(agents) == 0 {
		return 0, nil
	}

	name := SessionName(prefix, projectPath)

	// Reuse an existing session of the same name.
	if sessions, err := m.tmux.ListSessions(); err == nil {
		for _, s := range sessions {
			if s.Name == name {
				m.session = s
				return 0, nil
			}
		}
	}

	session, err := m.tmux.NewSession(&gotmux.SessionOptions{Name: name})
	if err != nil {
		return 0, fmt.Errorf("creating tmux session: %w", err)
	}
	m.session = session

	self, err := os.Executable()
	if err != nil {
		self = "cctail"
	}

	spawned := 0
	for i, agent := range agents {
		cmd := fmt.Sprintf("%s stream --file %s", shellQuote(self), shellQuote(agent.LogPath))
		if i == 0 {
			// The session's initial window hosts the first agent.
			if _, err := m.tmux.Command("rename-window", "-t", name+":0", agent.Label); err != nil {
				continue
			}
			if _, err := m.tmux.Command("send-keys", "-t", name+":0.0", cmd, "Enter"); err == nil {
				spawned++
			}
			continue
		}
		if _, err := m.tmux.Command("new-window", "-t", name, "-n", agent.Label, cmd); err == nil {
			spawned++
		}
	}

	m.panes = spawned
	return spawned, nil
}

// PaneCount returns how many panes this manager spawned.
func (m *Manager) PaneCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panes
}

// Cleanup kills the spawned tmux session, if any.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		_ = m.session.Kill()
		m.session = nil
		m.panes = 0
	}
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
