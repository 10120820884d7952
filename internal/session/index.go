// Package session discovers Claude Code sessions from a project directory
// and resolves user-supplied session ID prefixes.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/kenfdev/cctail/internal/domain"
)

// DefaultMaxSessions caps how many sessions the sidebar shows.
const DefaultMaxSessions = 20

// ErrNoSessions is returned when the project directory holds no sessions.
var ErrNoSessions = fmt.Errorf("no sessions found in the project directory")

// PrefixNotFoundError reports that no session ID starts with the prefix.
type PrefixNotFoundError struct {
	Prefix string
}

func (e *PrefixNotFoundError) Error() string {
	return fmt.Sprintf("no session found matching prefix %q", e.Prefix)
}

// AmbiguousPrefixError reports that multiple session IDs share the prefix.
type AmbiguousPrefixError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousPrefixError) Error() string {
	return fmt.Sprintf("ambiguous session prefix %q: matches %v", e.Prefix, e.Matches)
}

// Index discovers and classifies sessions. The clock is injected so tests
// control "now" for Active/Inactive classification.
type Index struct {
	clk clock.Clock
}

// NewIndex creates an Index using the wall clock.
func NewIndex() *Index {
	return &Index{clk: clock.New()}
}

// NewIndexWithClock creates an Index with an explicit clock, for tests.
func NewIndexWithClock(clk clock.Clock) *Index {
	return &Index{clk: clk}
}

// Discover scans projectDir shallowly for {sid}.jsonl session files, then
// for each session checks {sid}/subagents/ for agent-*.jsonl children.
// Returns at most maxSessions sessions, most recently modified first.
// Unreadable individual entries are skipped; only a failure to read the
// project directory itself is an error.
func (ix *Index) Discover(projectDir string, maxSessions int) ([]domain.Session, error) {
	dirEntries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, fmt.Errorf("reading project directory: %w", err)
	}

	var sessions []domain.Session
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".jsonl" {
			continue
		}

		id := strings.TrimSuffix(de.Name(), ".jsonl")
		mainPath := filepath.Join(projectDir, de.Name())

		agents := []domain.Agent{{LogPath: mainPath, IsMain: true}}
		maxMtime := fileModTime(mainPath)

		subDir := filepath.Join(projectDir, id, "subagents")
		if subEntries, err := os.ReadDir(subDir); err == nil {
			for _, se := range subEntries {
				if se.IsDir() || filepath.Ext(se.Name()) != ".jsonl" {
					continue
				}
				stem := strings.TrimSuffix(se.Name(), ".jsonl")
				agentID, ok := strings.CutPrefix(stem, "agent-")
				if !ok {
					continue
				}
				subPath := filepath.Join(subDir, se.Name())
				if mt := fileModTime(subPath); mt.After(maxMtime) {
					maxMtime = mt
				}
				agents = append(agents, domain.Agent{AgentID: agentID, LogPath: subPath})
			}
		}

		sessions = append(sessions, domain.Session{
			ID:           id,
			Agents:       agents,
			LastModified: maxMtime,
		})
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastModified.After(sessions[j].LastModified)
	})
	if maxSessions > 0 && len(sessions) > maxSessions {
		sessions = sessions[:maxSessions]
	}
	return sessions, nil
}

// Resolve picks a session from the discovered list.
//
// With an empty prefix it auto-attaches to the most recent session. With a
// prefix it requires an exact match or exactly one prefix match.
func Resolve(sessions []domain.Session, prefix string) (*domain.Session, error) {
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}
	if prefix == "" {
		return &sessions[0], nil
	}

	for i := range sessions {
		if sessions[i].ID == prefix {
			return &sessions[i], nil
		}
	}

	var matches []*domain.Session
	for i := range sessions {
		if strings.HasPrefix(sessions[i].ID, prefix) {
			matches = append(matches, &sessions[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, &PrefixNotFoundError{Prefix: prefix}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, &AmbiguousPrefixError{Prefix: prefix, Matches: ids}
	}
}

// Status classifies a session as active or inactive by the index clock.
func (ix *Index) Status(s *domain.Session) domain.SessionStatus {
	return s.StatusAt(ix.clk.Now())
}

func fileModTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}
