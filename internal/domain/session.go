package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultActiveThreshold is how recently a session file must have been
// modified to count as active.
const DefaultActiveThreshold = 10 * time.Minute

// Agent is a single agent within a session: either the main agent (the
// top-level JSONL file) or a subagent under {sessionID}/subagents/.
type Agent struct {
	// AgentID is empty for the main agent.
	AgentID string
	// Slug is the human-readable subagent name. Neither discovery nor entry
	// parsing sets it, so it stays empty and readers fall back to AgentID.
	Slug string
	// LogPath is the agent's JSONL log file.
	LogPath string
	// IsMain marks the top-level session file.
	IsMain bool
}

// Session is a discovered Claude Code session: one main log file plus any
// subagent log files, identified by the filename stem of the main file.
type Session struct {
	ID           string
	Agents       []Agent
	LastModified time.Time
}

// SessionStatus classifies a session as active or inactive by mtime.
type SessionStatus int

const (
	SessionInactive SessionStatus = iota
	SessionActive
)

// StatusAt classifies the session relative to now using the default
// threshold. Callers with a clock pass clk.Now().
func (s *Session) StatusAt(now time.Time) SessionStatus {
	return s.StatusWithThreshold(now, DefaultActiveThreshold)
}

// StatusWithThreshold classifies the session with a custom threshold.
func (s *Session) StatusWithThreshold(now time.Time, threshold time.Duration) SessionStatus {
	if elapsed := now.Sub(s.LastModified); elapsed >= 0 && elapsed <= threshold {
		return SessionActive
	}
	return SessionInactive
}

// MainAgent returns the session's main agent, or nil if absent.
func (s *Session) MainAgent() *Agent {
	for i := range s.Agents {
		if s.Agents[i].IsMain {
			return &s.Agents[i]
		}
	}
	return nil
}

// NewFileKind classifies a newly observed file in the project directory.
// Classification is purely path-based; no I/O.
type NewFileKind int

const (
	NewFileUnknown NewFileKind = iota
	NewFileTopLevelSession
	NewFileSubagent
)

// ClassifiedFile is the result of ClassifyNewFile.
type ClassifiedFile struct {
	Kind      NewFileKind
	SessionID string
	AgentID   string
}

// ClassifyNewFile determines what a path under projectDir represents:
// a top-level session file ({sid}.jsonl), a subagent log
// ({sid}/subagents/agent-{agentID}.jsonl), or something unknown.
func ClassifyNewFile(path, projectDir string) ClassifiedFile {
	if filepath.Ext(path) != ".jsonl" {
		return ClassifiedFile{Kind: NewFileUnknown}
	}

	rel, err := filepath.Rel(projectDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ClassifiedFile{Kind: NewFileUnknown}
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	stem := strings.TrimSuffix(filepath.Base(path), ".jsonl")

	switch len(parts) {
	case 1:
		return ClassifiedFile{Kind: NewFileTopLevelSession, SessionID: stem}
	case 3:
		if parts[1] != "subagents" {
			return ClassifiedFile{Kind: NewFileUnknown}
		}
		agentID, ok := strings.CutPrefix(stem, "agent-")
		if !ok {
			return ClassifiedFile{Kind: NewFileUnknown}
		}
		return ClassifiedFile{Kind: NewFileSubagent, SessionID: parts[0], AgentID: agentID}
	default:
		return ClassifiedFile{Kind: NewFileUnknown}
	}
}

// IsWatchedJSONL reports whether the path has a .jsonl extension.
func IsWatchedJSONL(path string) bool {
	return filepath.Ext(path) == ".jsonl"
}
