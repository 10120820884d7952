package domain

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatus(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("recently modified is active", func(t *testing.T) {
		s := Session{LastModified: now.Add(-5 * time.Minute)}
		assert.Equal(t, SessionActive, s.StatusAt(now))
	})

	t.Run("exactly at threshold is active", func(t *testing.T) {
		s := Session{LastModified: now.Add(-DefaultActiveThreshold)}
		assert.Equal(t, SessionActive, s.StatusAt(now))
	})

	t.Run("past threshold is inactive", func(t *testing.T) {
		s := Session{LastModified: now.Add(-11 * time.Minute)}
		assert.Equal(t, SessionInactive, s.StatusAt(now))
	})

	t.Run("custom threshold", func(t *testing.T) {
		s := Session{LastModified: now.Add(-30 * time.Second)}
		assert.Equal(t, SessionInactive, s.StatusWithThreshold(now, 10*time.Second))
		assert.Equal(t, SessionActive, s.StatusWithThreshold(now, time.Minute))
	})
}

func TestClassifyNewFile(t *testing.T) {
	projectDir := filepath.Join("/home", "user", ".claude", "projects", "-home-user-proj")

	tests := []struct {
		name string
		path string
		want ClassifiedFile
	}{
		{
			"top-level session",
			filepath.Join(projectDir, "abc123.jsonl"),
			ClassifiedFile{Kind: NewFileTopLevelSession, SessionID: "abc123"},
		},
		{
			"subagent file",
			filepath.Join(projectDir, "abc123", "subagents", "agent-a0d0bbc.jsonl"),
			ClassifiedFile{Kind: NewFileSubagent, SessionID: "abc123", AgentID: "a0d0bbc"},
		},
		{
			"wrong extension",
			filepath.Join(projectDir, "abc123.json"),
			ClassifiedFile{Kind: NewFileUnknown},
		},
		{
			"wrong middle directory",
			filepath.Join(projectDir, "abc123", "agents", "agent-x.jsonl"),
			ClassifiedFile{Kind: NewFileUnknown},
		},
		{
			"subagent without agent- prefix",
			filepath.Join(projectDir, "abc123", "subagents", "helper.jsonl"),
			ClassifiedFile{Kind: NewFileUnknown},
		},
		{
			"too deep",
			filepath.Join(projectDir, "a", "b", "c", "d.jsonl"),
			ClassifiedFile{Kind: NewFileUnknown},
		},
		{
			"outside project dir",
			filepath.Join("/tmp", "other.jsonl"),
			ClassifiedFile{Kind: NewFileUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyNewFile(tt.path, projectDir))
		})
	}
}

func TestIsWatchedJSONL(t *testing.T) {
	assert.True(t, IsWatchedJSONL("/a/b/session.jsonl"))
	assert.False(t, IsWatchedJSONL("/a/b/session.json"))
	assert.False(t, IsWatchedJSONL("/a/b/session"))
}
