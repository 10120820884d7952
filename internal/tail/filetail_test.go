package tail

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenfdev/cctail/internal/domain"
)

func appendFile(t *testing.T, path, data string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestFileTailPoll(t *testing.T) {
	t.Run("reads complete lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log.jsonl")
		appendFile(t, path, "{\"type\":\"user\"}\n{\"type\":\"assistant\"}\n")

		ft := NewFileTail()
		res, err := ft.Poll(path)
		require.NoError(t, err)
		require.Len(t, res.Lines, 2)
		assert.Equal(t, `{"type":"user"}`, string(res.Lines[0]))
		assert.Equal(t, uint64(37), ft.Offset())
	})

	t.Run("buffers incomplete line across polls", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log.jsonl")
		ft := NewFileTail()

		// First chunk ends mid-line.
		appendFile(t, path, `{"type":"user","sessionId":"s","times`)
		res, err := ft.Poll(path)
		require.NoError(t, err)
		assert.Empty(t, res.Lines)

		// Second chunk completes the first line and adds a full second one.
		appendFile(t, path, "tamp\":\"2025-01-01T00:00:00Z\"}\n{\"type\":\"assistant\",\"sessionId\":\"s\",\"timestamp\":\"2025-01-01T00:00:01Z\"}\n")
		res, err = ft.Poll(path)
		require.NoError(t, err)
		require.Len(t, res.Lines, 2)

		first, err := domain.ParseLine(res.Lines[0])
		require.NoError(t, err)
		second, err := domain.ParseLine(res.Lines[1])
		require.NoError(t, err)
		assert.Equal(t, domain.EntryTypeUser, first.EntryType)
		assert.Equal(t, domain.EntryTypeAssistant, second.EntryType)

		// Buffer must be drained: a further poll with no new bytes is empty.
		res, err = ft.Poll(path)
		require.NoError(t, err)
		assert.Empty(t, res.Lines)
	})

	t.Run("no-op when size unchanged", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log.jsonl")
		appendFile(t, path, "{\"type\":\"user\"}\n")
		ft := NewFileTail()

		res, err := ft.Poll(path)
		require.NoError(t, err)
		require.Len(t, res.Lines, 1)

		res, err = ft.Poll(path)
		require.NoError(t, err)
		assert.Empty(t, res.Lines)
		assert.False(t, res.Truncated)
	})

	t.Run("detects truncation and re-reads from start", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log.jsonl")
		appendFile(t, path, "{\"type\":\"user\",\"uuid\":\"a\"}\n{\"type\":\"user\",\"uuid\":\"b\"}\n")

		ft := NewFileTail()
		res, err := ft.Poll(path)
		require.NoError(t, err)
		require.Len(t, res.Lines, 2)

		// Truncate to zero, then write one new entry.
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		appendFile(t, path, "{\"type\":\"assistant\",\"uuid\":\"c\"}\n")

		res, err = ft.Poll(path)
		require.NoError(t, err)
		assert.True(t, res.Truncated)
		require.Len(t, res.Lines, 1)
		entry, err := domain.ParseLine(res.Lines[0])
		require.NoError(t, err)
		assert.Equal(t, "c", entry.UUID)
	})

	t.Run("missing file is non-fatal", func(t *testing.T) {
		ft := NewFileTail()
		_, err := ft.Poll(filepath.Join(t.TempDir(), "gone.jsonl"))
		assert.ErrorIs(t, err, ErrFileMissing)
	})

	t.Run("skips blank lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log.jsonl")
		appendFile(t, path, "{\"type\":\"user\"}\n\n   \n{\"type\":\"assistant\"}\n")

		ft := NewFileTail()
		res, err := ft.Poll(path)
		require.NoError(t, err)
		assert.Len(t, res.Lines, 2)
	})

	t.Run("seeded offset skips replayed bytes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log.jsonl")
		head := "{\"type\":\"user\",\"uuid\":\"old\"}\n"
		appendFile(t, path, head)

		ft := NewFileTailAt(uint64(len(head)))
		res, err := ft.Poll(path)
		require.NoError(t, err)
		assert.Empty(t, res.Lines)

		appendFile(t, path, "{\"type\":\"user\",\"uuid\":\"new\"}\n")
		res, err = ft.Poll(path)
		require.NoError(t, err)
		require.Len(t, res.Lines, 1)
		entry, err := domain.ParseLine(res.Lines[0])
		require.NoError(t, err)
		assert.Equal(t, "new", entry.UUID)
	})
}

// TestFileTailChunkEquivalence feeds the same content in different chunk
// splits and requires identical emitted lines — the incremental-read
// equivalence property.
func TestFileTailChunkEquivalence(t *testing.T) {
	lines := []string{
		`{"type":"user","uuid":"1"}`,
		`{"type":"assistant","uuid":"2"}`,
		`{"type":"system","uuid":"3"}`,
		`{"type":"progress","uuid":"4"}`,
	}
	content := strings.Join(lines, "\n") + "\n"

	for _, chunkSize := range []int{1, 3, 7, 16, len(content)} {
		path := filepath.Join(t.TempDir(), "log.jsonl")
		ft := NewFileTail()

		var got []string
		for start := 0; start < len(content); start += chunkSize {
			end := start + chunkSize
			if end > len(content) {
				end = len(content)
			}
			appendFile(t, path, content[start:end])
			res, err := ft.Poll(path)
			require.NoError(t, err)
			for _, l := range res.Lines {
				got = append(got, string(l))
			}
		}
		assert.Equal(t, lines, got, "chunk size %d", chunkSize)
	}
}
