package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func input(json string) gjson.Result {
	return gjson.Parse(json)
}

func TestSummarizeToolUse(t *testing.T) {
	tests := []struct {
		name  string
		tool  string
		input string
		want  string
	}{
		{"read", "Read", `{"file_path": "/src/main.go"}`, "[Read] /src/main.go"},
		{"edit", "Edit", `{"file_path": "/src/a.go", "old_string": "x"}`, "[Edit] /src/a.go"},
		{"write", "Write", `{"file_path": "/src/b.go"}`, "[Write] /src/b.go"},
		{"bash", "Bash", `{"command": "ls -la"}`, "[Bash] ls -la"},
		{"glob", "Glob", `{"pattern": "**/*.go"}`, "[Glob] **/*.go"},
		{"grep with path", "Grep", `{"pattern": "func main", "path": "/src"}`, `[Grep] "func main" in /src`},
		{"grep without path", "Grep", `{"pattern": "TODO"}`, `[Grep] "TODO"`},
		{"task", "Task", `{"description": "run tests"}`, "[Task] run tests"},
		{"web search", "WebSearch", `{"query": "golang fsnotify"}`, "[WebSearch] golang fsnotify"},
		{"web fetch", "WebFetch", `{"url": "https://example.com"}`, "[WebFetch] https://example.com"},
		{"skill", "Skill", `{"skill": "deploy"}`, "[Skill] deploy"},
		{"unknown tool", "CustomTool", `{"anything": 1}`, "[CustomTool]"},
		{"missing key falls back", "Read", `{}`, "[Read]"},
		{"non-string key falls back", "Read", `{"file_path": 42}`, "[Read]"},
		{"empty value falls back", "Bash", `{"command": ""}`, "[Bash]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummarizeToolUse(tt.tool, input(tt.input)))
		})
	}
}

func TestSummarizeBashTruncation(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := SummarizeToolUse("Bash", input(`{"command": "`+long+`"}`))
	assert.Equal(t, len("[Bash] ")+bashCmdMaxChars, len([]rune(got))-1) // +ellipsis rune
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestSanitization(t *testing.T) {
	t.Run("strips ANSI escapes", func(t *testing.T) {
		got := SummarizeToolUse("Bash", input(`{"command": "echo \u001b[31mred\u001b[0m"}`))
		assert.Equal(t, "[Bash] echo red", got)
	})

	t.Run("strips control characters", func(t *testing.T) {
		got := SummarizeToolUse("Bash", input(`{"command": "ab\u0007c"}`))
		assert.Equal(t, "[Bash] abc", got)
	})

	t.Run("sanitizes tool name", func(t *testing.T) {
		got := SummarizeToolUse("Evil\x1b[2JTool", input(`{}`))
		assert.Equal(t, "[EvilTool]", got)
	})
}

func TestSecretRedaction(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bearer token", `curl -H "Authorization: Bearer abc123xyz"`, `Bearer [REDACTED]`},
		{"openai key", `export KEY=sk-proj12345678`, `sk-[REDACTED]`},
		{"github pat", `git clone https://ghp_1234567890ab@github.com/x`, `ghp_[REDACTED]`},
		{"token query param", `curl "https://api?token=deadbeef&x=1"`, `token=[REDACTED]`},
		{"env assignment", `API_KEY=supersecret ./run`, `API_KEY=[REDACTED]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeToolUse("Bash", input(`{"command": `+quoteJSON(tt.in)+`}`))
			assert.Contains(t, got, tt.want)
			assert.NotContains(t, got, "supersecret")
		})
	}
}

func quoteJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
