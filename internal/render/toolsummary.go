package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// bashCmdMaxChars bounds Bash command summaries before truncation.
const bashCmdMaxChars = 80

// ansiRE matches CSI sequences, OSC sequences, and simple two-character
// escape sequences.
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)|\x1b[A-Za-z]`)

// secretPatterns capture a prefix group and a secret value; the value is
// replaced, the prefix kept so the user sees what kind of secret was there.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(Bearer\s+)\S+`),
	regexp.MustCompile(`(sk-)[A-Za-z0-9_\-]{8,}`),
	regexp.MustCompile(`(ghp_)[A-Za-z0-9_\-]{8,}`),
	regexp.MustCompile(`(gho_)[A-Za-z0-9_\-]{8,}`),
	regexp.MustCompile(`(ghu_)[A-Za-z0-9_\-]{8,}`),
	regexp.MustCompile(`(ghs_)[A-Za-z0-9_\-]{8,}`),
	regexp.MustCompile(`(ghr_)[A-Za-z0-9_\-]{8,}`),
	regexp.MustCompile(`(?i)(token=)[^\s&]+`),
	regexp.MustCompile(`(?i)((?:API_KEY|SECRET|PASSWORD|ACCESS_TOKEN|AUTH_TOKEN|SECRET_KEY|PRIVATE_KEY|DB_PASSWORD|DATABASE_URL|AWS_SECRET_ACCESS_KEY)=)\S+`),
}

// SummarizeToolUse produces a one-line, input-only summary of a tool_use
// block. Only the tool's input is read, never results.
//
// Output is sanitized (ANSI escapes and control characters stripped) and
// common secret patterns are redacted. Never returns an empty string.
func SummarizeToolUse(name string, input gjson.Result) string {
	tool := sanitize(name)
	var raw string
	switch tool {
	case "Read", "Edit", "Write":
		raw = summarizeKey(tool, input, "file_path")
	case "Bash":
		raw = summarizeBash(input)
	case "Glob":
		raw = summarizeKey(tool, input, "pattern")
	case "Grep":
		raw = summarizeGrep(input)
	case "Task":
		raw = summarizeKey(tool, input, "description")
	case "WebSearch":
		raw = summarizeKey(tool, input, "query")
	case "WebFetch":
		raw = summarizeKey(tool, input, "url")
	case "Skill":
		raw = summarizeKey(tool, input, "skill")
	default:
		raw = "[" + tool + "]"
	}
	return redactSecrets(raw)
}

func summarizeKey(tool string, input gjson.Result, key string) string {
	v := input.Get(key)
	if v.Type != gjson.String || v.String() == "" {
		return "[" + tool + "]"
	}
	cleaned := sanitize(v.String())
	if cleaned == "" {
		return "[" + tool + "]"
	}
	return fmt.Sprintf("[%s] %s", tool, cleaned)
}

func summarizeBash(input gjson.Result) string {
	cmd := input.Get("command")
	if cmd.Type != gjson.String || cmd.String() == "" {
		return "[Bash]"
	}
	cleaned := sanitize(cmd.String())
	if cleaned == "" {
		return "[Bash]"
	}
	return "[Bash] " + truncateChars(cleaned, bashCmdMaxChars)
}

func summarizeGrep(input gjson.Result) string {
	pattern := sanitize(input.Get("pattern").String())
	path := sanitize(input.Get("path").String())
	switch {
	case pattern != "" && path != "":
		return fmt.Sprintf("[Grep] %q in %s", pattern, path)
	case pattern != "":
		return fmt.Sprintf("[Grep] %q", pattern)
	default:
		return "[Grep]"
	}
}

// sanitize strips ANSI escape sequences and control characters (keeping
// \n and \t).
func sanitize(s string) string {
	s = ansiRE.ReplaceAllString(s, "")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func redactSecrets(s string) string {
	for _, p := range secretPatterns {
		s = p.ReplaceAllString(s, "${1}[REDACTED]")
	}
	return s
}

// truncateChars truncates to at most max runes, appending an ellipsis.
// Never splits a multi-byte codepoint.
func truncateChars(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
