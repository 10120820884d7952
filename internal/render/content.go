// Package render turns opaque message content into display lines.
//
// Content payloads are kept as raw JSON by the decoder; this package walks
// them lazily with gjson so new upstream block shapes never break parsing.
package render

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// LineKind tags a rendered line.
type LineKind int

const (
	// LineText is a plain text line from a "text" content block.
	LineText LineKind = iota
	// LineToolUse is a one-line summary of a "tool_use" block. The
	// hide-tool-calls filter drops lines of this kind.
	LineToolUse
	// LineUnknown is an indicator for an unrecognised block type, shown
	// as "[type] (size)".
	LineUnknown
	// LineProgress is a progress note.
	LineProgress
)

// Line is one rendered line plus its display context.
type Line struct {
	Kind LineKind
	// AgentPrefix is "[word]" on the first line of a subagent entry.
	AgentPrefix string
	// Role is the message role of the source entry.
	Role string
	// Timestamp is the formatted HH:MM:SS time of the source entry.
	Timestamp string
	// Body is the line's text content.
	Body string
}

// Ctx carries per-entry display context supplied by the caller.
type Ctx struct {
	AgentPrefix string
	Role        string
	Timestamp   string
}

// ContentBlocks renders a message content value into lines, walking array
// content in order.
//
// Shapes handled:
//   - array of blocks: dispatch on each block's "type" field
//   - plain string: split on newlines into text lines
//   - anything else: no lines
//
// "tool_result" blocks are skipped entirely; their payloads are never read.
// Unknown block types render as "[type] (size)".
func ContentBlocks(content []byte, ctx Ctx) []Line {
	if len(content) == 0 {
		return nil
	}

	parsed := gjson.ParseBytes(content)
	var lines []Line

	appendText := func(s string) {
		for _, part := range splitLines(s) {
			lines = append(lines, Line{Kind: LineText, Role: ctx.Role, Timestamp: ctx.Timestamp, Body: part})
		}
	}

	switch {
	case parsed.IsArray():
		for _, block := range parsed.Array() {
			if !block.IsObject() {
				continue
			}
			blockType := block.Get("type").String()
			switch blockType {
			case "text":
				if text := block.Get("text"); text.Type == gjson.String {
					appendText(text.String())
				}
			case "tool_use":
				summary := SummarizeToolUse(block.Get("name").String(), block.Get("input"))
				lines = append(lines, Line{Kind: LineToolUse, Role: ctx.Role, Timestamp: ctx.Timestamp, Body: summary})
			case "tool_result":
				// Skipped: results are never parsed.
			default:
				if blockType == "" {
					blockType = "unknown"
				}
				label := fmt.Sprintf("[%s] (%s)", blockType, formatSize(len(block.Raw)))
				lines = append(lines, Line{Kind: LineUnknown, Role: ctx.Role, Timestamp: ctx.Timestamp, Body: label})
			}
		}
	case parsed.Type == gjson.String:
		appendText(parsed.String())
	}

	// The agent prefix attaches to the first line of the entry only.
	if len(lines) > 0 {
		lines[0].AgentPrefix = ctx.AgentPrefix
	}
	return lines
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// formatSize renders a byte count as a short human-readable size.
func formatSize(bytes int) string {
	const (
		kb = 1024
		mb = 1024 * 1024
	)
	switch {
	case bytes < kb:
		return fmt.Sprintf("%dB", bytes)
	case bytes < mb:
		return fmt.Sprintf("%.1fKB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%.1fMB", float64(bytes)/mb)
	}
}
