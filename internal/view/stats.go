package view

import (
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kenfdev/cctail/internal/domain"
	"github.com/kenfdev/cctail/internal/tail"
)

// SessionStats summarizes the entries currently loaded in the ring buffer
// for the help overlay. It reflects loaded entries, not necessarily the
// whole session history.
type SessionStats struct {
	EntriesLoaded         int
	UserMessageCount      int
	AssistantMessageCount int
	ToolCallCount         int
	// ToolCallBreakdown is sorted by count descending, then name.
	ToolCallBreakdown []ToolCount
	SubagentCount     int
	EarliestTimestamp string
	LatestTimestamp   string
	// DurationDisplay is e.g. "2h 15m" or "45m 30s"; empty when
	// timestamps are missing or unparseable.
	DurationDisplay string
}

// ToolCount is one tool's call count.
type ToolCount struct {
	Name  string
	Count int
}

// ComputeSessionStats derives stats from one pass over the ring buffer.
// Only tool_use blocks are counted, never tool_result.
func ComputeSessionStats(rb *tail.RingBuffer) SessionStats {
	var stats SessionStats
	toolCounts := make(map[string]int)
	subagents := make(map[string]struct{})

	rb.Iter(func(e *domain.LogEntry) bool {
		stats.EntriesLoaded++

		if ts := e.Timestamp; ts != "" {
			if stats.EarliestTimestamp == "" || ts < stats.EarliestTimestamp {
				stats.EarliestTimestamp = ts
			}
			if ts > stats.LatestTimestamp {
				stats.LatestTimestamp = ts
			}
		}

		switch e.EntryType {
		case domain.EntryTypeUser:
			stats.UserMessageCount++
		case domain.EntryTypeAssistant:
			stats.AssistantMessageCount++
		}

		if e.IsSidechain && e.AgentID != "" {
			subagents[e.AgentID] = struct{}{}
		}

		if e.Message != nil && len(e.Message.Content) > 0 {
			content := gjson.ParseBytes(e.Message.Content)
			if content.IsArray() {
				for _, block := range content.Array() {
					if block.Get("type").String() != "tool_use" {
						continue
					}
					name := block.Get("name").String()
					if name == "" {
						name = "unknown"
					}
					toolCounts[name]++
				}
			}
		}
		return true
	})

	stats.SubagentCount = len(subagents)
	for name, count := range toolCounts {
		stats.ToolCallCount += count
		stats.ToolCallBreakdown = append(stats.ToolCallBreakdown, ToolCount{Name: name, Count: count})
	}
	sort.Slice(stats.ToolCallBreakdown, func(i, j int) bool {
		a, b := stats.ToolCallBreakdown[i], stats.ToolCallBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	stats.DurationDisplay = durationDisplay(stats.EarliestTimestamp, stats.LatestTimestamp)
	return stats
}

func durationDisplay(earliest, latest string) string {
	if earliest == "" || latest == "" {
		return ""
	}
	start, err1 := time.Parse(time.RFC3339, earliest)
	end, err2 := time.Parse(time.RFC3339, latest)
	if err1 != nil || err2 != nil || end.Before(start) {
		return ""
	}
	d := end.Sub(start)
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
