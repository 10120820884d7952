package tail

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/kenfdev/cctail/internal/domain"
)

// DefaultReplayCount is how many visible messages are replayed on session
// attach or switch.
const DefaultReplayCount = 20

// ReplayAll requests the entire history instead of the last N entries.
const ReplayAll = int(^uint(0) >> 1)

// FullLoadWarnBytes is the session size above which callers should confirm
// before a full-history load.
const FullLoadWarnBytes = 50 * 1024 * 1024

// maxScanTokenSize bounds a single replayed line (matches the incomplete
// line cap used by FileTail).
const maxScanTokenSize = MaxIncompleteLineBuf

// VisiblePredicate decides whether a replayed entry is shown.
type VisiblePredicate func(*domain.LogEntry) bool

// BaselineVisible is the default visibility predicate: user, assistant and
// system entries are shown; progress, file-history snapshots and
// unrecognised entry types are not. Queue-operation entries pass through so
// the renderer can show their unknown-block form.
func BaselineVisible(e *domain.LogEntry) bool {
	switch e.EntryType {
	case domain.EntryTypeUser, domain.EntryTypeAssistant, domain.EntryTypeSystem,
		domain.EntryTypeQueueOperation:
		return true
	default:
		return false
	}
}

// VisibleWithProgress extends BaselineVisible to include progress entries.
func VisibleWithProgress(e *domain.LogEntry) bool {
	return BaselineVisible(e) || e.EntryType == domain.EntryTypeProgress
}

type replayedEntry struct {
	entry     *domain.LogEntry
	fileOrder int // index of the source file in the session's agent list
	lineOrder int // line number within the source file
}

// Replay reads every agent log file of the session start to end, keeps
// entries passing visible, merges them chronologically and returns the last
// maxVisible entries (all of them for ReplayAll).
//
// Ties on equal timestamps are broken by file name order then line order,
// so replay is deterministic for a fixed set of files.
//
// The returned offsets map each file path to its byte length at read time;
// handing it to the watcher makes live tailing resume exactly past the
// replayed bytes.
func Replay(session *domain.Session, visible VisiblePredicate, maxVisible int, log *zap.SugaredLogger) ([]*domain.LogEntry, map[string]uint64) {
	agents := append([]domain.Agent(nil), session.Agents...)
	sort.SliceStable(agents, func(i, j int) bool {
		return agents[i].LogPath < agents[j].LogPath
	})

	var all []replayedEntry
	offsets := make(map[string]uint64, len(agents))

	for fileIdx, agent := range agents {
		path := agent.LogPath
		f, err := os.Open(path)
		if err != nil {
			if log != nil {
				log.Debugw("replay: skipping file", "path", path, "error", err)
			}
			continue
		}

		fi, err := f.Stat()
		if err != nil {
			f.Close()
			if log != nil {
				log.Debugw("replay: stat failed", "path", path, "error", err)
			}
			continue
		}
		offsets[path] = uint64(fi.Size())

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), maxScanTokenSize)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			entry, err := domain.ParseLine(line)
			if err != nil {
				if log != nil {
					log.Debugw("replay: skipping malformed line", "path", path, "line", lineNo, "error", err)
				}
				continue
			}
			if !visible(entry) {
				continue
			}
			all = append(all, replayedEntry{entry: entry, fileOrder: fileIdx, lineOrder: lineNo})
		}
		if err := scanner.Err(); err != nil && log != nil {
			log.Debugw("replay: read error", "path", path, "error", err)
		}
		f.Close()
	}

	// ISO 8601 timestamps sort correctly as strings; entries without a
	// timestamp sort first. Equal timestamps keep file-then-line order.
	sort.SliceStable(all, func(i, j int) bool {
		ti, tj := all[i].entry.Timestamp, all[j].entry.Timestamp
		if ti != tj {
			return ti < tj
		}
		if all[i].fileOrder != all[j].fileOrder {
			return all[i].fileOrder < all[j].fileOrder
		}
		return all[i].lineOrder < all[j].lineOrder
	})

	start := 0
	if maxVisible > 0 && maxVisible != ReplayAll && len(all) > maxVisible {
		start = len(all) - maxVisible
	}

	entries := make([]*domain.LogEntry, 0, len(all)-start)
	for _, re := range all[start:] {
		entries = append(entries, re.entry)
	}
	return entries, offsets
}

// SessionFileSize sums the byte sizes of every agent log file in the
// session. Missing files contribute 0.
func SessionFileSize(session *domain.Session) uint64 {
	var total uint64
	for _, agent := range session.Agents {
		if fi, err := os.Stat(agent.LogPath); err == nil {
			total += uint64(fi.Size())
		}
	}
	return total
}

// FormatByteSize renders a byte count for user-facing size warnings.
func FormatByteSize(bytes uint64) string {
	const (
		kib = 1024
		mib = 1024 * 1024
	)
	switch {
	case bytes < kib:
		return fmt.Sprintf("%dB", bytes)
	case bytes < mib:
		return fmt.Sprintf("%.1fKB", float64(bytes)/kib)
	default:
		return fmt.Sprintf("%.1fMB", float64(bytes)/mib)
	}
}
