// Package stream is the non-interactive sibling of the TUI: it replays a
// single JSONL file to a byte sink, then live-tails appended entries.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kenfdev/cctail/internal/domain"
	"github.com/kenfdev/cctail/internal/render"
	"github.com/kenfdev/cctail/internal/tail"
)

// Options configures a Streamer run.
type Options struct {
	// File is the JSONL file to tail.
	File string
	// ReplayCount is how many visible messages to print before tailing.
	ReplayCount int
	// Verbose includes progress entries and parse diagnostics.
	Verbose bool
	// IsTTY selects the emoji symbol set and ANSI colors; piped output
	// gets stable ASCII prefixes and no escapes.
	IsTTY bool
	// Theme picks the ANSI palette for TTY output ("dark" or "light").
	Theme string
}

// ansiPalette holds the escape codes for one theme; all fields are empty
// for piped output so no escapes leak downstream.
type ansiPalette struct {
	timestamp string
	user      string
	assistant string
	system    string
	toolUse   string
	unknown   string
	reset     string
}

func paletteFor(opts Options) ansiPalette {
	if !opts.IsTTY {
		return ansiPalette{}
	}
	p := ansiPalette{
		timestamp: "\x1b[90m",
		user:      "\x1b[34m",
		assistant: "\x1b[32m",
		system:    "\x1b[33m",
		toolUse:   "\x1b[33m",
		unknown:   "\x1b[90m",
		reset:     "\x1b[0m",
	}
	if opts.Theme == "light" {
		p.system = "\x1b[35m"
		p.toolUse = "\x1b[35m"
	}
	return p
}

// Streamer replays then live-tails one file, writing formatted lines to a
// byte sink.
type Streamer struct {
	opts    Options
	out     io.Writer
	sym     render.Symbols
	palette ansiPalette
	log     *zap.SugaredLogger
}

// New creates a Streamer writing to out.
func New(opts Options, out io.Writer, log *zap.SugaredLogger) *Streamer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	sym := render.ASCIISymbols()
	if opts.IsTTY {
		sym = render.EmojiSymbols()
	}
	return &Streamer{opts: opts, out: out, sym: sym, palette: paletteFor(opts), log: log}
}

// Run replays the file then tails it until ctx is cancelled. A missing
// file is an immediate error; a write failure (broken pipe) ends the run
// cleanly.
func (s *Streamer) Run(ctx context.Context) error {
	if _, err := os.Stat(s.opts.File); err != nil {
		return fmt.Errorf("file not found: %s", s.opts.File)
	}

	offset, closed, err := s.replayPhase()
	if err != nil {
		return err
	}
	if closed {
		return nil
	}
	return s.liveTailPhase(ctx, offset)
}

func (s *Streamer) visible(e *domain.LogEntry) bool {
	if s.opts.Verbose {
		return tail.VisibleWithProgress(e)
	}
	return tail.BaselineVisible(e)
}

// replayPhase prints the last ReplayCount visible entries and returns the
// EOF offset for the live tail to resume from, plus whether a write failed
// (the output is closed and the run should end).
func (s *Streamer) replayPhase() (uint64, bool, error) {
	f, err := os.Open(s.opts.File)
	if err != nil {
		return 0, false, fmt.Errorf("opening %s: %w", s.opts.File, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, false, fmt.Errorf("stat %s: %w", s.opts.File, err)
	}

	var entries []*domain.LogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), tail.MaxIncompleteLineBuf)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		entry, err := domain.ParseLine(line)
		if err != nil {
			s.log.Debugw("skipping malformed line", "error", err)
			continue
		}
		if !s.visible(entry) {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return 0, false, fmt.Errorf("reading %s: %w", s.opts.File, err)
	}

	start := 0
	if s.opts.ReplayCount > 0 && len(entries) > s.opts.ReplayCount {
		start = len(entries) - s.opts.ReplayCount
	}
	for _, entry := range entries[start:] {
		if err := s.printEntry(entry); err != nil {
			return 0, true, nil // broken pipe: exit cleanly
		}
	}

	return uint64(fi.Size()), false, nil
}

// liveTailPhase watches the file's parent directory and prints new visible
// entries as they are appended.
func (s *Streamer) liveTailPhase(ctx context.Context, offset uint64) error {
	ft := tail.NewFileTailAt(offset)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	defer watcher.Close()

	watchDir := filepath.Dir(s.opts.File)
	if err := watcher.Add(watchDir); err != nil {
		return fmt.Errorf("watching %s: %w", watchDir, err)
	}

	target := s.opts.File
	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			evPath := ev.Name
			if resolved, err := filepath.EvalSymlinks(evPath); err == nil {
				evPath = resolved
			}
			if evPath != target {
				continue
			}
			res, err := ft.Poll(s.opts.File)
			if err != nil {
				if err == tail.ErrFileMissing {
					continue
				}
				s.log.Debugw("poll failed", "error", err)
				continue
			}
			for _, line := range res.Lines {
				entry, err := domain.ParseLine(line)
				if err != nil {
					s.log.Debugw("skipping malformed line", "error", err)
					continue
				}
				if !s.visible(entry) {
					continue
				}
				if err := s.printEntry(entry); err != nil {
					return nil // broken pipe
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Debugw("watcher error", "error", err)
		}
	}
}

// printEntry writes an entry's header line plus indented content lines.
func (s *Streamer) printEntry(entry *domain.LogEntry) error {
	ts := render.FormatTimestamp(entry.Timestamp)
	indicator := s.sym.RoleIndicator(entry.EntryType)
	color := s.roleColor(entry.EntryType)

	prefix := ""
	if entry.IsSidechain {
		prefix = " [" + entry.AgentSlugWord() + "]"
	}

	if _, err := fmt.Fprintf(s.out, "%s%s%s %s%s%s%s\n",
		s.palette.timestamp, ts, s.palette.reset,
		color, indicator, prefix, s.palette.reset); err != nil {
		return err
	}

	for _, line := range render.Entry(entry) {
		lineColor := s.palette.reset
		switch line.Kind {
		case render.LineToolUse:
			lineColor = s.palette.toolUse
		case render.LineUnknown, render.LineProgress:
			lineColor = s.palette.unknown
		}
		if _, err := fmt.Fprintf(s.out, "  %s%s%s\n", lineColor, line.Body, s.palette.reset); err != nil {
			return err
		}
	}
	return nil
}

func (s *Streamer) roleColor(t domain.EntryType) string {
	switch t {
	case domain.EntryTypeUser:
		return s.palette.user
	case domain.EntryTypeAssistant:
		return s.palette.assistant
	case domain.EntryTypeSystem:
		return s.palette.system
	default:
		return s.palette.unknown
	}
}
