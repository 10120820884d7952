package tail

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kenfdev/cctail/internal/domain"
)

// Watcher owns the filesystem subscription for a project directory and one
// FileTail per observed .jsonl file. Decoded entries are published on a
// bounded channel; the send blocks when the consumer falls behind.
//
// fsnotify does not recurse, so the watcher registers the project directory
// plus every session directory and subagents/ directory it sees, and adds
// newly created directories as they appear.
type Watcher struct {
	projectDir string
	events     chan Event
	tails      map[string]*FileTail
	dead       map[string]bool // files we stopped tailing (permission denied)
	fsw        *fsnotify.Watcher
	log        *zap.SugaredLogger
}

// NewWatcher creates a Watcher for projectDir. initialOffsets seeds per-file
// cursors from a replay handoff so live tailing starts past replayed bytes.
func NewWatcher(projectDir string, initialOffsets map[string]uint64, capacity int, log *zap.SugaredLogger) (*Watcher, error) {
	if fi, err := os.Stat(projectDir); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("project directory not found: %s", projectDir)
	}
	if capacity <= 0 {
		capacity = DefaultChannelCapacity
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	w := &Watcher{
		projectDir: projectDir,
		events:     make(chan Event, capacity),
		tails:      make(map[string]*FileTail, len(initialOffsets)),
		dead:       make(map[string]bool),
		fsw:        fsw,
		log:        log,
	}
	for path, offset := range initialOffsets {
		w.tails[path] = NewFileTailAt(offset)
	}

	if err := w.watchTree(projectDir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Events returns the watcher's output channel. It is closed after the
// EventShutdown message once Run returns.
func (w *Watcher) Events() <-chan Event { return w.events }

// SetOffsets replaces the per-file cursors, e.g. after a session switch
// re-replayed the files. Must not be called concurrently with Run; callers
// stop the previous watcher and start a fresh one instead.
func (w *Watcher) SetOffsets(offsets map[string]uint64) {
	w.tails = make(map[string]*FileTail, len(offsets))
	for path, offset := range offsets {
		w.tails[path] = NewFileTailAt(offset)
	}
}

// Run processes filesystem events until ctx is cancelled, then emits
// EventShutdown and closes the channel.
func (w *Watcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer func() {
			// Best-effort: the consumer may already be gone.
			select {
			case w.events <- Event{Kind: EventShutdown}:
			default:
			}
			close(w.events)
			w.fsw.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return nil
				}
				w.handleFsEvent(ctx, ev)
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return nil
				}
				w.log.Debugw("filesystem watcher error", "error", err)
			}
		}
	})
	return g.Wait()
}

func (w *Watcher) handleFsEvent(ctx context.Context, ev fsnotify.Event) {
	switch {
	case ev.Op.Has(fsnotify.Create):
		// New directories must be added to the watch set; new .jsonl files
		// are announced and read immediately (data may have been written
		// before the first Modify event).
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.watchTree(ev.Name); err != nil {
				w.log.Debugw("watching new directory", "path", ev.Name, "error", err)
			}
			return
		}
		if !domain.IsWatchedJSONL(ev.Name) {
			return
		}
		w.sendLocked(ctx, Event{Kind: EventNewFile, Path: ev.Name})
		w.pollFile(ctx, ev.Name)

	case ev.Op.Has(fsnotify.Write):
		if !domain.IsWatchedJSONL(ev.Name) {
			return
		}
		w.pollFile(ctx, ev.Name)

	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		// Prune state so the map does not grow without bound. A file that
		// reappears starts from offset 0.
		delete(w.tails, ev.Name)
		delete(w.dead, ev.Name)
	}
}

// pollFile drives the file's tail, decodes complete lines and publishes
// the resulting events.
func (w *Watcher) pollFile(ctx context.Context, path string) {
	if w.dead[path] {
		return
	}

	ft, ok := w.tails[path]
	if !ok {
		ft = NewFileTail()
		w.tails[path] = ft
	}

	res, err := ft.Poll(path)
	if err != nil {
		if err == ErrFileMissing {
			// Non-fatal; the next event retries.
			return
		}
		if os.IsPermission(err) {
			w.log.Warnw("permission denied, stopped tailing", "path", path)
			w.dead[path] = true
			return
		}
		w.log.Debugw("poll failed", "path", path, "error", err)
		return
	}

	if res.Truncated {
		w.sendLocked(ctx, Event{Kind: EventTruncated, Path: path})
	}
	if res.LineTooLong {
		w.sendLocked(ctx, Event{Kind: EventParseError, Path: path, Reason: ErrLineTooLong.Error()})
	}

	for _, line := range res.Lines {
		entry, err := domain.ParseLine(line)
		if err != nil {
			w.sendLocked(ctx, Event{Kind: EventParseError, Path: path, Reason: err.Error()})
			continue
		}
		w.sendLocked(ctx, Event{Kind: EventEntry, Path: path, Entry: entry})
	}
}

// sendLocked blocks on a full channel (backpressure) but honours shutdown.
func (w *Watcher) sendLocked(ctx context.Context, ev Event) {
	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}

// watchTree registers dir and any session/subagents directories below it.
func (w *Watcher) watchTree(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, de := range entries {
		if !de.IsDir() {
			continue
		}
		sub := filepath.Join(dir, de.Name())
		if err := w.watchTree(sub); err != nil {
			w.log.Debugw("watching subdirectory", "path", sub, "error", err)
		}
	}
	return nil
}
