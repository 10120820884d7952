package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/kenfdev/cctail/internal/stream"
)

// StreamCmd tails one JSONL file to stdout: replay then live tail.
type StreamCmd struct {
	File   string `required:"" help:"Path to a .jsonl file to tail." type:"path"`
	Replay int    `default:"20" help:"Visible messages to replay before tailing."`
}

// Run executes the stream command until interrupted.
func (c *StreamCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	isTTY := isatty.IsTerminal(os.Stdout.Fd()) && !globals.ASCII

	s := stream.New(stream.Options{
		File:        c.File,
		ReplayCount: c.Replay,
		Verbose:     globals.Verbose,
		IsTTY:       isTTY,
		Theme:       globals.Config.Theme,
	}, globals.Stdout, globals.Log)

	return s.Run(ctx)
}
