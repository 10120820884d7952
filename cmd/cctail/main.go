package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/kenfdev/cctail/internal/cli"
	"github.com/kenfdev/cctail/internal/config"
	"github.com/kenfdev/cctail/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI
	ctx := kong.Parse(&c,
		kong.Name("cctail"),
		kong.Description("Monitor Claude Code sessions in real-time"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	)

	verbose := c.Verbose || cfg.Verbose
	log := logger.New(debugLogPath(), verbose)
	defer log.Sync()

	globals := cli.NewGlobals(&c, cfg, log)
	if err := ctx.Run(globals); err != nil {
		fmt.Fprintf(os.Stderr, "cctail: %v\n", err)
		os.Exit(1)
	}
}

func debugLogPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cctail.log")
	}
	return ".cctail.log"
}
