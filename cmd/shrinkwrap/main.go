// Command shrinkwrap compresses a video file to a target size with a
// bitrate-targeted two-pass ffmpeg encode.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check) or the compression pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/shrinkwrap/internal/check"
	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/display"
	"github.com/backmassage/shrinkwrap/internal/logging"
	"github.com/backmassage/shrinkwrap/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "shrinkwrap: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "shrinkwrap: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shrinkwrap: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	log.Info("=== shrinkwrap v%s (%s) ===", version, commit)
	if cfg.DryRun {
		log.Warn("DRY RUN — ffmpeg will not be invoked")
	}

	// Fail fast if ffmpeg/ffprobe or the chosen codec are unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling — cancel the context on SIGINT/SIGTERM. A
	// cancelled pass counts as a pass failure, so the orchestrator's cleanup
	// still removes partial output and pass logs.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, aborting encode…")
		cancel()
	}()

	// Phase 4: Run the pipeline (probe → plan → encode → verify).
	if err := pipeline.Run(ctx, &cfg, log); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}
