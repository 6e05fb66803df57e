// Package pipeline orchestrates the single-job compression flow: validate,
// probe, plan, encode, verify, report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/display"
	"github.com/backmassage/shrinkwrap/internal/ffmpeg"
	"github.com/backmassage/shrinkwrap/internal/logging"
	"github.com/backmassage/shrinkwrap/internal/naming"
	"github.com/backmassage/shrinkwrap/internal/planner"
	"github.com/backmassage/shrinkwrap/internal/probe"
)

const minFileSize = 1000

// Run processes the single file described by cfg: probe → bitrate plan →
// resolution → filters → two-pass encode → size verification. Every stage's
// output feeds the next; a fatal error at any stage aborts the run.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	basename := filepath.Base(cfg.InputPath)

	// --- Validate ---
	fi, err := os.Stat(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("file not found: %s", cfg.InputPath)
	}
	if fi.Size() < minFileSize {
		return fmt.Errorf("file too small (possibly corrupt): %s", cfg.InputPath)
	}

	// --- Probe ---
	md, err := probe.Probe(ctx, cfg.InputPath)
	if err != nil {
		return fmt.Errorf("cannot probe file: %w", err)
	}

	log.Info("Source: %s | %dx%d | %s | %s | %s",
		basename, md.Width, md.Height,
		display.FormatDuration(md.Duration), md.FrameRate, md.PixelFormat)
	log.Info("Target: %s MB (%s)",
		naming.FormatTargetMB(cfg.TargetSizeMB), display.FormatBytes(fi.Size())+" source")

	// --- Plan bitrate ---
	req := planner.NewRequest(cfg)
	plan, err := planner.PlanBitrate(req, md)
	if err != nil {
		return err
	}
	log.Info("Bitrate: %s total | %s video | %d kbps audio",
		display.FormatBitrateLabel(int64(plan.TotalKbps)),
		display.FormatBitrateLabel(int64(plan.VideoKbps)),
		plan.AudioKbps)

	// --- Select resolution and filters ---
	dec := planner.SelectResolution(req, md, plan)
	if dec.FinalHeight != md.Height {
		log.Warn("Downscaling %dp -> %dp (%d kbps video is low for source resolution)",
			md.Height, dec.FinalHeight, plan.VideoKbps)
	}

	chain := planner.BuildFilters(dec, md.PixelFormat)
	if vf := ffmpeg.RenderFilters(chain); vf != "" {
		log.Debug(cfg.Verbose, "Filters: %s", vf)
	}
	if md.IsFullRange() {
		log.Debug(cfg.Verbose, "Full-range source; forcing limited-range output")
	}

	// --- Resolve output path ---
	outputPath := naming.OutputPath(cfg.InputPath, cfg.OutputDir,
		cfg.TargetSizeMB, dec.FinalHeight, cfg.Codec, cfg.FrameRate, cfg.RemoveAudio)

	if _, err := os.Stat(outputPath); err == nil && !cfg.Force {
		return fmt.Errorf("output exists: %s (use --force to overwrite)", filepath.Base(outputPath))
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	log.Info("Output: %s", filepath.Base(outputPath))

	// --- Build the shared job spec ---
	frameRate := req.FrameRate
	if frameRate == "" {
		frameRate = md.FrameRate
	}
	spec := ffmpeg.JobSpec{
		InputPath:      cfg.InputPath,
		OutputPath:     outputPath,
		VideoKbps:      plan.VideoKbps,
		AudioKbps:      plan.AudioKbps,
		FrameRate:      frameRate,
		Codec:          cfg.Codec,
		Filters:        chain,
		FullRangeInput: md.IsFullRange(),
	}

	// --- Dry-run ---
	if cfg.DryRun {
		analysis, final := ffmpeg.BuildPassJobs(spec, "<passlog>")
		log.Success("[DRY] Pass 1: %s", strings.Join(ffmpeg.BuildArgs(analysis), " "))
		log.Success("[DRY] Pass 2: %s", strings.Join(ffmpeg.BuildArgs(final), " "))
		return nil
	}

	// --- Execute both passes ---
	orch := ffmpeg.NewOrchestrator(&ffmpeg.ExecRunner{Verbose: cfg.Verbose})

	start := time.Now()
	log.Info("Pass 1/2: analyzing...")
	// The orchestrator runs both passes back to back; per-pass progress is
	// only visible with --verbose (ffmpeg stderr tee).
	result, err := orch.Encode(ctx, spec)
	if err != nil {
		var pe *ffmpeg.PassError
		if errors.As(err, &pe) {
			logStderr(log, pe.Stderr)
		}
		return err
	}
	elapsed := time.Since(start)

	// --- Verify size ---
	verdict := planner.VerifySize(cfg.TargetSizeMB, result.ActualSizeMB)
	if !verdict.OK {
		log.Warn("Output is %s, %s off the %s MB target (tolerance %.0f MB)",
			display.FormatSizeMB(result.ActualSizeMB),
			display.FormatSizeMB(verdict.DeviationMB),
			naming.FormatTargetMB(cfg.TargetSizeMB),
			verdict.ToleranceMB)
	}

	ratio := int64(100)
	if fi.Size() > 0 {
		ratio = int64(result.ActualSizeMB*1024*1024) * 100 / fi.Size()
	}
	log.Success("Compressed in %ds: %s (%d%% of original) -> %s",
		int(elapsed.Seconds()),
		display.FormatSizeMB(result.ActualSizeMB),
		ratio,
		result.OutputPath)
	return nil
}

func logStderr(log *logging.Logger, stderr string) {
	tail := ffmpeg.StderrTail(stderr, 20)
	if tail == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	for _, l := range strings.Split(tail, "\n") {
		log.Error("  %s", l)
	}
}
