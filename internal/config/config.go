// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. The validated Config is the single source for the compression
// request handed to the planner.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// --- Enum types for validated string fields ---

// Codec selects the output video codec.
type Codec string

const (
	CodecH264 Codec = "h264" // libx264 (default).
	CodecH265 Codec = "h265" // libx265 (lower acceptable bitrate floor).
)

// ResolutionAuto is the sentinel resolution value that enables the
// bitrate-driven downscale cascade instead of a fixed target height.
const ResolutionAuto = "auto"

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Request (set from positional args and flags).
	InputPath    string
	TargetSizeMB float64
	Resolution   string // "auto" or an explicit target height in pixels.
	FrameRate    string // Optional output framerate ("" keeps the source rate).
	RemoveAudio  bool
	Codec        Codec

	// Output.
	OutputDir string // Empty means alongside the input file.
	Force     bool   // Overwrite an existing output file.

	// Behavior flags.
	DryRun bool

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Resolution: ResolutionAuto,
		Codec:      CodecH264,
		ColorMode:  ColorAuto,
	}
}

// Validate checks enum fields and request values. When not in CheckOnly mode
// it also requires the input path and a positive target size.
func (c *Config) Validate() error {
	switch c.Codec {
	case CodecH264, CodecH265:
		// valid
	default:
		return errors.New("invalid codec (use 'h264' or 'h265')")
	}

	if _, _, err := ParseResolution(c.Resolution); err != nil {
		return err
	}

	if c.FrameRate != "" {
		if err := validateFrameRate(c.FrameRate); err != nil {
			return err
		}
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputPath == "" {
		return errors.New("need exactly input_file and target_size_MB")
	}
	if c.TargetSizeMB <= 0 {
		return errors.New("target size must be a positive number of megabytes")
	}
	return nil
}

// ParseResolution parses a resolution argument. It returns (0, true, nil) for
// auto mode, or (height, false, nil) for an explicit positive height.
func ParseResolution(s string) (height int, auto bool, err error) {
	if strings.EqualFold(strings.TrimSpace(s), ResolutionAuto) {
		return 0, true, nil
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(s))
	if convErr != nil || n <= 0 {
		return 0, false, fmt.Errorf("invalid resolution %q (use 'auto' or a positive height, e.g. 720)", s)
	}
	return n, false, nil
}

// validateFrameRate accepts a positive integer ("30") or a positive rational
// ("30000/1001"), the two forms ffmpeg's -r option takes.
func validateFrameRate(s string) error {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) > 2 {
		return fmt.Errorf("invalid framerate %q (use an integer or N/M rational)", s)
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid framerate %q (use an integer or N/M rational)", s)
		}
	}
	return nil
}
