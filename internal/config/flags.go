package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into encoding, output, behavior, display, and utility.

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// args, malformed target size).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("shrinkwrap", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var util utilityFlags

	defineEncodingFlags(fs, cfg)
	defineOutputFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &util)
	defineUtilityFlags(fs, &util)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyColorFlags(cfg, &util)

	if util.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if util.showVersion {
		fmt.Fprintln(os.Stdout, "shrinkwrap v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// utilityFlags holds flags that are applied after Parse or trigger exit.
type utilityFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineEncodingFlags registers --codec, -r/--resolution, --fps, --no-audio.
func defineEncodingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&codecValue{&cfg.Codec}, "codec", "Output video codec: h264 | h265")
	fs.StringVar(&cfg.Resolution, "resolution", cfg.Resolution, "Output height in pixels, or 'auto'")
	fs.StringVar(&cfg.Resolution, "r", cfg.Resolution, "Same as --resolution")
	fs.StringVar(&cfg.FrameRate, "fps", "", "Output framerate (integer or N/M rational)")
	fs.BoolVar(&cfg.RemoveAudio, "no-audio", false, "Strip the audio track entirely")
}

// defineOutputFlags registers -o/--output-dir, -f/--force, -d/--dry-run.
func defineOutputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputDir, "output-dir", "", "Directory for the output file (default: alongside input)")
	fs.StringVar(&cfg.OutputDir, "o", "", "Same as --output-dir")
	fs.BoolVar(&cfg.Force, "force", false, "Overwrite an existing output file")
	fs.BoolVar(&cfg.Force, "f", false, "Same as --force")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Print the encode plan without running ffmpeg")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, u *utilityFlags) {
	fs.BoolVar(&u.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&u.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (includes ffmpeg stderr)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, u *utilityFlags) {
	fs.BoolVar(&u.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&u.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&u.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&u.showHelp, "h", false, "Same as --help")
}

func applyColorFlags(cfg *Config, u *utilityFlags) {
	if u.noColor {
		cfg.ColorMode = ColorNever
	} else if u.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputPath and TargetSizeMB from the two positional
// args when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("need exactly input_file and target_size_MB")
	}
	cfg.InputPath = args[0]

	mb, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
	if err != nil {
		return fmt.Errorf("target size must be a number of megabytes (got %q)", args[1])
	}
	cfg.TargetSizeMB = mb
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "shrinkwrap v" + version + " — compress a video to a target file size"},
		{"", ""},
		{"  shrinkwrap [OPTIONS] <input_file> <target_size_MB>", ""},
		{"", ""},
		{"Encoding", ""},
		{"  --codec <h264|h265>", "Output video codec (default: h264)"},
		{"  -r, --resolution <h|auto>", "Output height in pixels (default: auto)"},
		{"  --fps <rate>", "Output framerate (default: keep source rate)"},
		{"  --no-audio", "Strip the audio track entirely"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -o, --output-dir <dir>", "Directory for the output file"},
		{"  -f, --force", "Overwrite an existing output file"},
		{"  -d, --dry-run", "Print the encode plan without running ffmpeg"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output (includes ffmpeg stderr)"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, x264, x265, AAC)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so the Codec enum works with flag.Var.

type codecValue struct{ p *Codec }

func (c *codecValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *codecValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "h264", "x264", "avc":
		*c.p = CodecH264
	case "h265", "x265", "hevc":
		*c.p = CodecH265
	default:
		return fmt.Errorf("invalid codec %q (use 'h264' or 'h265')", s)
	}
	return nil
}
