package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/planner"
)

// Pass numbers for the two-pass encode.
const (
	PassAnalysis = 1
	PassFinal    = 2
)

// EncodeJob describes one encoder invocation. Two jobs are built per
// compression, identical except for pass number, audio handling, and sink.
type EncodeJob struct {
	Pass      int
	InputPath string
	Sink      string // Discard target for pass 1, real output path for pass 2.

	VideoKbps int
	FrameRate string
	Codec     config.Codec
	Filters   planner.FilterChain

	// FullRangeInput tags the input as full-range before it is read; the
	// output is always forced back to limited range.
	FullRangeInput bool

	// AudioKbps is the AAC bitrate for the final pass; 0 means no audio.
	// The analysis pass always runs without audio.
	AudioKbps int

	// PassLogPrefix is the shared -passlogfile prefix. Both passes must use
	// the same value or pass 2 cannot find the analysis statistics.
	PassLogPrefix string
}

// encoderSettings maps the codec enum to the ffmpeg encoder name and tune.
func encoderSettings(codec config.Codec) (name, tune string) {
	if codec == config.CodecH265 {
		return "libx265", ""
	}
	return "libx264", "film"
}

// BuildArgs constructs the complete ffmpeg argument slice for one pass.
func BuildArgs(job *EncodeJob) []string {
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y", "-loglevel", "error")

	// --- Input (full-range hint must precede -i) ---
	if job.FullRangeInput {
		args = append(args, "-color_range", "2")
	}
	args = append(args, "-i", job.InputPath)

	// --- Video filter chain ---
	if vf := RenderFilters(job.Filters); vf != "" {
		args = append(args, "-vf", vf)
	}

	// --- Video codec ---
	encoder, tune := encoderSettings(job.Codec)
	args = append(args, "-c:v", encoder)
	if tune != "" {
		args = append(args, "-tune", tune)
	}
	args = append(args,
		"-b:v", strconv.Itoa(job.VideoKbps)+"k",
		"-r", job.FrameRate,
		"-pix_fmt", planner.TargetPixelFormat,
		"-color_range", "1",
	)

	// --- Two-pass rate control ---
	args = append(args,
		"-pass", strconv.Itoa(job.Pass),
		"-passlogfile", job.PassLogPrefix,
	)

	// --- Audio ---
	if job.Pass == PassAnalysis || job.AudioKbps <= 0 {
		args = append(args, "-an")
	} else {
		args = append(args, "-c:a", "aac", "-b:a", strconv.Itoa(job.AudioKbps)+"k")
	}

	// --- Sink ---
	if job.Pass == PassAnalysis {
		args = append(args, "-f", "null", job.Sink)
	} else {
		args = append(args, job.Sink)
	}

	return args
}

// RenderFilters converts a planner filter chain into the -vf argument.
// Scale uses -2 for the width so ffmpeg picks the nearest even value that
// preserves the aspect ratio. Returns "" for an empty chain.
func RenderFilters(chain planner.FilterChain) string {
	if len(chain) == 0 {
		return ""
	}
	parts := make([]string, 0, len(chain))
	for _, f := range chain {
		switch f.Kind {
		case planner.FilterScale:
			parts = append(parts, fmt.Sprintf("scale=-2:%d", f.Height))
		case planner.FilterFormat:
			parts = append(parts, "format="+f.PixelFormat)
		}
	}
	return strings.Join(parts, ",")
}
