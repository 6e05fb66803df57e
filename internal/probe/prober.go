// Package probe provides ffprobe-based media inspection and the typed
// Metadata record the planner consumes. One JSON call gathers everything.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrMetadataUnavailable indicates the probe could not produce the fields the
// planner requires (video stream, dimensions, positive duration, framerate).
// This is a fatal precondition failure, never retried.
var ErrMetadataUnavailable = errors.New("required metadata unavailable")

// FullRangePixelFormat is the full-range 4:2:0 variant that needs an explicit
// input-side range hint and output normalization to avoid washed-out colors.
const FullRangePixelFormat = "yuvj420p"

// Metadata holds the probed properties of the source video. It is produced
// once per invocation and treated as immutable afterwards.
type Metadata struct {
	Width       int
	Height      int
	Duration    float64 // Seconds.
	FrameRate   string  // Rational, e.g. "30000/1001" or "25/1".
	PixelFormat string  // e.g. "yuv420p", "yuvj420p".
}

// IsFullRange reports whether the source uses the full-range pixel format.
func (m *Metadata) IsFullRange() bool {
	return m.PixelFormat == FullRangePixelFormat
}

// Probe runs a single ffprobe JSON call against path and returns the parsed
// metadata.
func Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a Metadata record.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Metadata, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildMetadata(&raw)
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string         `json:"codec_type"`
	PixFmt       string         `json:"pix_fmt"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	AvgFrameRate string         `json:"avg_frame_rate"`
	RFrameRate   string         `json:"r_frame_rate"`
	Disposition  map[string]int `json:"disposition"`
}

// --- Conversion from wire types to the domain record ---

func buildMetadata(raw *ffprobeOutput) (*Metadata, error) {
	var video *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType == "video" && s.Disposition["attached_pic"] != 1 {
			video = s
			break
		}
	}
	if video == nil {
		return nil, fmt.Errorf("no video stream: %w", ErrMetadataUnavailable)
	}

	if video.Width <= 0 || video.Height <= 0 {
		return nil, fmt.Errorf("missing video dimensions: %w", ErrMetadataUnavailable)
	}

	duration := parseFloat(raw.Format.Duration)
	if duration <= 0 {
		return nil, fmt.Errorf("non-positive duration: %w", ErrMetadataUnavailable)
	}

	rate := frameRate(video)
	if rate == "" {
		return nil, fmt.Errorf("missing framerate: %w", ErrMetadataUnavailable)
	}

	return &Metadata{
		Width:       video.Width,
		Height:      video.Height,
		Duration:    duration,
		FrameRate:   rate,
		PixelFormat: video.PixFmt,
	}, nil
}

// frameRate prefers avg_frame_rate and falls back to r_frame_rate. ffprobe
// reports "0/0" for streams where the rate is unknown; both forms are
// rejected as unusable.
func frameRate(s *ffprobeStream) string {
	for _, r := range []string{s.AvgFrameRate, s.RFrameRate} {
		if r != "" && r != "0/0" && !strings.HasPrefix(r, "0/") {
			return r
		}
	}
	return ""
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
