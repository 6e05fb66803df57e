package planner

import (
	"errors"
	"fmt"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/probe"
)

// ErrInsufficientBitrate indicates the requested size is not achievable at
// acceptable quality for this duration/codec combination. The caller must
// raise the target size, shorten the source, or remove audio; there is no
// automatic fallback.
var ErrInsufficientBitrate = errors.New("insufficient video bitrate for target size")

// Heuristic bitrate constants. No derivation exists for these values beyond
// field experience.
const (
	// AudioBitrateKbps is the fixed AAC bitrate when audio is kept.
	AudioBitrateKbps = 128

	// MinVideoKbpsH264 is the lowest video bitrate considered watchable
	// with libx264.
	MinVideoKbpsH264 = 100

	// H265FloorRatio scales the H264 floor down for H265, whose better
	// compression keeps the same perceived quality at lower rates.
	H265FloorRatio = 0.7
)

// MinVideoKbps returns the codec-specific minimum acceptable video bitrate.
func MinVideoKbps(codec config.Codec) int {
	if codec == config.CodecH265 {
		return int(MinVideoKbpsH264 * H265FloorRatio)
	}
	return MinVideoKbpsH264
}

// PlanBitrate converts the size/duration/audio-policy triple into a video
// bitrate budget and validates it against the codec's quality floor.
//
// The total budget is truncated, not rounded: floor(MB * 1024 * 1024 * 8 /
// seconds / 1000) kbps, so the plan never overshoots the byte budget.
func PlanBitrate(req Request, md *probe.Metadata) (BitratePlan, error) {
	if md.Duration <= 0 {
		return BitratePlan{}, fmt.Errorf("cannot compute bitrate for duration %.2fs: %w",
			md.Duration, ErrInsufficientBitrate)
	}

	totalKbps := int(req.TargetSizeMB * 1024 * 1024 * 8 / md.Duration / 1000)

	audioKbps := 0
	if !req.RemoveAudio {
		audioKbps = AudioBitrateKbps
	}

	plan := BitratePlan{
		TotalKbps:    totalKbps,
		VideoKbps:    totalKbps - audioKbps,
		AudioKbps:    audioKbps,
		MinVideoKbps: MinVideoKbps(req.Codec),
	}

	if plan.VideoKbps < plan.MinVideoKbps {
		return BitratePlan{}, fmt.Errorf(
			"%d kbps video is below the %d kbps floor for %s (raise the target size, shorten the source, or use --no-audio): %w",
			plan.VideoKbps, plan.MinVideoKbps, req.Codec, ErrInsufficientBitrate)
	}
	return plan, nil
}
