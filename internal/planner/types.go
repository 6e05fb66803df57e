package planner

import "github.com/backmassage/shrinkwrap/internal/config"

// Request is the validated compression request handed in by the CLI layer.
// It is immutable once built.
type Request struct {
	TargetSizeMB float64
	AutoHeight   bool // Bitrate-driven downscale cascade.
	TargetHeight int  // Explicit target height; ignored when AutoHeight.
	RemoveAudio  bool
	FrameRate    string // Optional output framerate ("" keeps the source rate).
	Codec        config.Codec
}

// NewRequest builds a Request from a validated Config.
func NewRequest(cfg *config.Config) Request {
	height, auto, _ := config.ParseResolution(cfg.Resolution)
	return Request{
		TargetSizeMB: cfg.TargetSizeMB,
		AutoHeight:   auto,
		TargetHeight: height,
		RemoveAudio:  cfg.RemoveAudio,
		FrameRate:    cfg.FrameRate,
		Codec:        cfg.Codec,
	}
}

// BitratePlan is the bitrate budget derived from target size and duration.
// Invariant: VideoKbps = TotalKbps - AudioKbps.
type BitratePlan struct {
	TotalKbps    int
	VideoKbps    int
	AudioKbps    int // 0 when audio is removed.
	MinVideoKbps int // Codec-specific quality floor.
}

// ResolutionDecision is the output height decision. FinalHeight is always
// even and never exceeds the source height.
type ResolutionDecision struct {
	FinalHeight   int
	ScaleRequired bool
}

// FilterKind identifies a video filter descriptor.
type FilterKind int

const (
	// FilterScale resizes to Height with an aspect-preserving even width.
	FilterScale FilterKind = iota
	// FilterFormat converts to the limited-range target pixel format.
	FilterFormat
)

// Filter is one descriptor in a FilterChain.
type Filter struct {
	Kind        FilterKind
	Height      int    // FilterScale only.
	PixelFormat string // FilterFormat only.
}

// FilterChain is an ordered filter sequence. Empty means pass through
// unchanged.
type FilterChain []Filter
