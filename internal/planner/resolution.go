package planner

import "github.com/backmassage/shrinkwrap/internal/probe"

// Downscale cascade thresholds. The cascade only ever steps one standard
// tier at a time: 1080-class sources drop to 720p when the budget is under
// Tier1Kbps, and only a source that took that step drops further to 480p
// when the budget is also under Tier2Kbps. Sources below 1080 lines are
// never downscaled automatically.
const (
	CascadeMinSourceHeight = 1080
	Tier1Height            = 720
	Tier1Kbps              = 2000
	Tier2Height            = 480
	Tier2Kbps              = 1000
)

// SelectResolution decides the final output height for the planned video
// bitrate. It never upscales and always returns an even height (codecs
// require chroma-aligned dimensions).
//
// ScaleRequired is a single predicate: a scale filter is needed whenever the
// height actually changes, or whenever the source width is odd (the encoder
// must produce an even output width either way).
func SelectResolution(req Request, md *probe.Metadata, plan BitratePlan) ResolutionDecision {
	final := md.Height

	if req.AutoHeight {
		if md.Height >= CascadeMinSourceHeight && plan.VideoKbps < Tier1Kbps {
			final = Tier1Height
			if plan.VideoKbps < Tier2Kbps {
				final = Tier2Height
			}
		}
	} else {
		final = req.TargetHeight
	}

	if final > md.Height {
		final = md.Height
	}
	if final%2 != 0 {
		final--
	}

	return ResolutionDecision{
		FinalHeight:   final,
		ScaleRequired: final != md.Height || md.Width%2 != 0,
	}
}
