package planner

import "github.com/backmassage/shrinkwrap/internal/probe"

// TargetPixelFormat is the limited-range output pixel format every encode
// normalizes to.
const TargetPixelFormat = "yuv420p"

// BuildFilters constructs the ordered video filter chain for a resolution
// decision and source pixel format.
//
// A scale filter is emitted when the decision requires one. The format
// filter is emitted when scaling happens, and also for full-range sources
// that are not scaled: yuvj420p must be normalized explicitly or the output
// ends up with a mismatched pixel format. Scale always precedes format.
//
// An empty chain is valid and means the frames pass through unchanged.
func BuildFilters(dec ResolutionDecision, pixelFormat string) FilterChain {
	var chain FilterChain

	if dec.ScaleRequired {
		chain = append(chain, Filter{Kind: FilterScale, Height: dec.FinalHeight})
	}

	if dec.ScaleRequired || pixelFormat == probe.FullRangePixelFormat {
		chain = append(chain, Filter{Kind: FilterFormat, PixelFormat: TargetPixelFormat})
	}

	return chain
}
