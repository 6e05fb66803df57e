package planner

import "math"

// Verdict is the advisory result of comparing realized output size against
// the target. A deviation never aborts or retries anything; it is only
// reported as a warning.
type Verdict struct {
	OK          bool
	DeviationMB float64
	ToleranceMB float64
}

// VerifySize checks whether actualMB landed within the tolerance band around
// targetMB. The tolerance is a tenth of the target (floored to whole
// megabytes) with a 1 MB minimum, so small targets still get a usable band.
func VerifySize(targetMB, actualMB float64) Verdict {
	tolerance := math.Floor(targetMB / 10)
	if tolerance < 1 {
		tolerance = 1
	}
	deviation := math.Abs(actualMB - targetMB)
	return Verdict{
		OK:          deviation <= tolerance,
		DeviationMB: deviation,
		ToleranceMB: tolerance,
	}
}
