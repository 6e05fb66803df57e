package planner

import (
	"errors"
	"reflect"
	"testing"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/probe"
)

// --- Helper builders ---

func autoRequest(targetMB float64) Request {
	return Request{
		TargetSizeMB: targetMB,
		AutoHeight:   true,
		Codec:        config.CodecH264,
	}
}

func explicitRequest(targetMB float64, height int) Request {
	return Request{
		TargetSizeMB: targetMB,
		TargetHeight: height,
		Codec:        config.CodecH264,
	}
}

func source(w, h int, duration float64) *probe.Metadata {
	return &probe.Metadata{
		Width:       w,
		Height:      h,
		Duration:    duration,
		FrameRate:   "30/1",
		PixelFormat: "yuv420p",
	}
}

// --- PlanBitrate tests ---

func TestPlanBitrate_ReferenceScenario(t *testing.T) {
	// 10 MB over 100 s with audio kept: 10*8388608/100/1000 = 838.86 -> 838.
	plan, err := PlanBitrate(autoRequest(10), source(1920, 1080, 100))
	if err != nil {
		t.Fatalf("PlanBitrate: %v", err)
	}
	if plan.TotalKbps != 838 {
		t.Errorf("TotalKbps: got %d, want 838", plan.TotalKbps)
	}
	if plan.VideoKbps != 710 {
		t.Errorf("VideoKbps: got %d, want 710", plan.VideoKbps)
	}
	if plan.AudioKbps != 128 {
		t.Errorf("AudioKbps: got %d, want 128", plan.AudioKbps)
	}
	if plan.MinVideoKbps != 100 {
		t.Errorf("MinVideoKbps: got %d, want 100", plan.MinVideoKbps)
	}
}

func TestPlanBitrate_TruncatesNotRounds(t *testing.T) {
	// 1*8388608/7/1000 = 1198.372... -> 1198, never 1199.
	req := autoRequest(1)
	req.RemoveAudio = true
	plan, err := PlanBitrate(req, source(1280, 720, 7))
	if err != nil {
		t.Fatalf("PlanBitrate: %v", err)
	}
	if plan.TotalKbps != 1198 {
		t.Errorf("TotalKbps: got %d, want 1198 (truncation)", plan.TotalKbps)
	}
}

func TestPlanBitrate_AudioPolicy(t *testing.T) {
	md := source(1920, 1080, 60)

	kept, err := PlanBitrate(autoRequest(20), md)
	if err != nil {
		t.Fatalf("audio kept: %v", err)
	}
	if kept.VideoKbps != kept.TotalKbps-128 {
		t.Errorf("audio kept: VideoKbps %d != TotalKbps-128 (%d)", kept.VideoKbps, kept.TotalKbps-128)
	}

	req := autoRequest(20)
	req.RemoveAudio = true
	removed, err := PlanBitrate(req, md)
	if err != nil {
		t.Fatalf("audio removed: %v", err)
	}
	if removed.AudioKbps != 0 {
		t.Errorf("audio removed: AudioKbps %d, want 0", removed.AudioKbps)
	}
	if removed.VideoKbps != removed.TotalKbps {
		t.Errorf("audio removed: VideoKbps %d != TotalKbps %d", removed.VideoKbps, removed.TotalKbps)
	}
}

func TestPlanBitrate_FloorBoundaries(t *testing.T) {
	// Target sizes are dyadic rationals chosen so targetMB*8388608/128/1000
	// is float-exact, pinning the computed video bitrate to the boundary.
	cases := []struct {
		name     string
		targetMB float64
		codec    config.Codec
		wantKbps int
		wantErr  bool
	}{
		{"h264 exactly at floor", 1.52587890625, config.CodecH264, 100, false},
		{"h264 one below floor", 1.510620117187500, config.CodecH264, 0, true},
		{"h265 exactly at floor", 1.068115234375, config.CodecH265, 70, false},
		{"h265 one below floor", 1.05285644531250, config.CodecH265, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := Request{TargetSizeMB: tc.targetMB, AutoHeight: true, RemoveAudio: true, Codec: tc.codec}
			plan, err := PlanBitrate(req, source(1920, 1080, 128))
			if tc.wantErr {
				if !errors.Is(err, ErrInsufficientBitrate) {
					t.Fatalf("want ErrInsufficientBitrate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlanBitrate: %v", err)
			}
			if plan.VideoKbps != tc.wantKbps {
				t.Errorf("VideoKbps: got %d, want %d", plan.VideoKbps, tc.wantKbps)
			}
		})
	}
}

func TestPlanBitrate_NonPositiveDuration(t *testing.T) {
	_, err := PlanBitrate(autoRequest(10), source(1920, 1080, 0))
	if !errors.Is(err, ErrInsufficientBitrate) {
		t.Errorf("zero duration: want ErrInsufficientBitrate, got %v", err)
	}
}

func TestMinVideoKbps(t *testing.T) {
	if got := MinVideoKbps(config.CodecH264); got != 100 {
		t.Errorf("h264 floor: got %d, want 100", got)
	}
	if got := MinVideoKbps(config.CodecH265); got != 70 {
		t.Errorf("h265 floor: got %d, want 70", got)
	}
}

// --- SelectResolution tests ---

func TestSelectResolution_AutoCascade(t *testing.T) {
	cases := []struct {
		name       string
		srcW, srcH int
		videoKbps  int
		wantHeight int
		wantScale  bool
	}{
		{"1080p plenty of bitrate", 1920, 1080, 2500, 1080, false},
		{"1080p crosses first threshold only", 1920, 1080, 1500, 720, true},
		{"1080p crosses both thresholds", 1920, 1080, 900, 480, true},
		{"1080p just under second threshold", 1920, 1080, 999, 480, true},
		{"720p source never cascades", 1280, 720, 500, 720, false},
		{"480p source untouched at any bitrate", 854, 480, 150, 480, false},
		{"4K source low bitrate steps one tier", 3840, 2160, 1500, 720, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec := SelectResolution(autoRequest(10), source(tc.srcW, tc.srcH, 100),
				BitratePlan{VideoKbps: tc.videoKbps})
			if dec.FinalHeight != tc.wantHeight {
				t.Errorf("FinalHeight: got %d, want %d", dec.FinalHeight, tc.wantHeight)
			}
			if dec.ScaleRequired != tc.wantScale {
				t.Errorf("ScaleRequired: got %v, want %v", dec.ScaleRequired, tc.wantScale)
			}
		})
	}
}

func TestSelectResolution_ExplicitMode(t *testing.T) {
	cases := []struct {
		name       string
		srcW, srcH int
		requested  int
		wantHeight int
		wantScale  bool
	}{
		{"downscale to requested", 1920, 1080, 480, 480, true},
		{"no upscale past source", 1280, 720, 1080, 720, false},
		{"equal to source", 1920, 1080, 1080, 1080, false},
		{"odd request decremented", 1920, 1080, 481, 480, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec := SelectResolution(explicitRequest(10, tc.requested),
				source(tc.srcW, tc.srcH, 100), BitratePlan{VideoKbps: 5000})
			if dec.FinalHeight != tc.wantHeight {
				t.Errorf("FinalHeight: got %d, want %d", dec.FinalHeight, tc.wantHeight)
			}
			if dec.ScaleRequired != tc.wantScale {
				t.Errorf("ScaleRequired: got %v, want %v", dec.ScaleRequired, tc.wantScale)
			}
		})
	}
}

func TestSelectResolution_OddWidthForcesScale(t *testing.T) {
	// Height unchanged, but the odd source width still needs an even output.
	dec := SelectResolution(explicitRequest(10, 480), source(853, 480, 100),
		BitratePlan{VideoKbps: 5000})
	if dec.FinalHeight != 480 {
		t.Errorf("FinalHeight: got %d, want 480", dec.FinalHeight)
	}
	if !dec.ScaleRequired {
		t.Error("odd source width should force a scale filter")
	}
}

func TestSelectResolution_Invariants(t *testing.T) {
	sources := []*probe.Metadata{
		source(1920, 1080, 100), source(1280, 720, 100), source(854, 480, 100),
		source(640, 360, 100), source(1919, 1079, 100), source(3840, 2160, 100),
	}
	bitrates := []int{100, 500, 999, 1000, 1500, 2000, 5000}
	for _, md := range sources {
		for _, kbps := range bitrates {
			dec := SelectResolution(autoRequest(10), md, BitratePlan{VideoKbps: kbps})
			if dec.FinalHeight > md.Height {
				t.Errorf("%dx%d@%dkbps: upscaled to %d", md.Width, md.Height, kbps, dec.FinalHeight)
			}
			if dec.FinalHeight%2 != 0 {
				t.Errorf("%dx%d@%dkbps: odd height %d", md.Width, md.Height, kbps, dec.FinalHeight)
			}
		}
	}
}

// --- BuildFilters tests ---

func TestBuildFilters_ScaleThenFormat(t *testing.T) {
	chain := BuildFilters(ResolutionDecision{FinalHeight: 720, ScaleRequired: true}, "yuv420p")
	want := FilterChain{
		{Kind: FilterScale, Height: 720},
		{Kind: FilterFormat, PixelFormat: TargetPixelFormat},
	}
	if !reflect.DeepEqual(chain, want) {
		t.Errorf("got %+v, want %+v", chain, want)
	}
}

func TestBuildFilters_FullRangeWithoutScale(t *testing.T) {
	chain := BuildFilters(ResolutionDecision{FinalHeight: 1080, ScaleRequired: false}, probe.FullRangePixelFormat)
	want := FilterChain{{Kind: FilterFormat, PixelFormat: TargetPixelFormat}}
	if !reflect.DeepEqual(chain, want) {
		t.Errorf("got %+v, want %+v", chain, want)
	}
}

func TestBuildFilters_EmptyChainPassesThrough(t *testing.T) {
	chain := BuildFilters(ResolutionDecision{FinalHeight: 1080, ScaleRequired: false}, "yuv420p")
	if len(chain) != 0 {
		t.Errorf("got %+v, want empty chain", chain)
	}
}

// --- VerifySize tests ---

func TestVerifySize(t *testing.T) {
	cases := []struct {
		name     string
		targetMB float64
		actualMB float64
		wantOK   bool
	}{
		{"exact", 10, 10, true},
		{"inside tolerance", 10, 11, true},
		{"just outside tolerance", 10, 11.01, false},
		{"large target wide band", 50, 55, true},
		{"large target outside band", 50, 56, false},
		{"small target minimum 1MB band", 5, 6, true},
		{"small target outside band", 5, 6.5, false},
		{"undershoot also flagged", 10, 8.5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := VerifySize(tc.targetMB, tc.actualMB)
			if v.OK != tc.wantOK {
				t.Errorf("VerifySize(%v, %v).OK = %v, want %v (tolerance %v)",
					tc.targetMB, tc.actualMB, v.OK, tc.wantOK, v.ToleranceMB)
			}
		})
	}
}

// --- Idempotence ---

func TestPlanningIsPure(t *testing.T) {
	req := autoRequest(10)
	md := source(1920, 1080, 100)

	p1, err1 := PlanBitrate(req, md)
	p2, err2 := PlanBitrate(req, md)
	if err1 != nil || err2 != nil {
		t.Fatalf("PlanBitrate: %v / %v", err1, err2)
	}
	if p1 != p2 {
		t.Errorf("BitratePlan not stable: %+v vs %+v", p1, p2)
	}

	d1 := SelectResolution(req, md, p1)
	d2 := SelectResolution(req, md, p2)
	if d1 != d2 {
		t.Errorf("ResolutionDecision not stable: %+v vs %+v", d1, d2)
	}

	c1 := BuildFilters(d1, md.PixelFormat)
	c2 := BuildFilters(d2, md.PixelFormat)
	if !reflect.DeepEqual(c1, c2) {
		t.Errorf("FilterChain not stable: %+v vs %+v", c1, c2)
	}
}
