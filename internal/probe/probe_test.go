package probe

import (
	"errors"
	"testing"
)

const fullProbeJSON = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "h264",
      "codec_type": "video",
      "pix_fmt": "yuv420p",
      "width": 1920,
      "height": 1080,
      "avg_frame_rate": "30000/1001",
      "r_frame_rate": "30000/1001",
      "disposition": {"attached_pic": 0}
    },
    {
      "index": 1,
      "codec_name": "aac",
      "codec_type": "audio",
      "disposition": {"default": 1}
    }
  ],
  "format": {
    "filename": "in.mp4",
    "duration": "100.512000"
  }
}`

func TestParseJSON_FullFile(t *testing.T) {
	md, err := ParseJSON([]byte(fullProbeJSON))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if md.Width != 1920 || md.Height != 1080 {
		t.Errorf("dimensions: got %dx%d, want 1920x1080", md.Width, md.Height)
	}
	if md.Duration != 100.512 {
		t.Errorf("duration: got %v, want 100.512", md.Duration)
	}
	if md.FrameRate != "30000/1001" {
		t.Errorf("framerate: got %q, want 30000/1001", md.FrameRate)
	}
	if md.PixelFormat != "yuv420p" {
		t.Errorf("pixel format: got %q, want yuv420p", md.PixelFormat)
	}
	if md.IsFullRange() {
		t.Error("yuv420p should not be full range")
	}
}

func TestParseJSON_FullRangeSource(t *testing.T) {
	md, err := ParseJSON([]byte(`{
		"streams": [{"codec_type": "video", "pix_fmt": "yuvj420p",
			"width": 1280, "height": 720, "avg_frame_rate": "25/1"}],
		"format": {"duration": "10"}
	}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if !md.IsFullRange() {
		t.Error("yuvj420p should be detected as full range")
	}
}

func TestParseJSON_SkipsAttachedPic(t *testing.T) {
	md, err := ParseJSON([]byte(`{
		"streams": [
			{"codec_type": "video", "width": 600, "height": 600,
				"avg_frame_rate": "0/0", "disposition": {"attached_pic": 1}},
			{"codec_type": "video", "pix_fmt": "yuv420p", "width": 1920,
				"height": 1080, "avg_frame_rate": "24/1"}
		],
		"format": {"duration": "60"}
	}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if md.Width != 1920 {
		t.Errorf("cover art selected instead of real video stream: %dx%d", md.Width, md.Height)
	}
}

func TestParseJSON_FrameRateFallback(t *testing.T) {
	md, err := ParseJSON([]byte(`{
		"streams": [{"codec_type": "video", "pix_fmt": "yuv420p",
			"width": 1280, "height": 720,
			"avg_frame_rate": "0/0", "r_frame_rate": "50/1"}],
		"format": {"duration": "10"}
	}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if md.FrameRate != "50/1" {
		t.Errorf("framerate fallback: got %q, want 50/1", md.FrameRate)
	}
}

func TestParseJSON_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"no video stream", `{"streams": [{"codec_type": "audio"}], "format": {"duration": "10"}}`},
		{"zero dimensions", `{"streams": [{"codec_type": "video", "avg_frame_rate": "25/1"}], "format": {"duration": "10"}}`},
		{"missing duration", `{"streams": [{"codec_type": "video", "width": 1280, "height": 720, "avg_frame_rate": "25/1"}], "format": {}}`},
		{"zero duration", `{"streams": [{"codec_type": "video", "width": 1280, "height": 720, "avg_frame_rate": "25/1"}], "format": {"duration": "0"}}`},
		{"no usable framerate", `{"streams": [{"codec_type": "video", "width": 1280, "height": 720, "avg_frame_rate": "0/0", "r_frame_rate": "0/0"}], "format": {"duration": "10"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tc.json))
			if !errors.Is(err, ErrMetadataUnavailable) {
				t.Errorf("want ErrMetadataUnavailable, got %v", err)
			}
		})
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	if _, err := ParseJSON([]byte("{not json")); err == nil {
		t.Error("malformed JSON should error")
	}
}
