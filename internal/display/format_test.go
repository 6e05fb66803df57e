package display

import "testing"

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{10485760, "10.0 MiB"},
		{1073741824, "1.0 GiB"},
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatSizeMB(t *testing.T) {
	if got := FormatSizeMB(9.731); got != "9.73 MB" {
		t.Errorf("got %q, want %q", got, "9.73 MB")
	}
}

func TestFormatBitrateLabel(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{838, "838 kbps"},
		{999, "999 kbps"},
		{1000, "1.0 Mbps"},
		{2500, "2.5 Mbps"},
	}
	for _, tc := range cases {
		if got := FormatBitrateLabel(tc.in); got != tc.want {
			t.Errorf("FormatBitrateLabel(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{59.4, "0:59"},
		{100.5, "1:41"},
		{3600, "60:00"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
