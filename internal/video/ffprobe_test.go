package video

import "testing"

func TestParseRational(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 30000.0 / 1001.0},
		{"25", 25},
		{"0/0", 0},
		{"", 0},
		{"x/y", 0},
	}
	for _, tc := range cases {
		if got := parseRational(tc.in); got != tc.want {
			t.Errorf("parseRational(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGetFrameRatePrefersRFrameRate(t *testing.T) {
	r := &ProbeResult{Streams: []StreamInfo{
		{CodecType: "audio", CodecName: "aac"},
		{CodecType: "video", RFrameRate: "24/1", AvgFrameRate: "30/1"},
	}}
	if got := r.GetFrameRate(); got != 24 {
		t.Errorf("GetFrameRate() = %v, want 24", got)
	}
}

func TestGetFrameRateFallsBackToAvg(t *testing.T) {
	r := &ProbeResult{Streams: []StreamInfo{
		{CodecType: "video", RFrameRate: "0/0", AvgFrameRate: "30/1"},
	}}
	if got := r.GetFrameRate(); got != 30 {
		t.Errorf("GetFrameRate() = %v, want 30", got)
	}
}

func TestGetFrameRateNoVideoStream(t *testing.T) {
	r := &ProbeResult{Streams: []StreamInfo{{CodecType: "audio"}}}
	if got := r.GetFrameRate(); got != 0 {
		t.Errorf("GetFrameRate() = %v, want 0", got)
	}
}

func TestStem(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/songs/bachata_sensual.mp4", "bachata_sensual"},
		{"clip.720p.mkv", "clip.720p"},
		{"noext", "noext"},
	}
	for _, tc := range cases {
		if got := Stem(tc.in); got != tc.want {
			t.Errorf("Stem(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
