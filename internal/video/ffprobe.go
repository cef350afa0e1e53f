package video

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFprobe shells out to ffprobe for container metadata. Used by the convert
// tooling for before/after reporting; frame decoding itself goes through
// Source.
type FFprobe struct{ Path string }

type ProbeResult struct {
	Format  FormatInfo   `json:"format"`
	Streams []StreamInfo `json:"streams"`
}

type FormatInfo struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
	Size     string `json:"size"`
}

type StreamInfo struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NbFrames     string `json:"nb_frames"`
}

func NewFFprobe(path string) *FFprobe { return &FFprobe{Path: path} }

func (f *FFprobe) Probe(filePath string) (*ProbeResult, error) {
	cmd := exec.Command(f.Path, "-v", "quiet", "-print_format", "json",
		"-show_format", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &result, nil
}

func (r *ProbeResult) videoStream() *StreamInfo {
	for i := range r.Streams {
		if r.Streams[i].CodecType == "video" {
			return &r.Streams[i]
		}
	}
	return nil
}

func (r *ProbeResult) GetDurationSeconds() float64 {
	duration, _ := strconv.ParseFloat(r.Format.Duration, 64)
	return duration
}

func (r *ProbeResult) GetWidth() int {
	if s := r.videoStream(); s != nil {
		return s.Width
	}
	return 0
}

func (r *ProbeResult) GetHeight() int {
	if s := r.videoStream(); s != nil {
		return s.Height
	}
	return 0
}

// GetFrameRate parses the rational r_frame_rate ("30000/1001") of the video
// stream. Returns 0 when no video stream or an unparsable rate is present.
func (r *ProbeResult) GetFrameRate() float64 {
	s := r.videoStream()
	if s == nil {
		return 0
	}
	rate := s.RFrameRate
	if rate == "" || rate == "0/0" {
		rate = s.AvgFrameRate
	}
	return parseRational(rate)
}

func parseRational(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		v, _ := strconv.ParseFloat(rate, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// GetFrameCount returns the stream's declared frame count, or 0 when the
// container does not carry one (many MKVs do not).
func (r *ProbeResult) GetFrameCount() int {
	if s := r.videoStream(); s != nil {
		n, _ := strconv.Atoi(s.NbFrames)
		return n
	}
	return 0
}
