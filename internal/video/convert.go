package video

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const ffmpegTimeout = 30 * time.Minute

// Tools wraps the ffmpeg invocations used to prepare reference videos
// before extraction: 720p re-encode, trimming, and MKV→MP4 remux.
type Tools struct {
	FFmpegPath string
}

func NewTools(ffmpegPath string) *Tools {
	return &Tools{FFmpegPath: ffmpegPath}
}

// To720p re-encodes to 720p height with the aspect ratio preserved
// (H.264 CRF 23, AAC 192k), matching what the trainer app bundles.
func (t *Tools) To720p(input, output string) error {
	return t.run(input, output,
		"-i", input,
		"-vf", "scale=-2:720",
		"-c:v", "libx264",
		"-crf", "23",
		"-preset", "medium",
		"-c:a", "aac",
		"-b:a", "192k",
		"-y",
		output,
	)
}

// Cut trims the segment between start and end (HH:MM:SS, MM:SS or plain
// seconds). The segment is re-encoded rather than stream-copied: -c copy
// would snap the cut to the nearest keyframe, and trimmed dance sections
// need frame-accurate starts.
func (t *Tools) Cut(input, start, end, output string) error {
	duration, err := cutDuration(start, end)
	if err != nil {
		return err
	}
	return t.run(input, output,
		"-ss", start,
		"-i", input,
		"-t", formatSeconds(duration),
		"-c:v", "libx264",
		"-crf", "23",
		"-preset", "fast",
		"-c:a", "aac",
		"-b:a", "192k",
		"-y",
		output,
	)
}

// cutDuration converts the start/end pair into the segment length: with
// -ss placed before -i, ffmpeg's clock restarts at the seek point, so the
// end time must be passed as a duration.
func cutDuration(start, end string) (float64, error) {
	s, err := parseTime(start)
	if err != nil {
		return 0, err
	}
	e, err := parseTime(end)
	if err != nil {
		return 0, err
	}
	if e <= s {
		return 0, fmt.Errorf("cut end %q is not after start %q", end, start)
	}
	return e - s, nil
}

// parseTime converts "SS", "MM:SS" or "HH:MM:SS" to seconds.
func parseTime(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	multipliers := []float64{1, 60, 3600}
	if len(parts) > len(multipliers) {
		return 0, fmt.Errorf("invalid time format %q", ts)
	}
	total := 0.0
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid time format %q", ts)
		}
		total += v * multipliers[len(parts)-1-i]
	}
	return total, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RemuxToMP4 rewraps streams into an MP4 container without re-encoding.
func (t *Tools) RemuxToMP4(input, output string) error {
	return t.run(input, output,
		"-i", input,
		"-c", "copy",
		"-movflags", "+faststart",
		"-y",
		output,
	)
}

func (t *Tools) run(input, output string, args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), ffmpegTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.FFmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ffmpeg timed out after %v: %s", ffmpegTimeout, input)
		}
		log.Printf("[video] ffmpeg failed for %s: %s", input, tail(string(out), 500))
		return fmt.Errorf("ffmpeg %s: %w", input, err)
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
