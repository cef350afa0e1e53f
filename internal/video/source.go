// Package video supplies frames from stored videos and thin ffmpeg/ffprobe
// wrappers for the surrounding tooling.
package video

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

// ErrOpen marks a video that cannot be opened or decoded at all. This is
// fatal to a run, unlike a stream that simply ends early.
var ErrOpen = errors.New("video cannot be opened")

// Source is a lazy, forward-only frame supplier for one stored video.
//
// EstimatedFrames comes from the container header and some containers
// misreport it; only the consumer's processed count is authoritative.
// The stream ending before the estimate is reached is not an error.
type Source struct {
	cap       *gocv.VideoCapture
	frame     gocv.Mat
	path      string
	fps       float64
	estimated int
}

// Open opens the video for sequential decoding.
func Open(path string) (*Source, error) {
	cap, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("%w: %s", ErrOpen, path)
	}
	fps := cap.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		cap.Close()
		return nil, fmt.Errorf("%w: %s: container reports no frame rate", ErrOpen, path)
	}
	return &Source{
		cap:       cap,
		frame:     gocv.NewMat(),
		path:      path,
		fps:       fps,
		estimated: int(cap.Get(gocv.VideoCaptureFrameCount)),
	}, nil
}

func (s *Source) FPS() float64 { return s.fps }

// EstimatedFrames is the container's frame-count claim; may be wrong.
func (s *Source) EstimatedFrames() int { return s.estimated }

// Next returns the next decoded frame in decode order, or ok=false at end
// of stream. The returned Mat is reused by the next call; consume it before
// calling Next again.
func (s *Source) Next() (gocv.Mat, bool) {
	if s.cap == nil {
		return gocv.Mat{}, false
	}
	if !s.cap.Read(&s.frame) || s.frame.Empty() {
		return gocv.Mat{}, false
	}
	return s.frame, true
}

func (s *Source) Close() error {
	if s.cap == nil {
		return nil
	}
	s.frame.Close()
	err := s.cap.Close()
	s.cap = nil
	return err
}

// Stem returns the video's base filename without extension; it becomes the
// document's songId and the output filename stem.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
