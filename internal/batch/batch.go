// Package batch walks a directory of dance videos and runs the full
// extraction pipeline on each one, writing a pose document per video.
package batch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/erickrex/bachatrainer/internal/detector"
	"github.com/erickrex/bachatrainer/internal/pose"
	"github.com/erickrex/bachatrainer/internal/sequence"
	"github.com/erickrex/bachatrainer/internal/video"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// IsVideo reports whether path has a recognized video extension.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// FindVideos returns the video files directly under dir, sorted by name.
// Hidden files and partial downloads are skipped.
func FindVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read videos directory: %w", err)
	}
	var videos []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".tmp") {
			continue
		}
		if IsVideo(name) {
			videos = append(videos, filepath.Join(dir, name))
		}
	}
	sort.Strings(videos)
	return videos, nil
}

// VideoResult records the outcome of processing a single video.
type VideoResult struct {
	Video  string
	Output string
	Frames int
	Err    error
}

// Summary aggregates a batch run.
type Summary struct {
	RunID   string
	Results []VideoResult
}

func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

func (s *Summary) Failed() int { return len(s.Results) - s.Succeeded() }

// Processor runs the extraction pipeline over one or more videos.
type Processor struct {
	Detector  detector.Detector
	Calc      *pose.Calculator
	OutputDir string
	Options   sequence.Options
}

// ProcessVideo extracts a pose document from a single video file.
// A video that yields no frames is reported as a failure; its document
// is not written.
func (p *Processor) ProcessVideo(videoPath string) VideoResult {
	res := VideoResult{Video: videoPath}

	src, err := video.Open(videoPath)
	if err != nil {
		res.Err = fmt.Errorf("open %s: %w", filepath.Base(videoPath), err)
		return res
	}
	defer src.Close()

	asm := sequence.NewAssembler(p.Detector, p.Calc, p.Options)
	seq := asm.Run(src, video.Stem(videoPath))
	if seq.TotalFrames == 0 {
		res.Err = fmt.Errorf("%s: no frames decoded", filepath.Base(videoPath))
		return res
	}

	out := filepath.Join(p.OutputDir, video.Stem(videoPath)+".json")
	if err := sequence.Write(seq, out); err != nil {
		res.Err = fmt.Errorf("write %s: %w", filepath.Base(out), err)
		return res
	}
	res.Output = out
	res.Frames = seq.TotalFrames
	return res
}

// Run processes every video in videosDir and returns a per-video summary.
func (p *Processor) Run(videosDir string) (*Summary, error) {
	videos, err := FindVideos(videosDir)
	if err != nil {
		return nil, err
	}
	sum := &Summary{RunID: uuid.New().String()}
	log.Printf("[batch] run %s: %d videos in %s", sum.RunID, len(videos), videosDir)

	for i, v := range videos {
		log.Printf("[batch] (%d/%d) %s", i+1, len(videos), filepath.Base(v))
		res := p.ProcessVideo(v)
		if res.Err != nil {
			log.Printf("[batch] FAILED %s: %v", filepath.Base(v), res.Err)
		} else {
			log.Printf("[batch] wrote %s (%d frames)", res.Output, res.Frames)
		}
		sum.Results = append(sum.Results, res)
	}
	log.Printf("[batch] run %s done: %d ok, %d failed", sum.RunID, sum.Succeeded(), sum.Failed())
	return sum, nil
}
