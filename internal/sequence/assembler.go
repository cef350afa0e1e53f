// Package sequence drives one extraction run: frames in decode order through
// the detector and angle calculator, assembled into a pose document and
// persisted once, atomically, at the end of the pass.
package sequence

import (
	"gocv.io/x/gocv"

	"github.com/erickrex/bachatrainer/internal/detector"
	"github.com/erickrex/bachatrainer/internal/pose"
)

// FrameSource is the assembler's view of a video: fps, a possibly-wrong
// container frame estimate, and frames in decode order until exhaustion.
type FrameSource interface {
	FPS() float64
	EstimatedFrames() int
	Next() (gocv.Mat, bool)
}

// ProgressFunc observes the run; it is invoked every Nth processed frame
// with the processed count and the source's estimate. It cannot pause or
// cancel the run, and the estimate it receives is informational only.
type ProgressFunc func(processed, estimated int)

// DefaultProgressEvery matches the cadence the original tooling reported at.
const DefaultProgressEvery = 10

// Options tune an Assembler beyond its two collaborators.
type Options struct {
	// Progress, when set, is called every ProgressEvery frames.
	Progress      ProgressFunc
	ProgressEvery int
	// NullableAngles switches the document to the redesigned angle
	// encoding (null for non-computable) instead of the legacy 0.0
	// sentinel. The default stays legacy for app compatibility.
	NullableAngles bool
}

// Assembler owns the in-progress frame list and counter for exactly one
// run. The pipeline is sequential: one frame is fully processed before
// the next is decoded.
type Assembler struct {
	det  detector.Detector
	calc *pose.Calculator
	opts Options
}

func NewAssembler(det detector.Detector, calc *pose.Calculator, opts Options) *Assembler {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	return &Assembler{det: det, calc: calc, opts: opts}
}

// Run processes the source to exhaustion and returns the assembled
// document. It cannot fail: the source ends silently, per-frame detector
// trouble degrades to zero-confidence keypoints, and TotalFrames reflects
// what was actually processed even when the container estimate disagrees.
// A zero-length stream yields a document with TotalFrames == 0.
func (a *Assembler) Run(src FrameSource, songID string) *pose.Sequence {
	fps := src.FPS()
	frames := make([]pose.Frame, 0, max(src.EstimatedFrames(), 0))

	n := 0
	for {
		mat, ok := src.Next()
		if !ok {
			break
		}

		kps := a.det.Detect(mat)
		var angles map[string]*float64
		if a.opts.NullableAngles {
			angles = a.calc.NullableAngles(kps)
		} else {
			angles = pose.WireAngles(a.calc.Angles(kps))
		}

		frames = append(frames, pose.Frame{
			FrameNumber: n,
			Timestamp:   float64(n) / fps,
			Keypoints:   kps,
			Angles:      angles,
		})
		n++

		if a.opts.Progress != nil && n%a.opts.ProgressEvery == 0 {
			a.opts.Progress(n, src.EstimatedFrames())
		}
	}

	return &pose.Sequence{
		SongID:       songID,
		FPS:          fps,
		TotalFrames:  n,
		ModelVersion: a.det.Name(),
		Frames:       frames,
	}
}
