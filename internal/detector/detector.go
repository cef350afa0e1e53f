// Package detector maps raw video frames to the 17 canonical COCO keypoints.
//
// Backends are selected once at run start and hold their loaded model as
// read-only state for the whole run. Loading a backend can fail and aborts
// the run; detecting on a single frame never fails — a frame the backend
// cannot use yields the full keypoint set at zero confidence so the caller
// still counts the frame.
package detector

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/erickrex/bachatrainer/internal/pose"
)

// Detector turns one decoded frame into keypoints.
type Detector interface {
	// Detect returns exactly the 17 canonical keypoints, coordinates
	// normalized to [0,1] of the original frame. Never fails; degraded
	// frames come back at zero confidence.
	Detect(frame gocv.Mat) pose.Keypoints

	// Name identifies the backend for the document's modelVersion tag.
	Name() string

	// Close releases the loaded model.
	Close() error
}

// Backend kinds accepted by New.
const (
	KindMoveNetLightning = "movenet-lightning"
	KindMoveNetThunder   = "movenet-thunder"
	KindYOLOv8Pose       = "yolov8s-pose"
	KindStub             = "stub"
)

// New loads the named backend. modelPath is ignored by the stub backend.
func New(kind, modelPath string) (Detector, error) {
	switch kind {
	case KindMoveNetLightning:
		return NewMoveNet(modelPath, 192)
	case KindMoveNetThunder:
		return NewMoveNet(modelPath, 256)
	case KindYOLOv8Pose:
		return NewYOLOPose(modelPath)
	case KindStub:
		return NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown detector backend %q", kind)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
