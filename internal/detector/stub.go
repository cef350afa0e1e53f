package detector

import (
	"gocv.io/x/gocv"

	"github.com/erickrex/bachatrainer/internal/pose"
)

// Stub returns a fixed, fully-confident standing pose for every frame.
// Used by tests and dry runs; it never inspects the frame.
type Stub struct {
	Pose       pose.Keypoints
	Confidence float64
}

// NewStub builds a stub with a plausible upright pose at confidence 0.9.
func NewStub() *Stub {
	s := &Stub{Confidence: 0.9}
	s.Pose = standingPose(s.Confidence)
	return s
}

func standingPose(conf float64) pose.Keypoints {
	coords := map[string][2]float64{
		"nose":          {0.50, 0.10},
		"leftEye":       {0.48, 0.09},
		"rightEye":      {0.52, 0.09},
		"leftEar":       {0.46, 0.10},
		"rightEar":      {0.54, 0.10},
		"leftShoulder":  {0.42, 0.22},
		"rightShoulder": {0.58, 0.22},
		"leftElbow":     {0.38, 0.35},
		"rightElbow":    {0.62, 0.35},
		"leftWrist":     {0.36, 0.47},
		"rightWrist":    {0.64, 0.47},
		"leftHip":       {0.45, 0.50},
		"rightHip":      {0.55, 0.50},
		"leftKnee":      {0.44, 0.70},
		"rightKnee":     {0.56, 0.70},
		"leftAnkle":     {0.44, 0.90},
		"rightAnkle":    {0.56, 0.90},
	}
	kps := make(pose.Keypoints, len(coords))
	for name, xy := range coords {
		kps[name] = pose.Keypoint{X: xy[0], Y: xy[1], Confidence: conf}
	}
	return kps
}

func (s *Stub) Detect(_ gocv.Mat) pose.Keypoints {
	kps := make(pose.Keypoints, len(s.Pose))
	for name, kp := range s.Pose {
		kps[name] = kp
	}
	return kps
}

func (s *Stub) Name() string { return "stub" }

func (s *Stub) Close() error { return nil }
