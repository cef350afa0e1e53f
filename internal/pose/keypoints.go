// Package pose holds the wire-level data model for extracted pose sequences
// and the joint-angle geometry computed over it. The JSON shape produced here
// is consumed by the mobile trainer app and must stay stable across detector
// backend changes.
package pose

// Canonical COCO keypoint names, in model output order.
var KeypointNames = [17]string{
	"nose", "leftEye", "rightEye", "leftEar", "rightEar",
	"leftShoulder", "rightShoulder", "leftElbow", "rightElbow",
	"leftWrist", "rightWrist", "leftHip", "rightHip",
	"leftKnee", "rightKnee", "leftAnkle", "rightAnkle",
}

// Keypoint is one named joint position. X and Y are normalized to [0,1]
// relative to the original frame width/height.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Keypoints maps each canonical keypoint name to its detected position.
// A well-formed set always carries exactly the 17 canonical names.
type Keypoints map[string]Keypoint

// ZeroKeypoints returns the full canonical set at zero position and zero
// confidence. Detectors hand this back for frames they cannot use.
func ZeroKeypoints() Keypoints {
	kps := make(Keypoints, len(KeypointNames))
	for _, name := range KeypointNames {
		kps[name] = Keypoint{}
	}
	return kps
}

// Complete reports whether all 17 canonical names are present.
func (k Keypoints) Complete() bool {
	for _, name := range KeypointNames {
		if _, ok := k[name]; !ok {
			return false
		}
	}
	return true
}

// Frame is one sampled video instant.
type Frame struct {
	FrameNumber int                 `json:"frameNumber"`
	Timestamp   float64             `json:"timestamp"`
	Keypoints   Keypoints           `json:"keypoints"`
	Angles      map[string]*float64 `json:"angles"`
}

// Sequence is the full pose document for one video. TotalFrames counts the
// frames actually processed and is authoritative over any container estimate.
type Sequence struct {
	SongID       string  `json:"songId"`
	FPS          float64 `json:"fps"`
	TotalFrames  int     `json:"totalFrames"`
	ModelVersion string  `json:"modelVersion,omitempty"`
	Frames       []Frame `json:"frames"`
}
