package detector

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"github.com/erickrex/bachatrainer/internal/pose"
)

// YOLOPose is the multi-candidate pose backend using a YOLOv8-pose ONNX
// export. The model proposes many candidate people per frame; the backend
// keeps only the candidate with the highest aggregate confidence and
// discards the rest. There is no cross-frame identity: if another dancer
// scores higher on the next frame, the subject silently switches. That is
// the shipped behavior the trainer app was tuned against, preserved here.
type YOLOPose struct {
	net       gocv.Net
	inputSize int
}

const (
	yoloInputSize = 640
	// yoloScoreFloor matches the ultralytics default confidence cut-off.
	yoloScoreFloor = 0.25
	// 4 box values + 1 score + 17 keypoints * (x, y, conf)
	yoloRowCount = 56
)

func NewYOLOPose(modelPath string) (*YOLOPose, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("yolov8-pose model: %w", err)
	}
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("yolov8-pose model %s: failed to load network", modelPath)
	}
	return &YOLOPose{net: net, inputSize: yoloInputSize}, nil
}

func (y *YOLOPose) Detect(frame gocv.Mat) pose.Keypoints {
	if frame.Empty() {
		return pose.ZeroKeypoints()
	}

	blob := gocv.BlobFromImage(frame, 1.0/255.0,
		image.Pt(y.inputSize, y.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	y.net.SetInput(blob, "")
	out := y.net.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return pose.ZeroKeypoints()
	}
	candidates := len(data) / yoloRowCount

	best := selectBestCandidate(data, candidates)
	if best < 0 {
		return pose.ZeroKeypoints()
	}
	return parseYOLOCandidate(data, candidates, best, float64(y.inputSize))
}

// selectBestCandidate returns the index of the candidate with the highest
// aggregate (box) confidence, or -1 when nothing clears the floor. The
// tensor is laid out row-major [56][n]: row 4 holds the candidate scores.
func selectBestCandidate(data []float32, n int) int {
	if n <= 0 || len(data) < yoloRowCount*n {
		return -1
	}
	best := -1
	bestScore := float32(yoloScoreFloor)
	for i := 0; i < n; i++ {
		if s := data[4*n+i]; s > bestScore {
			bestScore = s
			best = i
		}
	}
	return best
}

// parseYOLOCandidate extracts the 17 keypoints of one candidate. Model
// coordinates are pixels in the square input; dividing by the input size
// yields the fraction of the (uniformly resized) original frame.
func parseYOLOCandidate(data []float32, n, idx int, inputSize float64) pose.Keypoints {
	kps := make(pose.Keypoints, len(pose.KeypointNames))
	for k, name := range pose.KeypointNames {
		x := float64(data[(5+k*3)*n+idx]) / inputSize
		yv := float64(data[(5+k*3+1)*n+idx]) / inputSize
		conf := float64(data[(5+k*3+2)*n+idx])
		kps[name] = pose.Keypoint{
			X:          clamp01(x),
			Y:          clamp01(yv),
			Confidence: clamp01(conf),
		}
	}
	return kps
}

func (y *YOLOPose) Name() string { return "yolov8s-pose" }

func (y *YOLOPose) Close() error { return y.net.Close() }
