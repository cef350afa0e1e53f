package detector

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"github.com/erickrex/bachatrainer/internal/pose"
)

// MoveNet is a single-pass, single-person pose backend. The lightning
// variant takes 192-pixel square input, thunder 256. The model emits one
// candidate per frame as [1,1,17,3] (y, x, score) with coordinates already
// normalized to the input square.
type MoveNet struct {
	net       gocv.Net
	inputSize int
	name      string
}

// NewMoveNet loads the ONNX model. A missing or unreadable model is fatal
// to the run.
func NewMoveNet(modelPath string, inputSize int) (*MoveNet, error) {
	if inputSize != 192 && inputSize != 256 {
		return nil, fmt.Errorf("movenet input size must be 192 or 256, got %d", inputSize)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("movenet model: %w", err)
	}
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("movenet model %s: failed to load network", modelPath)
	}
	name := "movenet-thunder"
	if inputSize == 192 {
		name = "movenet-lightning"
	}
	return &MoveNet{net: net, inputSize: inputSize, name: name}, nil
}

func (m *MoveNet) Detect(frame gocv.Mat) pose.Keypoints {
	if frame.Empty() {
		return pose.ZeroKeypoints()
	}

	blob := gocv.BlobFromImage(frame, 1.0/255.0,
		image.Pt(m.inputSize, m.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	m.net.SetInput(blob, "")
	out := m.net.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return pose.ZeroKeypoints()
	}
	return parseMoveNetOutput(data)
}

// parseMoveNetOutput maps the flat [1,1,17,3] tensor to named keypoints.
// A short tensor means the backend produced garbage for this frame.
func parseMoveNetOutput(data []float32) pose.Keypoints {
	if len(data) < len(pose.KeypointNames)*3 {
		return pose.ZeroKeypoints()
	}
	kps := make(pose.Keypoints, len(pose.KeypointNames))
	for i, name := range pose.KeypointNames {
		y := float64(data[i*3])
		x := float64(data[i*3+1])
		conf := float64(data[i*3+2])
		kps[name] = pose.Keypoint{
			X:          clamp01(x),
			Y:          clamp01(y),
			Confidence: clamp01(conf),
		}
	}
	return kps
}

func (m *MoveNet) Name() string { return m.name }

func (m *MoveNet) Close() error { return m.net.Close() }
