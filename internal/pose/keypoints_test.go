package pose

import "testing"

func TestZeroKeypoints(t *testing.T) {
	kps := ZeroKeypoints()

	if len(kps) != 17 {
		t.Fatalf("got %d keypoints, want 17", len(kps))
	}
	if !kps.Complete() {
		t.Fatal("zero set is not complete")
	}
	for name, kp := range kps {
		if kp.X != 0 || kp.Y != 0 || kp.Confidence != 0 {
			t.Errorf("keypoint %q = %+v, want zero values", name, kp)
		}
	}
}

func TestCompleteDetectsMissingName(t *testing.T) {
	kps := ZeroKeypoints()
	delete(kps, "rightAnkle")
	if kps.Complete() {
		t.Error("Complete() = true with rightAnkle removed")
	}
}
