package validate

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"gocv.io/x/gocv"

	"github.com/erickrex/bachatrainer/internal/detector"
	"github.com/erickrex/bachatrainer/internal/pose"
	"github.com/erickrex/bachatrainer/internal/sequence"
)

type fakeSource struct {
	fps       float64
	remaining int
}

func (f *fakeSource) FPS() float64         { return f.fps }
func (f *fakeSource) EstimatedFrames() int { return f.remaining }
func (f *fakeSource) Next() (gocv.Mat, bool) {
	if f.remaining <= 0 {
		return gocv.Mat{}, false
	}
	f.remaining--
	return gocv.Mat{}, true
}

// produce builds a document through the real assembler and re-decodes it
// the way a consumer would.
func produce(t *testing.T, frames int) map[string]any {
	t.Helper()
	asm := sequence.NewAssembler(detector.NewStub(), pose.NewCalculator(0.3), sequence.Options{})
	seq := asm.Run(&fakeSource{fps: 30, remaining: frames}, "test_song")

	data, err := json.Marshal(seq)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return doc
}

func hasErrorContaining(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestProducedDocumentIsValid(t *testing.T) {
	ok, errs := Document(produce(t, 12))
	if !ok || len(errs) != 0 {
		t.Fatalf("Document() = %v, errors: %v", ok, errs)
	}
}

func TestTotalFramesMismatch(t *testing.T) {
	doc := produce(t, 12)
	doc["totalFrames"] = float64(99)

	ok, errs := Document(doc)
	if ok {
		t.Fatal("mismatched document reported valid")
	}
	if !hasErrorContaining(errs, "doesn't match totalFrames") {
		t.Errorf("no length-mismatch error in %v", errs)
	}
}

func TestMissingRequiredFields(t *testing.T) {
	doc := produce(t, 3)
	delete(doc, "fps")
	delete(doc, "frames")

	ok, errs := Document(doc)
	if ok {
		t.Fatal("document without fps/frames reported valid")
	}
	if !hasErrorContaining(errs, "missing required field: fps") ||
		!hasErrorContaining(errs, "missing required field: frames") {
		t.Errorf("missing-field errors incomplete: %v", errs)
	}
}

func TestWrongFieldTypes(t *testing.T) {
	doc := produce(t, 3)
	doc["songId"] = 42.0
	doc["fps"] = float64(-1)

	ok, errs := Document(doc)
	if ok {
		t.Fatal("mistyped document reported valid")
	}
	if !hasErrorContaining(errs, "songId must be a string") {
		t.Errorf("no songId type error in %v", errs)
	}
	if !hasErrorContaining(errs, "fps must be a positive number") {
		t.Errorf("no fps error in %v", errs)
	}
}

func TestZeroFrameDocumentRejected(t *testing.T) {
	doc := produce(t, 0)

	ok, errs := Document(doc)
	if ok {
		t.Fatal("zero-frame document reported valid")
	}
	if !hasErrorContaining(errs, "totalFrames must be a positive integer") {
		t.Errorf("no totalFrames error in %v", errs)
	}
}

func TestAngleOutOfRange(t *testing.T) {
	doc := produce(t, 2)
	frames := doc["frames"].([]any)
	last := frames[len(frames)-1].(map[string]any)
	last["angles"].(map[string]any)["leftArm"] = float64(270)

	ok, errs := Document(doc)
	if ok {
		t.Fatal("out-of-range angle reported valid")
	}
	if !hasErrorContaining(errs, "out of range") {
		t.Errorf("no range error in %v", errs)
	}
}

func TestNullAngleAccepted(t *testing.T) {
	doc := produce(t, 2)
	frames := doc["frames"].([]any)
	frames[0].(map[string]any)["angles"].(map[string]any)["leftArm"] = nil

	if ok, errs := Document(doc); !ok {
		t.Errorf("null angle rejected: %v", errs)
	}
}

func TestMissingKeypointFlagged(t *testing.T) {
	doc := produce(t, 2)
	frames := doc["frames"].([]any)
	kps := frames[0].(map[string]any)["keypoints"].(map[string]any)
	delete(kps, "leftWrist")

	ok, errs := Document(doc)
	if ok {
		t.Fatal("frame with missing keypoint reported valid")
	}
	if !hasErrorContaining(errs, "missing keypoint leftWrist") {
		t.Errorf("no missing-keypoint error in %v", errs)
	}
}

func TestErrorsAreCollectedNotShortCircuited(t *testing.T) {
	doc := produce(t, 3)
	doc["songId"] = 42.0
	doc["totalFrames"] = float64(7)
	frames := doc["frames"].([]any)
	frames[0].(map[string]any)["angles"].(map[string]any)["leftLeg"] = "high"

	ok, errs := Document(doc)
	if ok {
		t.Fatal("broken document reported valid")
	}
	if len(errs) < 3 {
		t.Errorf("expected at least 3 collected errors, got %v", errs)
	}
}

func TestFileMissing(t *testing.T) {
	ok, errs := File(filepath.Join(t.TempDir(), "absent.json"))
	if ok || len(errs) == 0 {
		t.Error("missing file reported valid")
	}
}
