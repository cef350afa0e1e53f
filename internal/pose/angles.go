package pose

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Canonical joint-angle names. The elbow/leg names are aliases of the
// arm/thigh angles, kept for output compatibility with documents the mobile
// app already ships.
var AngleNames = [8]string{
	"leftArm", "rightArm", "leftElbow", "rightElbow",
	"leftThigh", "rightThigh", "leftLeg", "rightLeg",
}

// angleTriples binds each primary angle to its (proximal, joint, distal)
// keypoints and to the alias that mirrors it.
var angleTriples = []struct {
	name, alias    string
	p1, vertex, p3 string
}{
	{"leftArm", "leftElbow", "leftShoulder", "leftElbow", "leftWrist"},
	{"rightArm", "rightElbow", "rightShoulder", "rightElbow", "rightWrist"},
	{"leftThigh", "leftLeg", "leftHip", "leftKnee", "leftAnkle"},
	{"rightThigh", "rightLeg", "rightHip", "rightKnee", "rightAnkle"},
}

// epsilon keeps the cosine denominator away from zero for degenerate vectors.
const epsilon = 1e-6

// Calculator computes joint angles from keypoints. MinConfidence gates the
// geometry: historically this constant was duplicated per backend script
// (0.5 for the MoveNet variants, 0.3 for YOLOv8), so it is an explicit
// parameter here rather than an implicit constant.
type Calculator struct {
	MinConfidence float64
}

// DefaultMinConfidence matches the YOLOv8 variant; the looser gate keeps
// wrist angles from dropping out on fast arm movement.
const DefaultMinConfidence = 0.3

func NewCalculator(minConfidence float64) *Calculator {
	return &Calculator{MinConfidence: minConfidence}
}

// Measure returns the angle in degrees at vertex p2 between p1 and p3, and
// whether it was computable. Gating: if any point's confidence is at or below
// MinConfidence the angle is not computable.
func (c *Calculator) Measure(p1, p2, p3 Keypoint) (float64, bool) {
	if p1.Confidence <= c.MinConfidence || p2.Confidence <= c.MinConfidence || p3.Confidence <= c.MinConfidence {
		return 0, false
	}

	v1 := []float64{p1.X - p2.X, p1.Y - p2.Y}
	v2 := []float64{p3.X - p2.X, p3.Y - p2.Y}

	cos := floats.Dot(v1, v2) / (floats.Norm(v1, 2)*floats.Norm(v2, 2) + epsilon)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}

// Angle is the legacy form of Measure: a non-computable angle collapses to
// the 0.0 sentinel, indistinguishable on the wire from a true zero-degree
// measurement. The ambiguity is inherited from the shipped document format;
// consumers that care should use Measure or the nullable export.
func (c *Calculator) Angle(p1, p2, p3 Keypoint) float64 {
	deg, ok := c.Measure(p1, p2, p3)
	if !ok {
		return 0
	}
	return deg
}

// Angles computes the 8 canonical angles in the legacy wire encoding.
// A primary key is omitted when its triple's keypoints are missing from the
// map; its alias is still emitted, falling back to 0.0. With a complete
// keypoint set all 8 names are present.
func (c *Calculator) Angles(kps Keypoints) map[string]float64 {
	angles := make(map[string]float64, len(AngleNames))
	for _, t := range angleTriples {
		p1, ok1 := kps[t.p1]
		p2, ok2 := kps[t.vertex]
		p3, ok3 := kps[t.p3]
		if ok1 && ok2 && ok3 {
			angles[t.name] = c.Angle(p1, p2, p3)
		}
		angles[t.alias] = angles[t.name]
	}
	return angles
}

// NullableAngles is the redesigned encoding: non-computable angles are nil
// rather than the overloaded 0.0 sentinel. Key presence follows Angles.
func (c *Calculator) NullableAngles(kps Keypoints) map[string]*float64 {
	angles := make(map[string]*float64, len(AngleNames))
	for _, t := range angleTriples {
		p1, ok1 := kps[t.p1]
		p2, ok2 := kps[t.vertex]
		p3, ok3 := kps[t.p3]
		if ok1 && ok2 && ok3 {
			if deg, ok := c.Measure(p1, p2, p3); ok {
				v := deg
				angles[t.name] = &v
			} else {
				angles[t.name] = nil
			}
		}
		angles[t.alias] = angles[t.name]
	}
	return angles
}

// WireAngles lifts a legacy angle map into the document representation.
func WireAngles(angles map[string]float64) map[string]*float64 {
	wire := make(map[string]*float64, len(angles))
	for name, deg := range angles {
		v := deg
		wire[name] = &v
	}
	return wire
}
