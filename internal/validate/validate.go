// Package validate is the consumer-side structural checker for persisted
// pose documents. It reports every problem it finds and never repairs;
// callers decide severity.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/erickrex/bachatrainer/internal/pose"
)

// File validates one persisted pose document.
func File(path string) (bool, []string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, []string{fmt.Sprintf("cannot read file: %v", err)}
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, []string{fmt.Sprintf("invalid JSON: %v", err)}
	}
	return Document(doc)
}

// Document validates a decoded pose document. All checks run; the error
// list is complete, not just the first failure.
func Document(doc map[string]any) (bool, []string) {
	var errs []string

	for _, field := range []string{"songId", "fps", "totalFrames", "frames"} {
		if _, ok := doc[field]; !ok {
			errs = append(errs, fmt.Sprintf("missing required field: %s", field))
		}
	}
	if len(errs) > 0 {
		return false, errs
	}

	if _, ok := doc["songId"].(string); !ok {
		errs = append(errs, "songId must be a string")
	}
	fps, ok := doc["fps"].(float64)
	if !ok || fps <= 0 {
		errs = append(errs, "fps must be a positive number")
	}

	totalFrames := -1
	if v, ok := doc["totalFrames"].(float64); ok && v == math.Trunc(v) && v > 0 {
		totalFrames = int(v)
	} else {
		// A zero-frame document means the video never decoded; it is
		// rejected rather than shipped to the app.
		errs = append(errs, "totalFrames must be a positive integer")
	}

	frames, ok := doc["frames"].([]any)
	if !ok {
		errs = append(errs, "frames must be an array")
		return false, errs
	}

	if totalFrames >= 0 && len(frames) != totalFrames {
		errs = append(errs, fmt.Sprintf(
			"frames array length (%d) doesn't match totalFrames (%d)", len(frames), totalFrames))
	}

	// Sample the first and last frames for structural checks.
	if len(frames) > 0 {
		errs = append(errs, checkFrame(frames[0], 0)...)
		if len(frames) > 1 {
			errs = append(errs, checkFrame(frames[len(frames)-1], len(frames)-1)...)
		}
	}

	return len(errs) == 0, errs
}

func checkFrame(v any, index int) []string {
	var errs []string

	frame, ok := v.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("frame %d is not an object", index)}
	}

	for _, field := range []string{"frameNumber", "timestamp", "keypoints", "angles"} {
		if _, ok := frame[field]; !ok {
			errs = append(errs, fmt.Sprintf("frame %d missing required field: %s", index, field))
		}
	}

	if kpsRaw, ok := frame["keypoints"]; ok {
		kps, ok := kpsRaw.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("frame %d: keypoints must be an object", index))
		} else {
			for _, name := range pose.KeypointNames {
				kpRaw, ok := kps[name]
				if !ok {
					errs = append(errs, fmt.Sprintf("frame %d: missing keypoint %s", index, name))
					continue
				}
				kp, ok := kpRaw.(map[string]any)
				if !ok {
					errs = append(errs, fmt.Sprintf("frame %d: keypoint %s is not an object", index, name))
					continue
				}
				for _, field := range []string{"x", "y", "confidence"} {
					if _, ok := kp[field].(float64); !ok {
						errs = append(errs, fmt.Sprintf("frame %d: keypoint %s missing %s", index, name, field))
					}
				}
			}
		}
	}

	if anglesRaw, ok := frame["angles"]; ok {
		angles, ok := anglesRaw.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("frame %d: angles must be an object", index))
		} else {
			for name, val := range angles {
				if val == nil {
					// Nullable export: null marks a non-computable angle.
					continue
				}
				deg, ok := val.(float64)
				if !ok {
					errs = append(errs, fmt.Sprintf("frame %d: angle %s must be a number", index, name))
					continue
				}
				if deg < 0 || deg > 180 {
					errs = append(errs, fmt.Sprintf("frame %d: angle %s out of range (0-180): %v", index, name, deg))
				}
			}
		}
	}

	return errs
}
