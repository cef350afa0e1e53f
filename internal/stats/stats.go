// Package stats summarizes detection quality over a produced pose document.
// A run that completed but tracked poorly (many gated keypoints) is a
// legitimate, different outcome from a failed run; this report is how the
// two are told apart.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/erickrex/bachatrainer/internal/pose"
)

// KeypointStats aggregates one joint across all frames.
type KeypointStats struct {
	Name           string  `json:"name"`
	MeanConfidence float64 `json:"meanConfidence"`
	StdDev         float64 `json:"stdDev"`
	// Coverage is the fraction of frames where the joint cleared the
	// confidence gate.
	Coverage float64 `json:"coverage"`
}

// Report is the per-document quality summary.
type Report struct {
	SongID        string          `json:"songId"`
	Frames        int             `json:"frames"`
	MinConfidence float64         `json:"minConfidence"`
	Keypoints     []KeypointStats `json:"keypoints"`
	// UsableFrames is the fraction of frames where at least half the
	// keypoints cleared the gate.
	UsableFrames float64 `json:"usableFrames"`
}

// Summarize computes the quality report using minConfidence as the gate,
// normally the same threshold the angle calculator ran with.
func Summarize(seq *pose.Sequence, minConfidence float64) *Report {
	report := &Report{
		SongID:        seq.SongID,
		Frames:        len(seq.Frames),
		MinConfidence: minConfidence,
	}
	if len(seq.Frames) == 0 {
		return report
	}

	confidences := make(map[string][]float64, len(pose.KeypointNames))
	for _, name := range pose.KeypointNames {
		confidences[name] = make([]float64, 0, len(seq.Frames))
	}

	usable := 0
	for _, frame := range seq.Frames {
		cleared := 0
		for _, name := range pose.KeypointNames {
			conf := frame.Keypoints[name].Confidence
			confidences[name] = append(confidences[name], conf)
			if conf > minConfidence {
				cleared++
			}
		}
		if cleared*2 >= len(pose.KeypointNames) {
			usable++
		}
	}
	report.UsableFrames = float64(usable) / float64(len(seq.Frames))

	for _, name := range pose.KeypointNames {
		series := confidences[name]
		cleared := 0
		for _, c := range series {
			if c > minConfidence {
				cleared++
			}
		}
		stddev := 0.0
		if len(series) > 1 {
			stddev = stat.StdDev(series, nil)
		}
		report.Keypoints = append(report.Keypoints, KeypointStats{
			Name:           name,
			MeanConfidence: stat.Mean(series, nil),
			StdDev:         stddev,
			Coverage:       float64(cleared) / float64(len(series)),
		})
	}

	// Worst-tracked joints first; those are what the operator looks for.
	sort.Slice(report.Keypoints, func(i, j int) bool {
		return report.Keypoints[i].Coverage < report.Keypoints[j].Coverage
	})
	return report
}
