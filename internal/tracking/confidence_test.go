package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wearview/fitmirror/internal/pose"
)

// frontalPose builds a clean frontal pose with every key point visible.
func frontalPose() *pose.Pose {
	p := &pose.Pose{}
	set := func(idx int, x, y, z, vis float32) {
		p.Landmarks[idx] = pose.Landmark{X: x, Y: y, Z: z, Visibility: vis}
	}
	set(pose.Nose, 0.5, 0.3, 0, 1)
	set(pose.LeftShoulder, 0.4, 0.5, 0, 1)
	set(pose.RightShoulder, 0.6, 0.5, 0, 1)
	set(pose.LeftElbow, 0.35, 0.65, 0, 1)
	set(pose.RightElbow, 0.65, 0.65, 0, 1)
	set(pose.LeftHip, 0.45, 0.8, 0, 1)
	set(pose.RightHip, 0.55, 0.8, 0, 1)
	return p
}

func TestScoreNilPose(t *testing.T) {
	var e Estimator
	assert.Zero(t, e.Score(nil))
}

func TestScoreFrontalPoseIsHigh(t *testing.T) {
	var e Estimator
	score, b := e.ScoreDetailed(frontalPose())

	assert.InDelta(t, 1.0, float64(b.Visibility), 1e-6)
	assert.InDelta(t, 1.0, float64(b.Frontal), 1e-6)
	assert.InDelta(t, 1.0, float64(b.Symmetry), 1e-6)
	assert.InDelta(t, 1.0, float64(score), 1e-6)
}

func TestScoreTurnedAwayLowersFrontal(t *testing.T) {
	var e Estimator
	p := frontalPose()
	p.Landmarks[pose.LeftShoulder].Z = 0.4
	p.Landmarks[pose.RightShoulder].Z = -0.4

	_, b := e.ScoreDetailed(p)
	assert.Zero(t, b.Frontal, "shoulder depth spread beyond the optimum zeroes frontalness")
}

func TestScoreAsymmetricVisibility(t *testing.T) {
	var e Estimator
	p := frontalPose()
	p.Landmarks[pose.LeftShoulder].Visibility = 1.0
	p.Landmarks[pose.RightShoulder].Visibility = 0.2

	_, b := e.ScoreDetailed(p)
	assert.Less(t, b.Symmetry, float32(1.0))
}

func TestScoreEmptyPose(t *testing.T) {
	var e Estimator
	score, b := e.ScoreDetailed(&pose.Pose{})

	assert.Zero(t, b.Visibility)
	assert.Zero(t, b.Symmetry)
	assert.GreaterOrEqual(t, score, float32(0))
	assert.LessOrEqual(t, score, float32(1))
}

// Confidence must stay in [0,1] for any landmark set, however malformed.
func TestScoreBounds(t *testing.T) {
	var e Estimator

	extreme := []*pose.Pose{
		nil,
		{},
		frontalPose(),
	}

	// Out-of-range visibilities and wild depths.
	wild := &pose.Pose{}
	for i := range wild.Landmarks {
		wild.Landmarks[i] = pose.Landmark{
			X: -50, Y: 1e6, Z: float32(i) * 100, Visibility: 5,
		}
	}
	extreme = append(extreme, wild)

	negative := &pose.Pose{}
	for i := range negative.Landmarks {
		negative.Landmarks[i] = pose.Landmark{Visibility: -1}
	}
	extreme = append(extreme, negative)

	for _, p := range extreme {
		score := e.Score(p)
		assert.GreaterOrEqual(t, score, float32(0))
		assert.LessOrEqual(t, score, float32(1))
	}
}
