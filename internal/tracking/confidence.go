package tracking

import (
	"gonum.org/v1/gonum/stat"

	"github.com/wearview/fitmirror/internal/pose"
	"github.com/wearview/fitmirror/pkg/math"
)

// Confidence term weights. Fixed design constants, not learned.
const (
	weightVisibility = 0.5
	weightFrontal    = 0.3
	weightSymmetry   = 0.2

	// optimalDepthDiff is the shoulder z-difference at which frontalness
	// reaches zero. Empirical for MediaPipe normalized depth.
	optimalDepthDiff = 0.5
)

// keyPoints are the landmarks whose visibility drives the visibility term.
var keyPoints = []int{
	pose.Nose,
	pose.LeftShoulder,
	pose.RightShoulder,
	pose.LeftElbow,
	pose.RightElbow,
	pose.LeftHip,
	pose.RightHip,
}

// symmetryPairs are the left/right landmark pairs compared for the
// symmetry term.
var symmetryPairs = [][2]int{
	{pose.LeftShoulder, pose.RightShoulder},
	{pose.LeftElbow, pose.RightElbow},
	{pose.LeftHip, pose.RightHip},
}

// ConfidenceBreakdown exposes the individual confidence terms for
// diagnostics.
type ConfidenceBreakdown struct {
	Visibility float32
	Frontal    float32
	Symmetry   float32
}

// Estimator scores how trustworthy a pose sample is. Output is always in
// [0,1]; a nil pose scores zero rather than erroring.
type Estimator struct{}

// Score returns the overall confidence for the pose.
func (e Estimator) Score(p *pose.Pose) float32 {
	c, _ := e.ScoreDetailed(p)
	return c
}

// ScoreDetailed returns the overall confidence plus the term breakdown.
func (e Estimator) ScoreDetailed(p *pose.Pose) (float32, ConfidenceBreakdown) {
	if p == nil {
		return 0, ConfidenceBreakdown{}
	}

	b := ConfidenceBreakdown{
		Visibility: visibilityTerm(p),
		Frontal:    frontalTerm(p),
		Symmetry:   symmetryTerm(p),
	}

	score := weightVisibility*b.Visibility +
		weightFrontal*b.Frontal +
		weightSymmetry*b.Symmetry

	return math.Clamp(score, 0, 1), b
}

// visibilityTerm averages detection confidence over the key points.
// Points that carry no visibility value are excluded; with no valid
// points the term is zero.
func visibilityTerm(p *pose.Pose) float32 {
	valid := make([]float64, 0, len(keyPoints))
	for _, idx := range keyPoints {
		lm, ok := p.At(idx)
		if !ok || lm.Visibility <= 0 {
			continue
		}
		valid = append(valid, float64(lm.Visibility))
	}
	if len(valid) == 0 {
		return 0
	}
	return math.Clamp(float32(stat.Mean(valid, nil)), 0, 1)
}

// frontalTerm is high when the subject faces the camera: the closer the
// left and right shoulder depths, the more frontal the pose.
func frontalTerm(p *pose.Pose) float32 {
	left, okL := p.At(pose.LeftShoulder)
	right, okR := p.At(pose.RightShoulder)
	if !okL || !okR {
		return 0
	}
	diff := math.Abs(left.Z - right.Z)
	return math.Clamp(1-diff/optimalDepthDiff, 0, 1)
}

// symmetryTerm compares detection confidence across left/right pairs.
func symmetryTerm(p *pose.Pose) float32 {
	var sum float32
	var n int
	for _, pair := range symmetryPairs {
		left, okL := p.At(pair[0])
		right, okR := p.At(pair[1])
		if !okL || !okR || left.Visibility <= 0 || right.Visibility <= 0 {
			continue
		}
		sum += 1 - math.Abs(left.Visibility-right.Visibility)
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Clamp(sum/float32(n), 0, 1)
}
