// Package pose provides body landmark types and the landmark feed.
package pose

import (
	"github.com/wearview/fitmirror/pkg/math"
)

// Body landmark indices following the MediaPipe pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Landmark is a single tracked body keypoint. X and Y are normalized to
// [0,1] relative to the frame (image-space, Y grows downward), Z is relative
// depth, Visibility is detection confidence in [0,1].
type Landmark struct {
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Z          float32 `json:"z"`
	Visibility float32 `json:"visibility"`
}

// Position returns the landmark position as a Vec3.
func (l Landmark) Position() math.Vec3 {
	return math.Vec3{X: l.X, Y: l.Y, Z: l.Z}
}

// Visible reports whether the landmark was confidently detected.
func (l Landmark) Visible(threshold float32) bool {
	return l.Visibility >= threshold
}

// Pose is one full 33-landmark tracking sample. Instances are produced once
// per input frame and never mutated afterwards.
type Pose struct {
	Landmarks [NumLandmarks]Landmark `json:"landmarks"`
}

// At returns the landmark at the given index and whether the index is valid.
func (p *Pose) At(idx int) (Landmark, bool) {
	if p == nil || idx < 0 || idx >= NumLandmarks {
		return Landmark{}, false
	}
	return p.Landmarks[idx], true
}

// Midpoint returns the point halfway between landmarks a and b.
func (p *Pose) Midpoint(a, b int) math.Vec3 {
	la, okA := p.At(a)
	lb, okB := p.At(b)
	if !okA || !okB {
		return math.Vec3{}
	}
	return la.Position().Midpoint(lb.Position())
}

// Distance2D returns the image-plane distance between landmarks a and b.
func (p *Pose) Distance2D(a, b int) float32 {
	la, okA := p.At(a)
	lb, okB := p.At(b)
	if !okA || !okB {
		return 0
	}
	return la.Position().XY().Distance(lb.Position().XY())
}

// HasShoulders reports whether both shoulder landmarks are confidently
// visible, the minimum requirement for garment placement.
func (p *Pose) HasShoulders(threshold float32) bool {
	if p == nil {
		return false
	}
	return p.Landmarks[LeftShoulder].Visible(threshold) &&
		p.Landmarks[RightShoulder].Visible(threshold)
}
