package pose

import (
	"testing"
)

func TestAtBounds(t *testing.T) {
	p := &Pose{}

	if _, ok := p.At(-1); ok {
		t.Error("negative index must not be ok")
	}
	if _, ok := p.At(NumLandmarks); ok {
		t.Error("index past the end must not be ok")
	}
	if _, ok := p.At(LeftShoulder); !ok {
		t.Error("valid index must be ok")
	}

	var nilPose *Pose
	if _, ok := nilPose.At(Nose); ok {
		t.Error("nil pose must not be ok")
	}
}

func TestMidpoint(t *testing.T) {
	p := &Pose{}
	p.Landmarks[LeftShoulder] = Landmark{X: 0.4, Y: 0.5}
	p.Landmarks[RightShoulder] = Landmark{X: 0.6, Y: 0.5}

	mid := p.Midpoint(LeftShoulder, RightShoulder)
	if mid.X != 0.5 || mid.Y != 0.5 {
		t.Errorf("Midpoint = %v, want (0.5, 0.5, 0)", mid)
	}
}

func TestDistance2DIgnoresDepth(t *testing.T) {
	p := &Pose{}
	p.Landmarks[LeftShoulder] = Landmark{X: 0.4, Y: 0.5, Z: 1}
	p.Landmarks[RightShoulder] = Landmark{X: 0.6, Y: 0.5, Z: -1}

	got := p.Distance2D(LeftShoulder, RightShoulder)
	want := float32(0.2)
	if diff := got - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("Distance2D = %v, want %v", got, want)
	}
}

func TestHasShoulders(t *testing.T) {
	p := &Pose{}
	if p.HasShoulders(0.2) {
		t.Error("empty pose must not have shoulders")
	}

	p.Landmarks[LeftShoulder] = Landmark{Visibility: 0.9}
	if p.HasShoulders(0.2) {
		t.Error("one shoulder is not enough")
	}

	p.Landmarks[RightShoulder] = Landmark{Visibility: 0.9}
	if !p.HasShoulders(0.2) {
		t.Error("both visible shoulders must count")
	}

	var nilPose *Pose
	if nilPose.HasShoulders(0.2) {
		t.Error("nil pose must not have shoulders")
	}
}
