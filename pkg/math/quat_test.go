package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := math.Sqrt(float64(n.Dot(n)))
	if math.Abs(length-1.0) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatRotateMatchesMatrix(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{1, 1, 0}.Normalize(), 1.1)
	v := Vec3{0.3, -2, 5}

	got := q.Rotate(v)
	want := q.ToMat4().TransformVec3(v)
	if !got.ApproxEqual(want, 1e-4) {
		t.Errorf("Rotate = %v, matrix = %v", got, want)
	}
}

func TestQuatConjugateUndoesRotation(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{Z: 1}, 0.7)
	v := Vec3{1, 2, 3}

	back := q.Conjugate().Rotate(q.Rotate(v))
	if !back.ApproxEqual(v, 1e-4) {
		t.Errorf("conjugate round trip: got %v, want %v", back, v)
	}
}

func TestQuatLookAt(t *testing.T) {
	tests := []struct {
		name   string
		eye    Vec3
		target Vec3
	}{
		{"down -Z", Vec3{0, 0, 5}, Vec3{}},
		{"from +X", Vec3{4, 0, 0}, Vec3{}},
		{"oblique", Vec3{1, 2, 3}, Vec3{-1, 0.5, 0}},
		{"straight down", Vec3{0, 10, 0}, Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatLookAt(tt.eye, tt.target, Vec3{Y: 1})
			forward := q.Rotate(Vec3{Z: -1})
			want := tt.target.Sub(tt.eye).Normalize()
			if !forward.ApproxEqual(want, 1e-4) {
				t.Errorf("forward = %v, want %v", forward, want)
			}
		})
	}
}

func TestQuatApproxEqualSignInsensitive(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{Y: 1}, 0.4)
	neg := Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
	if !q.ApproxEqual(neg, 1e-6) {
		t.Error("q and -q should describe the same rotation")
	}
	if q.ApproxEqual(QuatIdentity(), 1e-6) {
		t.Error("rotated quaternion should differ from identity")
	}
}
