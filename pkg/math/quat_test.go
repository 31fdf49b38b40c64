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
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
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

// The yaw quaternion must turn the forward axis the same way RotateY does,
// otherwise the body faces away from the impulse direction.
func TestQuatFromYawMatchesRotateY(t *testing.T) {
	forward := Vec3{0, 0, 1}
	for _, yaw := range []float32{0, 0.3, 1, float32(math.Pi / 2), -2.5} {
		a := QuatFromYaw(yaw).Rotate(forward)
		b := forward.RotateY(yaw)
		if !approx(a.X, b.X) || !approx(a.Y, b.Y) || !approx(a.Z, b.Z) {
			t.Errorf("yaw %v: quat %v, RotateY %v", yaw, a, b)
		}
	}
}

func TestQuatMulComposes(t *testing.T) {
	a := QuatFromYaw(0.4)
	b := QuatFromYaw(0.6)
	got := a.Mul(b).Rotate(Vec3{0, 0, 1})
	want := QuatFromYaw(1.0).Rotate(Vec3{0, 0, 1})
	if !approx(got.X, want.X) || !approx(got.Z, want.Z) {
		t.Errorf("composed rotation %v, want %v", got, want)
	}
}
