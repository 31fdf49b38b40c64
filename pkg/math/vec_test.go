package math

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.0001
}

func TestVec3Add(t *testing.T) {
	got := Vec3{1, 2, 3}.Add(Vec3{4, 5, 6})
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	got := Vec3{2, 3, 6}.Length()
	if got != 7 {
		t.Errorf("Vec3.Length() = %v, want 7", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	l := Vec3{3, 0, 4}.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3RotateY(t *testing.T) {
	tests := []struct {
		name  string
		angle float32
		want  Vec3
	}{
		{"zero", 0, Vec3{0, 0, 1}},
		{"quarter", float32(math.Pi / 2), Vec3{1, 0, 0}},
		{"half", float32(math.Pi), Vec3{0, 0, -1}},
		{"negative quarter", float32(-math.Pi / 2), Vec3{-1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Vec3{0, 0, 1}.RotateY(tt.angle)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) || !approx(got.Z, tt.want.Z) {
				t.Errorf("RotateY(%v) = %v, want %v", tt.angle, got, tt.want)
			}
		})
	}
}

func TestHorizontal(t *testing.T) {
	v := Vec3{1, 2, 3}
	if v.Horizontal() != (Vec3{1, 0, 3}) {
		t.Errorf("Horizontal() = %v", v.Horizontal())
	}
	if v.WithY(9) != (Vec3{1, 9, 3}) {
		t.Errorf("WithY() = %v", v.WithY(9))
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{-300, -200, 200, -200},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
