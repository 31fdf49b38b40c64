package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAxisClamps(t *testing.T) {
	a := NewAxis(1)
	a.Press(1)
	a.Press(1)
	assert.Equal(t, 1.0, a.Value())

	a.Press(-3)
	assert.Equal(t, -1.0, a.Value())
	assert.Equal(t, 1.0, NewAxis(-1).Max())
}

func TestAxisReleaseNeverCrossesZero(t *testing.T) {
	tests := []struct {
		name    string
		presses []float64
		release float64
		want    float64
	}{
		{"forward released", []float64{1}, 1, 0},
		{"opposing keys cancel", []float64{1, -1}, 1, 0},
		{"absorbed by clamp", []float64{1, 1}, 1, 0},
		{"backward released", []float64{-1}, -1, 0},
		{"partial", []float64{0.5}, 0.2, 0.3},
		{"release wrong direction", []float64{-1}, 1, -1},
		{"release at rest", nil, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAxis(1)
			for _, p := range tt.presses {
				a.Press(p)
			}
			a.Release(tt.release)
			assert.InDelta(t, tt.want, a.Value(), 1e-9)
		})
	}
}

func TestAxisReset(t *testing.T) {
	a := NewAxis(2)
	a.Press(1.5)
	a.Reset()
	assert.Zero(t, a.Value())
}
