package control

import "math"

// Axis accumulates opposing key contributions into one clamped value, e.g.
// forward/backward into a drive value in [-1, 1].
type Axis struct {
	value float64
	max   float64
}

// NewAxis returns an axis clamped to [-max, max].
func NewAxis(max float64) *Axis {
	return &Axis{max: math.Abs(max)}
}

// Press adds delta, clamping the result.
func (a *Axis) Press(delta float64) {
	a.value = math.Max(-a.max, math.Min(a.max, a.value+delta))
}

// Release removes a contribution previously added with Press. The value moves
// toward zero by at most |delta| and never crosses it, so releasing a key
// whose press was absorbed by the clamp cannot flip the direction.
func (a *Axis) Release(delta float64) {
	switch {
	case delta > 0 && a.value > 0:
		a.value = math.Max(0, a.value-delta)
	case delta < 0 && a.value < 0:
		a.value = math.Min(0, a.value-delta)
	}
}

// Value returns the current accumulated value.
func (a *Axis) Value() float64 { return a.value }

// Max returns the clamp bound.
func (a *Axis) Max() float64 { return a.max }

// Reset zeroes the axis.
func (a *Axis) Reset() { a.value = 0 }
