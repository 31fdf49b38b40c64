package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func newDetector() *GestureDetector {
	return NewGestureDetector(GestureConfig{
		TapMax:          200 * time.Millisecond,
		DoubleTapWindow: 300 * time.Millisecond,
		LongTap:         600 * time.Millisecond,
	})
}

func TestSingleTapReportedAfterWindow(t *testing.T) {
	g := newDetector()
	g.Down(at(0))
	_, ok := g.Up(at(100))
	assert.False(t, ok)

	_, ok = g.Poll(at(300))
	assert.False(t, ok, "still inside the double tap window")

	ev, ok := g.Poll(at(401))
	assert.True(t, ok)
	assert.Equal(t, EventTap, ev.Type)

	_, ok = g.Poll(at(1000))
	assert.False(t, ok, "tap reported once")
}

func TestDoubleTap(t *testing.T) {
	g := newDetector()
	g.Down(at(0))
	g.Up(at(80))
	g.Down(at(200))
	ev, ok := g.Up(at(280))
	assert.True(t, ok)
	assert.Equal(t, EventDoubleTap, ev.Type)

	_, ok = g.Poll(at(2000))
	assert.False(t, ok, "double tap must not also produce a tap")
}

func TestSlowSecondTapIsTwoTaps(t *testing.T) {
	g := newDetector()
	g.Down(at(0))
	g.Up(at(50))
	ev, ok := g.Poll(at(400))
	assert.True(t, ok)
	assert.Equal(t, EventTap, ev.Type)

	g.Down(at(500))
	_, ok = g.Up(at(550))
	assert.False(t, ok)
	ev, ok = g.Poll(at(900))
	assert.True(t, ok)
	assert.Equal(t, EventTap, ev.Type)
}

func TestLongTapWhileHeld(t *testing.T) {
	g := newDetector()
	g.Down(at(0))
	_, ok := g.Poll(at(500))
	assert.False(t, ok)

	ev, ok := g.Poll(at(600))
	assert.True(t, ok)
	assert.Equal(t, EventLongTap, ev.Type)

	_, ok = g.Poll(at(700))
	assert.False(t, ok)
	_, ok = g.Up(at(800))
	assert.False(t, ok, "long tap already reported")
}

func TestLongTapOnReleaseWithoutPoll(t *testing.T) {
	g := newDetector()
	g.Down(at(0))
	ev, ok := g.Up(at(700))
	assert.True(t, ok)
	assert.Equal(t, EventLongTap, ev.Type)
}

func TestMediumHoldIsNothing(t *testing.T) {
	g := newDetector()
	g.Down(at(0))
	_, ok := g.Up(at(400))
	assert.False(t, ok)
	_, ok = g.Poll(at(2000))
	assert.False(t, ok)
}

func TestUpWithoutDownIgnored(t *testing.T) {
	g := NewGestureDetector(GestureConfig{})
	_, ok := g.Up(at(10))
	assert.False(t, ok)
	assert.Equal(t, DefaultGestureConfig(), g.cfg)
}
