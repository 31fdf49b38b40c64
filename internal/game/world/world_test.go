package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/animseq/internal/anim"
	"github.com/Faultbox/animseq/internal/config"
	"github.com/Faultbox/animseq/internal/control"
)

const frame = 1.0 / 30

func newWorld(t *testing.T) *World {
	t.Helper()
	w, err := New(config.Default())
	require.NoError(t, err)
	return w
}

func TestNewLoadsDefaultClip(t *testing.T) {
	w := newWorld(t)
	snap := w.Snapshot()
	assert.Equal(t, "idle1", snap.Sample.Range)
	assert.Equal(t, 292.0, snap.Sample.Frame)
	assert.True(t, snap.Grounded)
	assert.Equal(t, anim.Playing, snap.State)
}

func TestNewAppliesOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.StartRange = "idle2"
	cfg.Animation.FramesPerSec = 15
	w, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "idle2", w.Player.RangeName())
	assert.Equal(t, 15.0, w.Player.FramesPerSec())
}

func TestNewUnknownClip(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.Clip = "no-such-clip.yaml"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestWalkForwardAndStop(t *testing.T) {
	w := newWorld(t)

	snap := w.Step([]control.Event{control.Press(control.KeyForward)}, frame)
	assert.Equal(t, "walk", snap.Sample.Range)
	assert.Greater(t, snap.Velocity.Z, float32(3.9))

	for i := 0; i < 30; i++ {
		snap = w.Step(nil, frame)
	}
	assert.Equal(t, "walk", snap.Sample.Range)
	assert.InDelta(t, 4, snap.Position.Z, 0.2)

	snap = w.Step([]control.Event{control.Release(control.KeyForward)}, frame)
	assert.Equal(t, "idle1", snap.Sample.Range)
	assert.Zero(t, snap.Velocity.Z)
}

func TestJumpLeavesGroundAndLands(t *testing.T) {
	w := newWorld(t)
	snap := w.Step([]control.Event{control.Press(control.KeyJump)}, frame)
	assert.False(t, snap.Grounded)

	// The jump impulse is rejected while airborne.
	snap = w.Step([]control.Event{control.Press(control.KeyJump)}, frame)
	assert.False(t, snap.Grounded)

	landed := false
	for i := 0; i < 120; i++ {
		snap = w.Step(nil, frame)
		require.GreaterOrEqual(t, snap.Position.Y, float32(0))
		if snap.Grounded {
			landed = true
			break
		}
	}
	assert.True(t, landed)
}

func TestAttackPlaysThenReturnsToIdle(t *testing.T) {
	w := newWorld(t)
	w.Step([]control.Event{control.Press(control.KeyAttack)}, frame)

	seen := map[string]bool{}
	for i := 0; i < 120; i++ {
		seen[w.Step(nil, frame).Sample.Range] = true
	}
	assert.True(t, seen["attack1SwipeAxe"])
	assert.Equal(t, "idle1", w.Player.RangeName())
}

func TestPausedWorldKeepsFrame(t *testing.T) {
	w := newWorld(t)
	w.Step(nil, frame)
	before := w.Player.Frame()

	w.Step([]control.Event{control.Press(control.KeyPause)}, frame)
	for i := 0; i < 10; i++ {
		w.Step(nil, frame)
	}
	assert.Equal(t, before, w.Player.Frame())
	assert.InDelta(t, 12*frame, w.Elapsed(), 1e-9)
}
