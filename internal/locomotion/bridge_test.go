package locomotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/animseq/internal/anim"
	"github.com/Faultbox/animseq/internal/control"
	"github.com/Faultbox/animseq/pkg/math"
)

// fakeBody keeps velocity independent of momentum so tests can place the
// speed exactly on the threshold.
type fakeBody struct {
	pos, vel, mom math.Vec3
	rot           math.Quat
	impulses      []math.Vec3
}

func (b *fakeBody) Position() math.Vec3 { return b.pos }
func (b *fakeBody) Velocity() math.Vec3 { return b.vel }
func (b *fakeBody) Momentum() math.Vec3 { return b.mom }
func (b *fakeBody) SetPosition(p math.Vec3) { b.pos = p }
func (b *fakeBody) SetVelocity(v math.Vec3) { b.vel = v }
func (b *fakeBody) SetMomentum(p math.Vec3) { b.mom = p }
func (b *fakeBody) SetRotation(q math.Quat) { b.rot = q }
func (b *fakeBody) AddForceImpulse(i math.Vec3) {
	b.impulses = append(b.impulses, i)
	b.mom = b.mom.Add(i)
}

func newPlayer(t *testing.T) *anim.Player {
	t.Helper()
	bp := 126
	clip := &anim.Clip{
		Duration:     660,
		FramesPerSec: 1,
		StartRange:   "idle1",
		Ranges: []anim.RangeDef{
			{Name: "walk", Start: 2, End: 14},
			{Name: "jump", Start: 28, End: 40},
			{Name: "attack1SwipeAxe", Start: 112, End: 126, Breakpoint: &bp},
			{Name: "idle1", Start: 292, End: 325},
		},
	}
	p, err := clip.Build()
	require.NoError(t, err)
	return p
}

func newBridge(t *testing.T) (*Bridge, *fakeBody, *anim.Player) {
	t.Helper()
	body := &fakeBody{}
	player := newPlayer(t)
	b, err := New(body, player, DefaultConfig())
	require.NoError(t, err)
	return b, body, player
}

func TestSpeedSwitchesIdleAndWalk(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		vx, vz float32
		want   string
	}{
		{"idle to walk", "idle1", 0.15, 0, "walk"},
		{"idle to walk manhattan", "idle1", 0.1, 0.05, "walk"},
		{"idle to walk backwards", "idle1", 0, -0.15, "walk"},
		{"idle tie holds", "idle1", 0.1, 0, "idle1"},
		{"idle slow", "idle1", 0.05, 0, "idle1"},
		{"walk to idle", "walk", 0.05, 0, "idle1"},
		{"walk tie holds", "walk", 0, 0.1, "walk"},
		{"walk fast", "walk", 0.15, 0, "walk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, body, player := newBridge(t)
			require.NoError(t, player.Play(tt.from))
			body.vel = math.Vec3{X: tt.vx, Z: tt.vz}

			b.Update(1.0 / 60)
			assert.Equal(t, tt.want, player.RangeName())
		})
	}
}

func TestActionRangeIgnoresSpeed(t *testing.T) {
	b, body, player := newBridge(t)
	require.NoError(t, player.Play("attack1SwipeAxe"))
	body.vel = math.Vec3{Z: 4}

	b.Update(1.0 / 60)
	assert.Equal(t, "attack1SwipeAxe", player.RangeName())
	assert.Equal(t, StateAction, b.State())
}

func TestForwardPressAppliesImpulse(t *testing.T) {
	b, body, _ := newBridge(t)
	body.mom = math.Vec3{X: 5, Z: 7}

	b.HandleEvent(control.Press(control.KeyForward))
	b.Update(1.0 / 60)

	require.Len(t, body.impulses, 1)
	assert.Equal(t, math.Vec3{Z: 40000}, body.impulses[0])
	assert.Equal(t, math.Vec3{Z: 40000}, body.mom)

	// Holding the key does not stack impulses.
	b.HandleEvent(control.Event{Type: control.EventRepeat, Key: control.KeyForward})
	b.Update(1.0 / 60)
	assert.Len(t, body.impulses, 1)
}

func TestBackwardPress(t *testing.T) {
	b, body, _ := newBridge(t)
	b.HandleEvent(control.Press(control.KeyBackward))
	b.Update(1.0 / 60)

	require.Len(t, body.impulses, 1)
	assert.Equal(t, math.Vec3{Z: -40000}, body.impulses[0])
}

func TestReleaseStopsHorizontalMotion(t *testing.T) {
	b, body, _ := newBridge(t)
	b.HandleEvent(control.Press(control.KeyForward))
	b.Update(1.0 / 60)

	b.HandleEvent(control.Release(control.KeyForward))
	b.Update(1.0 / 60)

	assert.Len(t, body.impulses, 1)
	assert.Equal(t, math.Vec3{}, body.mom)
	assert.Zero(t, b.Drive())
}

func TestAirborneDropsImpulses(t *testing.T) {
	b, body, player := newBridge(t)
	body.mom = math.Vec3{Y: 5}
	require.False(t, b.Grounded())

	b.HandleEvent(control.Press(control.KeyForward))
	b.HandleEvent(control.Press(control.KeyJump))
	b.Update(1.0 / 60)

	assert.Empty(t, body.impulses)
	assert.Empty(t, player.Queued())

	// Landing with the key still held does not replay the dropped press.
	body.mom = math.Vec3{}
	b.Update(1.0 / 60)
	b.Update(1.0 / 60)
	assert.Empty(t, body.impulses)
	assert.Equal(t, math.Vec3{}, body.mom)

	// A fresh press on the ground drives again.
	b.HandleEvent(control.Release(control.KeyForward))
	b.Update(1.0 / 60)
	b.HandleEvent(control.Press(control.KeyForward))
	b.Update(1.0 / 60)
	require.Len(t, body.impulses, 1)
	assert.Equal(t, math.Vec3{Z: 40000}, body.impulses[0])
}

func TestAirborneReleaseKeepsMomentum(t *testing.T) {
	b, body, _ := newBridge(t)
	b.HandleEvent(control.Press(control.KeyForward))
	b.Update(1.0 / 60)
	require.Len(t, body.impulses, 1)

	body.mom.Y = 5
	b.HandleEvent(control.Release(control.KeyForward))
	b.Update(1.0 / 60)

	body.mom.Y = 0
	b.Update(1.0 / 60)
	assert.Len(t, body.impulses, 1)
	assert.Equal(t, math.Vec3{Z: 40000}, body.mom)
}

func TestGroundedGateIsInclusive(t *testing.T) {
	tests := []struct {
		name     string
		y        float32
		grounded bool
	}{
		{"resting", 0, true},
		{"at epsilon", 0.01, true},
		{"at negative epsilon", -0.01, true},
		{"above epsilon", 0.02, false},
		{"falling", -3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, body, _ := newBridge(t)
			body.mom = math.Vec3{Y: tt.y}
			assert.Equal(t, tt.grounded, b.Grounded())

			b.HandleEvent(control.Press(control.KeyForward))
			b.Update(1.0 / 60)
			if tt.grounded {
				assert.Len(t, body.impulses, 1)
			} else {
				assert.Empty(t, body.impulses)
			}
		})
	}
}

func TestJumpQueuesJumpRange(t *testing.T) {
	b, body, player := newBridge(t)
	var actions []string
	b.OnAction(func(name string) { actions = append(actions, name) })

	b.HandleEvent(control.Press(control.KeyJump))
	b.Update(1.0 / 60)

	require.Len(t, body.impulses, 1)
	assert.Equal(t, math.Vec3{Y: 70000}, body.impulses[0])
	assert.Equal(t, []anim.Entry{
		{Range: "jump", Mode: anim.ModeContinue},
		{Range: "idle1", Mode: anim.ModeLoop},
	}, player.Queued())
	assert.Equal(t, []string{"jump"}, actions)
}

func TestDoubleTapJumps(t *testing.T) {
	b, body, _ := newBridge(t)
	b.HandleEvent(control.Event{Type: control.EventDoubleTap})
	b.Update(1.0 / 60)

	require.Len(t, body.impulses, 1)
	assert.Equal(t, float32(70000), body.impulses[0].Y)
}

func TestAttackKeyAndTapQueueAttack(t *testing.T) {
	events := []control.Event{
		control.Press(control.KeyAttack),
		{Type: control.EventTap},
	}
	for _, ev := range events {
		t.Run(ev.Type.String(), func(t *testing.T) {
			b, _, player := newBridge(t)
			var actions []string
			b.OnAction(func(name string) { actions = append(actions, name) })

			b.HandleEvent(ev)
			assert.Equal(t, []anim.Entry{
				{Range: "attack1SwipeAxe", Mode: anim.ModeContinue},
				{Range: "idle1", Mode: anim.ModeLoop},
			}, player.Queued())
			assert.Equal(t, []string{"attack1SwipeAxe"}, actions)
		})
	}
}

func TestAttackPlaysAfterIdleLoopEnds(t *testing.T) {
	b, _, player := newBridge(t)
	b.HandleEvent(control.Press(control.KeyAttack))

	// idle1 is 33 frames long at one frame per second.
	player.Advance(34)
	assert.Equal(t, "attack1SwipeAxe", player.RangeName())

	player.Advance(15)
	assert.Equal(t, anim.Sample{Range: "idle1", Frame: 293}, player.Sample())
	b.Update(1)
	assert.Equal(t, StateIdle, b.State())
}

func TestLongTapCallsHandler(t *testing.T) {
	b, _, _ := newBridge(t)
	called := 0
	b.OnLongTap(func() { called++ })
	b.HandleEvent(control.Event{Type: control.EventLongTap})
	assert.Equal(t, 1, called)
}

func TestPauseKeyTogglesPlayer(t *testing.T) {
	b, _, player := newBridge(t)
	b.HandleEvent(control.Press(control.KeyPause))
	assert.Equal(t, anim.Paused, player.State())
	b.HandleEvent(control.Press(control.KeyPause))
	assert.Equal(t, anim.Playing, player.State())
}

func TestTurnReappliesDriveAlongHeading(t *testing.T) {
	b, body, _ := newBridge(t)
	b.HandleEvent(control.Press(control.KeyForward))
	b.Update(0)
	require.Len(t, body.impulses, 1)

	b.HandleEvent(control.Press(control.KeyTurnLeft))
	b.Update(0.5)

	assert.InDelta(t, 1.0, b.Yaw(), 1e-6)
	assert.Equal(t, math.QuatFromYaw(b.Yaw()), body.rot)
	require.Len(t, body.impulses, 2)
	want := math.Vec3{Z: 1}.RotateY(b.Yaw()).Scale(40000)
	assert.Equal(t, want, body.impulses[1])
	assert.Equal(t, want, body.mom)

	b.HandleEvent(control.Release(control.KeyTurnLeft))
	b.Update(0.5)
	assert.InDelta(t, 1.0, b.Yaw(), 1e-6)
	assert.Len(t, body.impulses, 2)
}

func TestTurnInAirReaimsOnLanding(t *testing.T) {
	b, body, _ := newBridge(t)
	b.HandleEvent(control.Press(control.KeyForward))
	b.Update(0)
	require.Len(t, body.impulses, 1)

	body.mom.Y = 5
	b.HandleEvent(control.Press(control.KeyTurnLeft))
	for i := 0; i < 30; i++ {
		b.Update(1.0 / 60)
	}
	b.HandleEvent(control.Release(control.KeyTurnLeft))
	assert.Len(t, body.impulses, 1)
	assert.Equal(t, math.Vec3{Y: 5, Z: 40000}, body.mom)

	body.mom.Y = 0
	b.Update(1.0 / 60)
	require.Len(t, body.impulses, 2)
	want := b.Heading().Scale(40000)
	assert.Equal(t, want, body.impulses[1])
	assert.Equal(t, want, body.mom)

	b.Update(1.0 / 60)
	assert.Len(t, body.impulses, 2)
}

func TestTurnWithoutDrive(t *testing.T) {
	b, body, _ := newBridge(t)
	b.HandleEvent(control.Press(control.KeyTurnRight))
	b.Update(0.25)

	assert.InDelta(t, -0.5, b.Yaw(), 1e-6)
	assert.Empty(t, body.impulses)
	assert.Equal(t, math.QuatFromYaw(-0.5), body.rot)
}

func TestSetYawReappliesDrive(t *testing.T) {
	b, body, _ := newBridge(t)
	b.HandleEvent(control.Press(control.KeyForward))
	b.Update(0)

	b.SetYaw(2)
	b.Update(0)
	require.Len(t, body.impulses, 2)
	assert.Equal(t, math.Vec3{Z: 1}.RotateY(2).Scale(40000), body.impulses[1])
}

func TestNewValidates(t *testing.T) {
	player := newPlayer(t)
	_, err := New(nil, player, DefaultConfig())
	assert.ErrorIs(t, err, ErrMissingDependency)
	_, err = New(&fakeBody{}, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrMissingDependency)

	cfg := DefaultConfig()
	cfg.WalkRange = cfg.IdleRange
	_, err = New(&fakeBody{}, player, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	b, err := New(&fakeBody{}, player, Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().SpeedThreshold, b.Config().SpeedThreshold)
	assert.Equal(t, "idle1", b.Config().IdleRange)
}
