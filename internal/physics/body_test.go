package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/animseq/pkg/math"
)

func newBody(t *testing.T, cfg Config) *Body {
	t.Helper()
	b, err := NewBody(cfg)
	require.NoError(t, err)
	return b
}

func TestNewBodyRejectsMass(t *testing.T) {
	for _, m := range []float32{0, -1} {
		_, err := NewBody(Config{Mass: m})
		assert.ErrorIs(t, err, ErrInvalidMass)
	}
}

func TestRestingBodyStaysGrounded(t *testing.T) {
	b := newBody(t, DefaultConfig())
	for i := 0; i < 100; i++ {
		b.Step(1.0 / 60)
		require.Equal(t, float32(0), b.Position().Y)
		require.Equal(t, float32(0), b.Momentum().Y)
	}
	assert.True(t, b.OnGround())
}

func TestImpulseMovesBody(t *testing.T) {
	b := newBody(t, DefaultConfig())
	b.AddForceImpulse(math.Vec3{Z: 40000})
	assert.InDelta(t, 4, b.Velocity().Z, 1e-4)

	b.Step(0.5)
	assert.InDelta(t, 2, b.Position().Z, 1e-4)
	assert.Equal(t, float32(0), b.Position().Y)
}

func TestJumpRisesAndLands(t *testing.T) {
	b := newBody(t, DefaultConfig())
	b.AddForceImpulse(math.Vec3{Y: 70000})
	assert.False(t, b.OnGround())

	var peak float32
	landed := false
	for i := 0; i < 240; i++ {
		b.Step(1.0 / 60)
		require.GreaterOrEqual(t, b.Position().Y, float32(0))
		if b.Position().Y > peak {
			peak = b.Position().Y
		}
		if i > 0 && b.OnGround() {
			landed = true
			break
		}
	}
	assert.True(t, landed)
	// v²/2g = 49/19.62
	assert.InDelta(t, 2.5, peak, 0.1)
	assert.Equal(t, float32(0), b.Momentum().Y)
}

func TestFrictionOnlyOnGround(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Friction = 0.5
	b := newBody(t, cfg)

	b.SetVelocity(math.Vec3{X: 2})
	b.Step(1)
	assert.InDelta(t, 1, b.Velocity().X, 1e-4)

	b.SetPosition(math.Vec3{Y: 100})
	b.SetVelocity(math.Vec3{X: 2})
	b.Step(0.1)
	assert.InDelta(t, 2, b.Velocity().X, 1e-4)
}

func TestStepIgnoresNonPositiveDelta(t *testing.T) {
	b := newBody(t, DefaultConfig())
	b.SetPosition(math.Vec3{Y: 1})
	b.Step(0)
	b.Step(-1)
	assert.Equal(t, math.Vec3{Y: 1}, b.Position())
}

func TestSetRotationNormalizes(t *testing.T) {
	b := newBody(t, DefaultConfig())
	assert.Equal(t, math.QuatIdentity(), b.Rotation())
	b.SetRotation(math.QuatFromYaw(1))
	assert.Equal(t, math.QuatFromYaw(1).Normalize(), b.Rotation())
}
