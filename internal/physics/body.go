// Package physics provides the point-mass rigid body the locomotion bridge
// drives: impulses change momentum, gravity pulls it down and a flat ground
// plane at y=0 stops it.
package physics

import (
	"errors"
	"fmt"

	"github.com/Faultbox/animseq/pkg/math"
)

// ErrInvalidMass is returned for a non-positive body mass.
var ErrInvalidMass = errors.New("invalid body mass")

// Config holds body parameters.
type Config struct {
	Mass     float32 // kg
	Gravity  float32 // m/s², applied along -Y
	Friction float32 // horizontal momentum lost per second on the ground, 0 disables
}

// DefaultConfig returns a body that moves at 4 m/s under a 40000 impulse.
func DefaultConfig() Config {
	return Config{
		Mass:    10000,
		Gravity: 9.81,
	}
}

// Body is a point mass with an orientation. It is not safe for concurrent use.
type Body struct {
	cfg      Config
	position math.Vec3
	momentum math.Vec3
	rotation math.Quat
}

// NewBody creates a body at rest at the origin.
func NewBody(cfg Config) (*Body, error) {
	if !(cfg.Mass > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMass, cfg.Mass)
	}
	if cfg.Friction < 0 {
		cfg.Friction = 0
	}
	return &Body{cfg: cfg, rotation: math.QuatIdentity()}, nil
}

func (b *Body) Position() math.Vec3 { return b.position }
func (b *Body) Momentum() math.Vec3 { return b.momentum }
func (b *Body) Rotation() math.Quat { return b.rotation }

// Velocity returns momentum divided by mass.
func (b *Body) Velocity() math.Vec3 {
	return b.momentum.Scale(1 / b.cfg.Mass)
}

func (b *Body) SetPosition(p math.Vec3) { b.position = p }
func (b *Body) SetMomentum(p math.Vec3) { b.momentum = p }
func (b *Body) SetRotation(q math.Quat) { b.rotation = q.Normalize() }

// SetVelocity sets momentum to v times mass.
func (b *Body) SetVelocity(v math.Vec3) {
	b.momentum = v.Scale(b.cfg.Mass)
}

// AddForceImpulse adds an instantaneous change of momentum.
func (b *Body) AddForceImpulse(impulse math.Vec3) {
	b.momentum = b.momentum.Add(impulse)
}

// OnGround reports whether the body rests on the ground plane.
func (b *Body) OnGround() bool {
	return b.position.Y <= 0 && b.momentum.Y <= 0
}

// Step integrates dt seconds: gravity, position, ground plane clamp and
// ground friction, in that order.
func (b *Body) Step(dt float32) {
	if !(dt > 0) {
		return
	}

	b.momentum.Y -= b.cfg.Mass * b.cfg.Gravity * dt
	b.position = b.position.Add(b.Velocity().Scale(dt))

	if b.position.Y < 0 {
		b.position.Y = 0
		b.momentum.Y = 0
	}

	if b.cfg.Friction > 0 && b.position.Y == 0 {
		keep := math.Clamp(1-b.cfg.Friction*dt, 0, 1)
		b.momentum.X *= keep
		b.momentum.Z *= keep
	}
}
