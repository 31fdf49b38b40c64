package locomotion

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig wraps locomotion configuration problems.
var ErrInvalidConfig = errors.New("invalid locomotion config")

// Config names the ranges the bridge drives and tunes the impulses.
type Config struct {
	IdleRange   string
	WalkRange   string
	AttackRange string // empty disables attacks
	JumpRange   string // empty jumps without an animation

	SpeedThreshold  float32 // |vx|+|vz| boundary between idle and walk
	MoveImpulse     float32
	JumpImpulse     float32
	TurnRate        float32 // radians per second at full turn axis
	GroundedEpsilon float32 // max |momentum.y| still counted as grounded
}

// DefaultConfig returns the dwarf setup.
func DefaultConfig() Config {
	return Config{
		IdleRange:       "idle1",
		WalkRange:       "walk",
		AttackRange:     "attack1SwipeAxe",
		JumpRange:       "jump",
		SpeedThreshold:  0.1,
		MoveImpulse:     40000,
		JumpImpulse:     70000,
		TurnRate:        2,
		GroundedEpsilon: 0.01,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.IdleRange == "" {
		c.IdleRange = def.IdleRange
	}
	if c.WalkRange == "" {
		c.WalkRange = def.WalkRange
	}
	if c.SpeedThreshold == 0 {
		c.SpeedThreshold = def.SpeedThreshold
	}
	if c.MoveImpulse == 0 {
		c.MoveImpulse = def.MoveImpulse
	}
	if c.JumpImpulse == 0 {
		c.JumpImpulse = def.JumpImpulse
	}
	if c.TurnRate == 0 {
		c.TurnRate = def.TurnRate
	}
	if c.GroundedEpsilon == 0 {
		c.GroundedEpsilon = def.GroundedEpsilon
	}
	return c
}

// Validate checks the config.
func (c Config) Validate() error {
	switch {
	case c.IdleRange == c.WalkRange:
		return fmt.Errorf("%w: idle and walk range are both %q", ErrInvalidConfig, c.IdleRange)
	case c.SpeedThreshold < 0:
		return fmt.Errorf("%w: negative speed threshold", ErrInvalidConfig)
	case c.GroundedEpsilon < 0:
		return fmt.Errorf("%w: negative grounded epsilon", ErrInvalidConfig)
	}
	return nil
}
