// Package locomotion couples a physics body to an animation player: input
// becomes impulses on the body, and the body's horizontal speed decides
// whether the player shows the idle or the walk range.
package locomotion

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/animseq/internal/anim"
	"github.com/Faultbox/animseq/internal/control"
	"github.com/Faultbox/animseq/internal/logger"
	"github.com/Faultbox/animseq/pkg/math"
)

// ErrMissingDependency is returned by New when the body or animator is nil.
var ErrMissingDependency = errors.New("locomotion: missing dependency")

// Body is the rigid body the bridge drives.
type Body interface {
	Position() math.Vec3
	Velocity() math.Vec3
	Momentum() math.Vec3
	SetPosition(math.Vec3)
	SetVelocity(math.Vec3)
	SetMomentum(math.Vec3)
	SetRotation(math.Quat)
	AddForceImpulse(math.Vec3)
}

// Animator is the part of anim.Player the bridge uses.
type Animator interface {
	RangeName() string
	Play(name string) error
	Enqueue(name string, mode anim.Mode) error
	TogglePlayPause() anim.PlayState
}

// State is the locomotion state derived from the active range.
type State uint8

const (
	StateIdle State = iota
	StateWalk
	StateAction // any other range, e.g. an attack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWalk:
		return "walk"
	default:
		return "action"
	}
}

// Bridge translates control events into body impulses and keeps the
// animation in step with the body's speed. Call HandleEvent for each input
// event, then Update once per frame after the physics step.
type Bridge struct {
	cfg      Config
	body     Body
	animator Animator
	log      *zap.Logger

	drive *control.Axis
	turn  *control.Axis
	yaw   float32

	requested   float32 // drive level seen on the previous Update
	applied     float32 // drive impulse currently carried by the body
	appliedYaw  float32 // heading the carried impulse points along
	jumpPending bool
	onLongTap   func()
	onAction    func(name string)
}

// New creates a bridge. Zero fields in cfg take their defaults.
func New(body Body, animator Animator, cfg Config) (*Bridge, error) {
	if body == nil || animator == nil {
		return nil, ErrMissingDependency
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Bridge{
		cfg:      cfg,
		body:     body,
		animator: animator,
		log:      logger.Named("locomotion"),
		drive:    control.NewAxis(1),
		turn:     control.NewAxis(1),
	}, nil
}

// OnLongTap registers the long tap handler.
func (b *Bridge) OnLongTap(fn func()) { b.onLongTap = fn }

// OnAction registers a callback fired when an attack or jump range is
// queued. The game uses it for audio cues.
func (b *Bridge) OnAction(fn func(name string)) { b.onAction = fn }

// HandleEvent applies one input event. Impulses are only recorded here and
// take effect in the next Update.
func (b *Bridge) HandleEvent(ev control.Event) {
	switch ev.Type {
	case control.EventPressed:
		b.press(ev.Key)
	case control.EventReleased:
		b.release(ev.Key)
	case control.EventTap:
		b.attack()
	case control.EventDoubleTap:
		b.jumpPending = true
	case control.EventLongTap:
		if b.onLongTap != nil {
			b.onLongTap()
		}
	}
}

func (b *Bridge) press(k control.Key) {
	switch k {
	case control.KeyForward:
		b.drive.Press(1)
	case control.KeyBackward:
		b.drive.Press(-1)
	case control.KeyTurnLeft:
		b.turn.Press(1)
	case control.KeyTurnRight:
		b.turn.Press(-1)
	case control.KeyJump:
		b.jumpPending = true
	case control.KeyAttack:
		b.attack()
	case control.KeyPause:
		state := b.animator.TogglePlayPause()
		b.log.Debug("player toggled", zap.Stringer("state", state))
	}
}

func (b *Bridge) release(k control.Key) {
	switch k {
	case control.KeyForward:
		b.drive.Release(1)
	case control.KeyBackward:
		b.drive.Release(-1)
	case control.KeyTurnLeft:
		b.turn.Release(1)
	case control.KeyTurnRight:
		b.turn.Release(-1)
	}
}

func (b *Bridge) attack() {
	b.action(b.cfg.AttackRange)
}

// action queues name followed by the idle range. Continue mode hands over
// to idle without a gap frame.
func (b *Bridge) action(name string) {
	if name == "" {
		return
	}
	if err := b.animator.Enqueue(name, anim.ModeContinue); err != nil {
		b.log.Warn("cannot queue action", zap.String("range", name), zap.Error(err))
		return
	}
	if err := b.animator.Enqueue(b.cfg.IdleRange, anim.ModeLoop); err != nil {
		b.log.Warn("cannot queue idle", zap.String("range", b.cfg.IdleRange), zap.Error(err))
	}
	if b.onAction != nil {
		b.onAction(name)
	}
}

// Update runs one frame: turn, impulses, then the idle/walk switch.
// A drive change or jump seen while airborne is dropped, not deferred to the
// landing frame.
func (b *Bridge) Update(dt float32) {
	if !(dt > 0) {
		dt = 0
	}

	if t := b.turn.Value(); t != 0 {
		b.yaw += float32(t) * b.cfg.TurnRate * dt
	}
	b.body.SetRotation(math.QuatFromYaw(b.yaw))

	target := b.driveTarget()
	changed := target != b.requested
	b.requested = target

	if b.Grounded() {
		switch {
		case changed:
			b.setDrive(target)
		case b.applied != 0 && b.appliedYaw != b.yaw:
			b.setDrive(b.applied)
		}
		if b.jumpPending {
			b.body.AddForceImpulse(math.Vec3{Y: b.cfg.JumpImpulse})
			b.action(b.cfg.JumpRange)
		}
	} else if b.jumpPending || changed {
		b.log.Debug("airborne, impulse dropped",
			zap.Bool("jump", b.jumpPending),
			zap.Float32("drive", target),
			zap.Float32("momentum_y", b.body.Momentum().Y),
		)
	}
	b.jumpPending = false

	b.syncAnimation()
}

// setDrive replaces the horizontal momentum with impulse along the current
// heading. Vertical momentum is kept.
func (b *Bridge) setDrive(impulse float32) {
	b.body.SetMomentum(math.Vec3{Y: b.body.Momentum().Y})
	if impulse != 0 {
		b.body.AddForceImpulse(b.Heading().Scale(impulse))
	}
	b.applied = impulse
	b.appliedYaw = b.yaw
}

func (b *Bridge) driveTarget() float32 {
	return float32(b.drive.Value()) * b.cfg.MoveImpulse
}

// syncAnimation switches idle and walk from the horizontal speed. A speed
// exactly at the threshold keeps the current range.
func (b *Bridge) syncAnimation() {
	v := b.body.Velocity()
	speed := math.Abs(v.X) + math.Abs(v.Z)

	var next string
	switch b.animator.RangeName() {
	case b.cfg.IdleRange:
		if speed > b.cfg.SpeedThreshold {
			next = b.cfg.WalkRange
		}
	case b.cfg.WalkRange:
		if speed < b.cfg.SpeedThreshold {
			next = b.cfg.IdleRange
		}
	}
	if next == "" {
		return
	}
	if err := b.animator.Play(next); err != nil {
		b.log.Warn("locomotion switch failed", zap.String("range", next), zap.Error(err))
		return
	}
	b.log.Debug("locomotion switch", zap.String("range", next), zap.Float32("speed", speed))
}

// Grounded reports whether impulses are accepted this frame.
func (b *Bridge) Grounded() bool {
	return math.Abs(b.body.Momentum().Y) <= b.cfg.GroundedEpsilon
}

// Heading is the unit forward vector for the current yaw.
func (b *Bridge) Heading() math.Vec3 {
	return math.Vec3{Z: 1}.RotateY(b.yaw)
}

// Yaw returns the body orientation around the up axis in radians.
func (b *Bridge) Yaw() float32 { return b.yaw }

// SetYaw turns the body directly. A carried drive is re-aimed on the next
// grounded Update.
func (b *Bridge) SetYaw(yaw float32) { b.yaw = yaw }

// Drive returns the forward/backward axis value in [-1, 1].
func (b *Bridge) Drive() float64 { return b.drive.Value() }

// State classifies the active range.
func (b *Bridge) State() State {
	switch b.animator.RangeName() {
	case b.cfg.IdleRange:
		return StateIdle
	case b.cfg.WalkRange:
		return StateWalk
	default:
		return StateAction
	}
}

// Config returns the effective configuration.
func (b *Bridge) Config() Config { return b.cfg }

// String is used in debug logs.
func (b *Bridge) String() string {
	return fmt.Sprintf("%s yaw=%.2f drive=%.0f", b.State(), b.yaw, b.applied)
}
