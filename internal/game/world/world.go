// Package world holds the simulated scene: one clip player, the physics
// body it animates and the locomotion bridge between them. It has no
// window or GL dependency so the headless simulator can run it.
package world

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/animseq/internal/anim"
	"github.com/Faultbox/animseq/internal/assets"
	"github.com/Faultbox/animseq/internal/config"
	"github.com/Faultbox/animseq/internal/control"
	"github.com/Faultbox/animseq/internal/locomotion"
	"github.com/Faultbox/animseq/internal/logger"
	"github.com/Faultbox/animseq/internal/physics"
	"github.com/Faultbox/animseq/pkg/math"
)

// Snapshot is the per-frame state the renderer and the simulator report.
type Snapshot struct {
	Time       float64
	Sample     anim.Sample
	State      anim.PlayState
	Locomotion locomotion.State
	Position   math.Vec3
	Velocity   math.Vec3
	Heading    math.Vec3
	Grounded   bool
}

// World steps the scene in the fixed order input, physics, locomotion,
// animation.
type World struct {
	Clip   *anim.Clip
	Player *anim.Player
	Body   *physics.Body
	Bridge *locomotion.Bridge

	elapsed float64
	log     *zap.Logger
}

// New loads the configured clip and builds the scene.
func New(cfg *config.Config) (*World, error) {
	clip, err := assets.LoadClip(cfg.Animation.Clip)
	if err != nil {
		return nil, fmt.Errorf("loading clip %s: %w", cfg.Animation.Clip, err)
	}
	if cfg.Animation.StartRange != "" {
		clip.StartRange = cfg.Animation.StartRange
	}

	w, err := NewFromClip(clip, cfg.LocomotionConfig(), cfg.PhysicsConfig())
	if err != nil {
		return nil, err
	}
	if fps := cfg.Animation.FramesPerSec; fps > 0 {
		if err := w.Player.SetFramesPerSec(fps); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// NewFromClip builds the scene from an already parsed clip.
func NewFromClip(clip *anim.Clip, loco locomotion.Config, phys physics.Config) (*World, error) {
	player, err := clip.Build()
	if err != nil {
		return nil, fmt.Errorf("building clip %s: %w", clip.Name, err)
	}
	body, err := physics.NewBody(phys)
	if err != nil {
		return nil, err
	}
	bridge, err := locomotion.New(body, player, loco)
	if err != nil {
		return nil, err
	}

	w := &World{
		Clip:   clip,
		Player: player,
		Body:   body,
		Bridge: bridge,
		log:    logger.Named("world"),
	}
	w.checkRanges()

	w.log.Info("scene ready",
		zap.String("clip", clip.Name),
		zap.Int("ranges", player.Table().Len()),
		zap.Int("frames", player.Timeline().FrameCount()),
		zap.String("start", player.RangeName()),
	)
	return w, nil
}

// checkRanges warns about locomotion ranges the clip does not have. A clip
// without idle or walk ranges still plays; it just never switches.
func (w *World) checkRanges() {
	cfg := w.Bridge.Config()
	for role, name := range map[string]string{
		"idle":   cfg.IdleRange,
		"walk":   cfg.WalkRange,
		"attack": cfg.AttackRange,
		"jump":   cfg.JumpRange,
	} {
		if name == "" {
			continue
		}
		if _, err := w.Player.Table().Lookup(name); errors.Is(err, anim.ErrUnknownRange) {
			w.log.Warn("locomotion range missing from clip",
				zap.String("role", role),
				zap.String("range", name),
				zap.String("clip", w.Clip.Name),
			)
		}
	}
}

// Step applies the frame's input events and advances everything by dt
// seconds.
func (w *World) Step(events []control.Event, dt float64) Snapshot {
	if !(dt > 0) {
		dt = 0
	}
	for _, ev := range events {
		w.Bridge.HandleEvent(ev)
	}

	w.Body.Step(float32(dt))
	w.Bridge.Update(float32(dt))
	w.Player.Advance(dt)

	w.elapsed += dt
	return w.Snapshot()
}

// Snapshot reports the current state without stepping.
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Time:       w.elapsed,
		Sample:     w.Player.Sample(),
		State:      w.Player.State(),
		Locomotion: w.Bridge.State(),
		Position:   w.Body.Position(),
		Velocity:   w.Body.Velocity(),
		Heading:    w.Bridge.Heading(),
		Grounded:   w.Bridge.Grounded(),
	}
}

// Elapsed returns simulated seconds since the scene was built.
func (w *World) Elapsed() float64 { return w.elapsed }
