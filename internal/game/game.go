// Package game implements the interactive viewer loop: SDL input drives the
// scene, and the renderer draws the clip timeline with the active range.
package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/animseq/internal/anim"
	"github.com/Faultbox/animseq/internal/config"
	"github.com/Faultbox/animseq/internal/control"
	"github.com/Faultbox/animseq/internal/engine/audio"
	"github.com/Faultbox/animseq/internal/engine/debug"
	"github.com/Faultbox/animseq/internal/engine/input"
	"github.com/Faultbox/animseq/internal/engine/renderer"
	"github.com/Faultbox/animseq/internal/engine/window"
	"github.com/Faultbox/animseq/internal/game/world"
	"github.com/Faultbox/animseq/internal/logger"
)

// maxFrameDelta caps dt after a stall (window drag, breakpoint in a debugger)
// so the body does not tunnel through the ground.
const maxFrameDelta = 0.1

// Tones used when no cue file is configured for an action range.
var defaultTones = map[string]float64{
	"attack": 220,
	"jump":   440,
}

const toneLength = 120 * time.Millisecond

// Game is the main viewer instance.
type Game struct {
	config   *config.Config
	running  bool
	world    *world.World
	ranges   []anim.Range
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	audio    *audio.Manager
	shots    *debug.Screenshots
	log      *zap.Logger
}

// New creates the scene, then the window, renderer, input and audio.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		config: cfg,
		log:    logger.Named("game"),
	}
	g.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("clip", cfg.Animation.Clip),
	)

	var err error
	g.world, err = world.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	g.ranges = rangesOf(g.world.Player.Table())

	bindings, err := input.ParseBindings(cfg.Controls.Bindings)
	if err != nil {
		return nil, fmt.Errorf("invalid key bindings: %w", err)
	}

	// Create window (this also creates OpenGL context)
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	g.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New(bindings, cfg.GestureConfig())
	g.audio = g.initAudio()

	shotDir := cfg.Window.ScreenshotDir
	if shotDir == "" {
		shotDir = filepath.Join(config.ConfigDir(), "screenshots")
	}
	g.shots = debug.NewScreenshots(shotDir, g.world.Clip.Name)

	g.world.Bridge.OnLongTap(func() { g.renderer.ToggleWireframe() })
	g.world.Bridge.OnAction(g.cue)

	g.log.Info("viewer initialized")
	return g, nil
}

// initAudio never fails the viewer: without a sound device it runs muted.
func (g *Game) initAudio() *audio.Manager {
	cfg := g.config.Audio
	m := audio.New()
	m.SetMasterVolume(cfg.MasterVolume)
	m.SetSFXVolume(cfg.SFXVolume)
	m.SetMuted(cfg.Muted)

	loco := g.world.Bridge.Config()
	for role, name := range map[string]string{"attack": loco.AttackRange, "jump": loco.JumpRange} {
		if name == "" {
			continue
		}
		if path, ok := cfg.Cues[name]; ok {
			data, err := os.ReadFile(path)
			if err == nil {
				err = m.LoadCue(name, data)
			}
			if err == nil {
				continue
			}
			g.log.Warn("cue file unusable, using tone", zap.String("range", name), zap.Error(err))
		}
		if err := m.ToneCue(name, defaultTones[role], toneLength); err != nil {
			g.log.Warn("cannot build tone", zap.String("range", name), zap.Error(err))
		}
	}

	if cfg.Muted {
		return m
	}
	if err := m.Init(); err != nil {
		g.log.Warn("audio unavailable, continuing muted", zap.Error(err))
		m.SetMuted(true)
	}
	return m
}

func (g *Game) cue(rangeName string) {
	if err := g.audio.Cue(rangeName); err != nil && !errors.Is(err, audio.ErrUnknownCue) {
		g.log.Debug("cue not played", zap.String("range", rangeName), zap.Error(err))
	}
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting viewer loop")

	for g.running {
		// Calculate delta time
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now
		if dt > maxFrameDelta {
			dt = maxFrameDelta
		}

		// 1. Process input
		if g.input.Update() {
			// Quit event received
			g.running = false
			break
		}
		if w, h, ok := g.input.Resized(); ok {
			g.renderer.Resize(w, h)
		}
		if g.input.IsKeyPressed(control.KeyQuit) {
			g.running = false
			break
		}

		// 2. Physics, locomotion and animation
		snap := g.world.Step(g.input.Events(), dt)

		// 3. Render
		g.render(snap)
		if g.input.IsKeyPressed(control.KeyScreenshot) {
			g.screenshot(snap)
		}

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if g.config.Window.ShowFPS {
				g.log.Debug("fps",
					zap.Int("count", frameCount),
					zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
					zap.String("range", snap.Sample.Range),
					zap.Stringer("locomotion", snap.Locomotion),
				)
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (g *Game) Close() {
	g.log.Info("closing viewer")

	if g.audio != nil {
		g.audio.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

// render draws the current frame.
func (g *Game) render(snap world.Snapshot) {
	g.renderer.Begin()
	g.renderer.DrawView(viewOf(snap, g.ranges, g.world.Player.Timeline().FrameCount()))
	g.renderer.End()

	g.window.ShowStatus(snap.Sample.Range, snap.Sample.Frame, snap.State == anim.Paused)
}

func (g *Game) screenshot(snap world.Snapshot) {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.shots.Save(pixels, w, h, snap.Sample.Range, snap.Sample.Frame)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

func viewOf(snap world.Snapshot, ranges []anim.Range, frameCount int) renderer.View {
	return renderer.View{
		FrameCount: frameCount,
		Ranges:     ranges,
		Active:     snap.Sample.Range,
		Frame:      snap.Sample.Frame,
		Paused:     snap.State == anim.Paused,
		Position:   snap.Position,
		Heading:    snap.Heading,
	}
}

func rangesOf(t *anim.RangeTable) []anim.Range {
	names := t.Names()
	out := make([]anim.Range, 0, len(names))
	for _, name := range names {
		if r, err := t.Lookup(name); err == nil {
			out = append(out, r)
		}
	}
	return out
}
