// Package config handles demo and simulator configuration loading.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/animseq/internal/control"
	"github.com/Faultbox/animseq/internal/locomotion"
	"github.com/Faultbox/animseq/internal/physics"
)

// ErrInvalid is wrapped by Validate errors.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Animation  AnimationConfig  `yaml:"animation"`
	Locomotion LocomotionConfig `yaml:"locomotion"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Controls   ControlsConfig   `yaml:"controls"`
	Audio      AudioConfig      `yaml:"audio"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	ShowFPS    bool   `yaml:"show_fps"`

	// ScreenshotDir defaults to a screenshots directory under ConfigDir.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// AnimationConfig selects the clip and playback overrides.
type AnimationConfig struct {
	Clip         string  `yaml:"clip"`           // embedded clip name or file path
	FramesPerSec float64 `yaml:"frames_per_sec"` // 0 keeps the clip rate
	StartRange   string  `yaml:"start_range"`    // empty keeps the clip start range
}

// LocomotionConfig mirrors locomotion.Config.
type LocomotionConfig struct {
	IdleRange       string  `yaml:"idle_range"`
	WalkRange       string  `yaml:"walk_range"`
	AttackRange     string  `yaml:"attack_range"`
	JumpRange       string  `yaml:"jump_range"`
	SpeedThreshold  float32 `yaml:"speed_threshold"`
	MoveImpulse     float32 `yaml:"move_impulse"`
	JumpImpulse     float32 `yaml:"jump_impulse"`
	TurnRate        float32 `yaml:"turn_rate"`
	GroundedEpsilon float32 `yaml:"grounded_epsilon"`
}

// PhysicsConfig holds point-mass body parameters.
type PhysicsConfig struct {
	Mass     float32 `yaml:"mass"`
	Gravity  float32 `yaml:"gravity"`
	Friction float32 `yaml:"friction"`
}

// ControlsConfig maps action names to SDL key names and tunes gestures.
type ControlsConfig struct {
	Bindings        map[string][]string `yaml:"bindings"`
	TapMax          time.Duration       `yaml:"tap_max"`
	DoubleTapWindow time.Duration       `yaml:"double_tap_window"`
	LongTap         time.Duration       `yaml:"long_tap"`
}

// AudioConfig holds cue playback settings.
type AudioConfig struct {
	MasterVolume float64           `yaml:"master_volume"`
	SFXVolume    float64           `yaml:"sfx_volume"`
	Muted        bool              `yaml:"muted"`
	Cues         map[string]string `yaml:"cues"` // range name to WAV file; unset ranges get a tone
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	loco := locomotion.DefaultConfig()
	phys := physics.DefaultConfig()
	gest := control.DefaultGestureConfig()

	return &Config{
		Window: WindowConfig{
			Title:      "animseq",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Animation: AnimationConfig{
			Clip: "dwarf",
		},
		Locomotion: LocomotionConfig{
			IdleRange:       loco.IdleRange,
			WalkRange:       loco.WalkRange,
			AttackRange:     loco.AttackRange,
			JumpRange:       loco.JumpRange,
			SpeedThreshold:  loco.SpeedThreshold,
			MoveImpulse:     loco.MoveImpulse,
			JumpImpulse:     loco.JumpImpulse,
			TurnRate:        loco.TurnRate,
			GroundedEpsilon: loco.GroundedEpsilon,
		},
		Physics: PhysicsConfig{
			Mass:     phys.Mass,
			Gravity:  phys.Gravity,
			Friction: phys.Friction,
		},
		Controls: ControlsConfig{
			Bindings: map[string][]string{
				"forward":    {"Up", "W"},
				"backward":   {"Down", "S"},
				"turn_left":  {"Left", "A"},
				"turn_right": {"Right", "D"},
				"jump":       {"Space"},
				"attack":     {"J"},
				"pause":      {"P"},
				"quit":       {"Escape"},
				"screenshot": {"F12"},
			},
			TapMax:          gest.TapMax,
			DoubleTapWindow: gest.DoubleTapWindow,
			LongTap:         gest.LongTap,
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			SFXVolume:    0.8,
			Muted:        false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Animation.Clip == "":
		return fmt.Errorf("%w: animation.clip is empty", ErrInvalid)
	case c.Animation.FramesPerSec < 0:
		return fmt.Errorf("%w: animation.frames_per_sec %v", ErrInvalid, c.Animation.FramesPerSec)
	case c.Physics.Mass <= 0:
		return fmt.Errorf("%w: physics.mass %v", ErrInvalid, c.Physics.Mass)
	}
	for name := range c.Controls.Bindings {
		if _, err := control.ParseKey(name); err != nil {
			return fmt.Errorf("%w: controls.bindings: %v", ErrInvalid, err)
		}
	}
	if err := c.LocomotionConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// LocomotionConfig converts the locomotion section.
func (c *Config) LocomotionConfig() locomotion.Config {
	l := c.Locomotion
	return locomotion.Config{
		IdleRange:       l.IdleRange,
		WalkRange:       l.WalkRange,
		AttackRange:     l.AttackRange,
		JumpRange:       l.JumpRange,
		SpeedThreshold:  l.SpeedThreshold,
		MoveImpulse:     l.MoveImpulse,
		JumpImpulse:     l.JumpImpulse,
		TurnRate:        l.TurnRate,
		GroundedEpsilon: l.GroundedEpsilon,
	}
}

// PhysicsConfig converts the physics section.
func (c *Config) PhysicsConfig() physics.Config {
	return physics.Config{
		Mass:     c.Physics.Mass,
		Gravity:  c.Physics.Gravity,
		Friction: c.Physics.Friction,
	}
}

// GestureConfig converts the gesture timings.
func (c *Config) GestureConfig() control.GestureConfig {
	return control.GestureConfig{
		TapMax:          c.Controls.TapMax,
		DoubleTapWindow: c.Controls.DoubleTapWindow,
		LongTap:         c.Controls.LongTap,
	}
}
