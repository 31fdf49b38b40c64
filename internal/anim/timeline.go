// Package anim partitions a skeletal animation clip into named frame ranges
// and plays them through a queue-driven state machine.
//
// A Player is stepped once per rendered frame with the elapsed time and
// reports which range and (fractional) frame the skinning stage should
// sample. Nothing in this package is safe for concurrent use; the host calls
// it from the thread that owns the scene.
package anim

import (
	"fmt"
	"math"
)

// Timeline describes the raw clip: duration, default frame rate and number
// of frames.
type Timeline struct {
	duration    float64
	fps         float64
	frameCount  int
	fixedFrames bool
}

// NewTimeline creates a timeline. A frameCount of zero derives the count
// from duration and fps.
func NewTimeline(duration, fps float64, frameCount int) (*Timeline, error) {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("%w: duration %v", ErrInvalidTimeline, duration)
	}
	if !(fps > 0) || math.IsInf(fps, 0) {
		return nil, fmt.Errorf("%w: frames per second %v", ErrInvalidTimeline, fps)
	}
	if frameCount < 0 {
		return nil, fmt.Errorf("%w: frame count %d", ErrInvalidTimeline, frameCount)
	}
	t := &Timeline{
		duration:    duration,
		fps:         fps,
		frameCount:  frameCount,
		fixedFrames: frameCount > 0,
	}
	t.derive()
	return t, nil
}

func (t *Timeline) derive() {
	if !t.fixedFrames {
		t.frameCount = int(math.Round(t.duration * t.fps))
	}
}

// Duration returns the clip length in seconds.
func (t *Timeline) Duration() float64 { return t.duration }

// FramesPerSec returns the default playback rate.
func (t *Timeline) FramesPerSec() float64 { return t.fps }

// FrameCount returns the number of frames ranges may address.
func (t *Timeline) FrameCount() int { return t.frameCount }

// SetDuration rescales the clip. Ranges are in frame units and are not
// touched. A derived frame count follows the new duration only until a range
// table has been computed against the timeline.
func (t *Timeline) SetDuration(seconds float64) error {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: duration %v", ErrInvalidTimeline, seconds)
	}
	t.duration = seconds
	t.derive()
	return nil
}

// SetFramesPerSec changes the default playback rate. Like SetDuration it
// re-derives the frame count only before a range table is computed.
func (t *Timeline) SetFramesPerSec(fps float64) error {
	if !(fps > 0) || math.IsInf(fps, 0) {
		return fmt.Errorf("%w: frames per second %v", ErrInvalidTimeline, fps)
	}
	t.fps = fps
	t.derive()
	return nil
}

// freeze pins the frame count so computed ranges stay addressable.
func (t *Timeline) freeze() {
	t.fixedFrames = true
}
