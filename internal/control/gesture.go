package control

import "time"

// GestureConfig holds the timing thresholds of the gesture detector.
type GestureConfig struct {
	TapMax          time.Duration // longest touch still counted as a tap
	DoubleTapWindow time.Duration // max gap between the two taps of a double tap
	LongTap         time.Duration // hold time that fires a long tap
}

// DefaultGestureConfig returns thresholds that feel right on a phone screen.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		TapMax:          200 * time.Millisecond,
		DoubleTapWindow: 300 * time.Millisecond,
		LongTap:         600 * time.Millisecond,
	}
}

// GestureDetector turns touch down/up timestamps into tap, double tap and
// long tap events. A single tap is only reported once the double tap window
// has expired, so a double tap never also produces a tap.
type GestureDetector struct {
	cfg GestureConfig

	down      bool
	downAt    time.Time
	longFired bool

	tapPending bool
	tapAt      time.Time
}

// NewGestureDetector creates a detector. Zero fields in cfg fall back to the
// defaults.
func NewGestureDetector(cfg GestureConfig) *GestureDetector {
	def := DefaultGestureConfig()
	if cfg.TapMax <= 0 {
		cfg.TapMax = def.TapMax
	}
	if cfg.DoubleTapWindow <= 0 {
		cfg.DoubleTapWindow = def.DoubleTapWindow
	}
	if cfg.LongTap <= 0 {
		cfg.LongTap = def.LongTap
	}
	return &GestureDetector{cfg: cfg}
}

// Down records a finger touching the surface.
func (g *GestureDetector) Down(at time.Time) {
	g.down = true
	g.downAt = at
	g.longFired = false
}

// Up records the finger leaving the surface. It returns a double tap when
// this touch completes one.
func (g *GestureDetector) Up(at time.Time) (Event, bool) {
	if !g.down {
		return Event{}, false
	}
	g.down = false
	held := at.Sub(g.downAt)

	if g.longFired {
		return Event{}, false
	}
	if held >= g.cfg.LongTap {
		g.tapPending = false
		return Event{Type: EventLongTap}, true
	}
	if held > g.cfg.TapMax {
		g.tapPending = false
		return Event{}, false
	}

	if g.tapPending && at.Sub(g.tapAt) <= g.cfg.DoubleTapWindow {
		g.tapPending = false
		return Event{Type: EventDoubleTap}, true
	}
	g.tapPending = true
	g.tapAt = at
	return Event{}, false
}

// Poll reports gestures that complete by the passage of time: a long tap
// while the finger is still down, or a single tap whose double tap window
// has expired. Call it once per frame.
func (g *GestureDetector) Poll(now time.Time) (Event, bool) {
	if g.down && !g.longFired && now.Sub(g.downAt) >= g.cfg.LongTap {
		g.longFired = true
		g.tapPending = false
		return Event{Type: EventLongTap}, true
	}
	if g.tapPending && !g.down && now.Sub(g.tapAt) > g.cfg.DoubleTapWindow {
		g.tapPending = false
		return Event{Type: EventTap}, true
	}
	return Event{}, false
}

// Reset forgets any touch in progress.
func (g *GestureDetector) Reset() {
	*g = GestureDetector{cfg: g.cfg}
}
