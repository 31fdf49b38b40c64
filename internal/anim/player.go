package anim

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/animseq/internal/logger"
)

// PlayState is the play/pause state of a Player.
type PlayState uint8

const (
	Playing PlayState = iota
	Paused
)

func (s PlayState) String() string {
	if s == Paused {
		return "paused"
	}
	return "playing"
}

// Sample is what the skinning stage reads each frame. Range is empty until
// the first range starts.
type Sample struct {
	Range string
	Frame float64
}

// EventKind identifies a player transition.
type EventKind uint8

const (
	EventStarted     EventKind = iota // a range became active
	EventLooped                       // a loop range wrapped
	EventFinished                     // a non-loop range ended with nothing queued
	EventInterrupted                  // a range was left before its end
	EventPaused
	EventResumed
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventLooped:
		return "looped"
	case EventFinished:
		return "finished"
	case EventInterrupted:
		return "interrupted"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is delivered to OnEvent listeners.
type Event struct {
	Kind     EventKind
	Range    string
	Mode     Mode
	Frame    float64
	Previous string // range that was active before a start, if any
}

// maxSettle bounds the transitions resolved in one Advance so chains of
// zero-length ranges cannot spin forever.
const maxSettle = 64

type activeRange struct {
	rng  Range
	mode Mode
}

// Player is the range sequencing state machine bound to one timeline and
// range table.
type Player struct {
	timeline *Timeline
	table    *RangeTable
	queue    Queue

	active  *activeRange
	frame   float64
	state   PlayState
	holding bool
	pending *Entry // Play issued before a guarded breakpoint

	fps       float64 // 0 uses the timeline rate
	listeners []func(Event)
	log       *zap.Logger
}

// NewPlayer binds a player to a timeline and its range table. Ranges may
// still be added until the table is computed; playback calls fail before
// that.
func NewPlayer(timeline *Timeline, table *RangeTable) (*Player, error) {
	if timeline == nil {
		return nil, fmt.Errorf("%w: nil timeline", ErrInvalidTimeline)
	}
	if table == nil {
		return nil, fmt.Errorf("%w: nil range table", ErrNotComputed)
	}
	return &Player{
		timeline: timeline,
		table:    table,
		state:    Playing,
		log:      logger.Named("anim"),
	}, nil
}

// Timeline returns the clip timeline.
func (p *Player) Timeline() *Timeline { return p.timeline }

// Table returns the range table.
func (p *Player) Table() *RangeTable { return p.table }

// OnEvent registers a listener for transitions. Listeners run synchronously
// inside the call that caused the transition.
func (p *Player) OnEvent(fn func(Event)) {
	if fn != nil {
		p.listeners = append(p.listeners, fn)
	}
}

// Play switches to name in loop mode.
func (p *Player) Play(name string) error {
	return p.PlayMode(name, ModeLoop)
}

// PlayMode switches to name immediately, dropping everything queued. If the
// active range is guarded and its breakpoint has not been reached, the
// switch is held back until it is.
func (p *Player) PlayMode(name string, mode Mode) error {
	r, err := p.validate(name, mode)
	if err != nil {
		return err
	}

	p.queue.Clear()
	p.setState(Playing)

	if p.deferred() {
		p.pending = &Entry{Range: name, Mode: mode}
		p.log.Debug("play deferred until breakpoint",
			zap.String("range", name),
			zap.String("active", p.active.rng.Name),
			zap.Int("breakpoint", p.active.rng.Breakpoint),
			zap.Float64("frame", p.frame),
		)
		return nil
	}

	p.pending = nil
	if p.active != nil && !p.holding {
		p.emit(EventInterrupted, p.active.rng.Name, p.active.mode, "")
	}
	p.start(r, mode, float64(r.Start))
	return nil
}

// Enqueue appends a request behind the active range. It never interrupts.
func (p *Player) Enqueue(name string, mode Mode) error {
	if _, err := p.validate(name, mode); err != nil {
		return err
	}
	p.queue.Enqueue(name, mode)
	p.log.Debug("range queued",
		zap.String("range", name),
		zap.Stringer("mode", mode),
		zap.Int("pending", p.queue.Len()),
	)
	return nil
}

// TogglePlayPause flips between playing and paused and returns the new
// state.
func (p *Player) TogglePlayPause() PlayState {
	if p.state == Playing {
		p.setState(Paused)
	} else {
		p.setState(Playing)
	}
	return p.state
}

// SetFramesPerSec overrides the timeline rate for this player. The current
// position is kept.
func (p *Player) SetFramesPerSec(fps float64) error {
	if !(fps > 0) || math.IsInf(fps, 0) {
		return fmt.Errorf("%w: frames per second %v", ErrInvalidTimeline, fps)
	}
	p.fps = fps
	return nil
}

// ResetFramesPerSec drops the override and follows the timeline again.
func (p *Player) ResetFramesPerSec() {
	p.fps = 0
}

// FramesPerSec returns the effective playback rate.
func (p *Player) FramesPerSec() float64 {
	if p.fps > 0 {
		return p.fps
	}
	return p.timeline.FramesPerSec()
}

// Advance moves the playhead by delta seconds and resolves breakpoint,
// end-of-range and loop transitions. It returns the sample to render.
func (p *Player) Advance(delta float64) Sample {
	if p.state == Paused {
		return p.Sample()
	}
	if !(delta > 0) || math.IsInf(delta, 0) {
		delta = 0
	}

	p.promote()
	if p.active == nil {
		return Sample{}
	}

	p.frame += delta * p.FramesPerSec()
	p.settle()
	return p.Sample()
}

// Sample returns the current range and frame without advancing.
func (p *Player) Sample() Sample {
	if p.active == nil {
		return Sample{}
	}
	return Sample{Range: p.active.rng.Name, Frame: p.frame}
}

// RangeName returns the active range name, or "" before the first range.
func (p *Player) RangeName() string {
	if p.active == nil {
		return ""
	}
	return p.active.rng.Name
}

// Active returns the active range and its mode.
func (p *Player) Active() (Range, Mode, bool) {
	if p.active == nil {
		return Range{}, 0, false
	}
	return p.active.rng, p.active.mode, true
}

// Frame returns the fractional playhead.
func (p *Player) Frame() float64 { return p.frame }

// State returns the play/pause state.
func (p *Player) State() PlayState { return p.state }

// Holding reports whether a finished single-shot or continue range is
// parked on its last frame waiting for a request.
func (p *Player) Holding() bool { return p.holding }

// Pending returns a Play request waiting for the active breakpoint.
func (p *Player) Pending() (Entry, bool) {
	if p.pending == nil {
		return Entry{}, false
	}
	return *p.pending, true
}

// Queued returns the pending queue, head first.
func (p *Player) Queued() []Entry {
	return p.queue.Entries()
}

func (p *Player) validate(name string, mode Mode) (Range, error) {
	if !p.table.Computed() {
		return Range{}, ErrNotComputed
	}
	if !mode.valid() {
		return Range{}, fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}
	return p.table.Lookup(name)
}

func (p *Player) deferred() bool {
	if p.active == nil || p.holding || !p.active.rng.Guarded {
		return false
	}
	return p.frame < float64(p.active.rng.Breakpoint)
}

// promote starts the next request when nothing is playing or the previous
// range is holding on its last frame.
func (p *Player) promote() {
	if p.active != nil && !p.holding {
		return
	}
	if p.pending != nil {
		e := *p.pending
		p.pending = nil
		r := p.table.ranges[e.Range]
		p.start(r, e.Mode, float64(r.Start))
		return
	}
	if e, err := p.queue.PopNext(); err == nil {
		r := p.table.ranges[e.Range]
		p.start(r, e.Mode, float64(r.Start))
	}
}

func (p *Player) settle() {
	for i := 0; i < maxSettle; i++ {
		cur := p.active
		start := float64(cur.rng.Start)
		end := float64(cur.rng.End)

		if p.frame < float64(cur.rng.Breakpoint) {
			return
		}

		if p.pending != nil {
			e := *p.pending
			p.pending = nil
			next := p.table.ranges[e.Range]
			p.emit(EventInterrupted, cur.rng.Name, cur.mode, "")
			p.start(next, e.Mode, float64(next.Start))
			continue
		}

		if p.frame < end {
			e, err := p.queue.PopNext()
			if err != nil {
				return
			}
			next := p.table.ranges[e.Range]
			p.emit(EventInterrupted, cur.rng.Name, cur.mode, "")
			p.start(next, e.Mode, float64(next.Start))
			continue
		}

		overshoot := p.frame - end
		if e, err := p.queue.PopNext(); err == nil {
			next := p.table.ranges[e.Range]
			at := float64(next.Start)
			if cur.mode == ModeContinue {
				at += overshoot
			}
			p.start(next, e.Mode, at)
			continue
		}

		if cur.mode == ModeLoop {
			if length := end - start; length > 0 {
				p.frame = start + math.Mod(overshoot, length)
			} else {
				p.frame = start
			}
			p.emit(EventLooped, cur.rng.Name, cur.mode, "")
			return
		}

		p.frame = end
		if !p.holding {
			p.holding = true
			p.emit(EventFinished, cur.rng.Name, cur.mode, "")
		}
		return
	}
	p.log.Warn("transition chain cut short",
		zap.String("range", p.active.rng.Name),
		zap.Float64("frame", p.frame),
	)
}

func (p *Player) start(r Range, mode Mode, frame float64) {
	prev := ""
	if p.active != nil {
		prev = p.active.rng.Name
	}
	p.active = &activeRange{rng: r, mode: mode}
	p.frame = frame
	p.holding = false
	p.emit(EventStarted, r.Name, mode, prev)
}

func (p *Player) setState(s PlayState) {
	if p.state == s {
		return
	}
	p.state = s
	kind := EventResumed
	if s == Paused {
		kind = EventPaused
	}
	name, mode := "", ModeSingleShot
	if p.active != nil {
		name, mode = p.active.rng.Name, p.active.mode
	}
	p.emit(kind, name, mode, "")
}

func (p *Player) emit(kind EventKind, name string, mode Mode, prev string) {
	ev := Event{Kind: kind, Range: name, Mode: mode, Frame: p.frame, Previous: prev}
	if ce := p.log.Check(zap.DebugLevel, "range "+kind.String()); ce != nil {
		ce.Write(
			zap.String("range", name),
			zap.Stringer("mode", mode),
			zap.Float64("frame", p.frame),
			zap.String("previous", prev),
		)
	}
	for _, fn := range p.listeners {
		fn(ev)
	}
}
