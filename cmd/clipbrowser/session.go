package main

import (
	"fmt"
	"sort"

	"github.com/Faultbox/animseq/internal/anim"
	"github.com/Faultbox/animseq/internal/assets"
)

// maxLogLines bounds the transition log shown in the browser.
const maxLogLines = 200

// LogLine is one player transition with the session time it happened at.
type LogLine struct {
	Time  float64
	Event anim.Event
}

func (l LogLine) String() string {
	s := fmt.Sprintf("%7.2fs %-11s %s @ %.1f", l.Time, l.Event.Kind, l.Event.Range, l.Event.Frame)
	if l.Event.Kind == anim.EventStarted {
		s += " (" + l.Event.Mode.String() + ")"
	}
	return s
}

// Session is one opened clip driven by the browser. It has no UI code so it
// can be tested without a window.
type Session struct {
	Ref    string
	Clip   *anim.Clip
	Player *anim.Player
	Speed  float32 // playback speed multiplier

	ranges []anim.Range
	log    []LogLine
	now    float64
}

// OpenSession loads an embedded clip name or a clip file path.
func OpenSession(ref string) (*Session, error) {
	clip, err := assets.LoadClip(ref)
	if err != nil {
		return nil, err
	}
	s := &Session{Ref: ref, Clip: clip, Speed: 1}

	// Build without the start range so its start lands in the log.
	silent := *clip
	silent.StartRange = ""
	s.Player, err = silent.Build()
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", ref, err)
	}
	s.Player.OnEvent(func(ev anim.Event) {
		s.log = append(s.log, LogLine{Time: s.now, Event: ev})
		if len(s.log) > maxLogLines {
			s.log = s.log[len(s.log)-maxLogLines:]
		}
	})
	if clip.StartRange != "" {
		if err := s.Player.Play(clip.StartRange); err != nil {
			return nil, fmt.Errorf("building %s: start range: %w", ref, err)
		}
	}

	table := s.Player.Table()
	for _, name := range table.Names() {
		if r, err := table.Lookup(name); err == nil {
			s.ranges = append(s.ranges, r)
		}
	}
	sort.SliceStable(s.ranges, func(i, j int) bool { return s.ranges[i].Start < s.ranges[j].Start })
	return s, nil
}

// Advance moves the player by dt wall seconds scaled by Speed.
func (s *Session) Advance(dt float64) anim.Sample {
	if s.Speed <= 0 || s.Player.State() == anim.Paused {
		return s.Player.Advance(0)
	}
	scaled := dt * float64(s.Speed)
	s.now += scaled
	return s.Player.Advance(scaled)
}

// Request plays or queues a range.
func (s *Session) Request(name string, mode anim.Mode, queue bool) error {
	if queue {
		return s.Player.Enqueue(name, mode)
	}
	return s.Player.PlayMode(name, mode)
}

// Ranges returns the clip ranges ordered by start frame.
func (s *Session) Ranges() []anim.Range { return s.ranges }

// Log returns the recent transitions, oldest first.
func (s *Session) Log() []LogLine { return s.log }

// Progress is the playhead position within the active range in [0, 1].
func (s *Session) Progress() float32 {
	r, _, ok := s.Player.Active()
	if !ok || r.Length() == 0 {
		return 0
	}
	p := float32((s.Player.Frame() - float64(r.Start)) / float64(r.Length()))
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
