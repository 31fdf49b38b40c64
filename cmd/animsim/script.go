package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/animseq/internal/control"
)

const (
	defaultStep     = 1.0 / 60
	defaultDuration = 5.0
)

// Script is a timed input sequence for a headless run.
type Script struct {
	Step     float64       `yaml:"step"`     // seconds per simulated frame
	Duration float64       `yaml:"duration"` // seconds to simulate
	Events   []ScriptEvent `yaml:"events"`
}

// ScriptEvent fires one key transition or gesture at a point in time.
// Exactly one of Press, Release or Gesture is set.
type ScriptEvent struct {
	At      float64 `yaml:"at"`
	Press   string  `yaml:"press,omitempty"`
	Release string  `yaml:"release,omitempty"`
	Gesture string  `yaml:"gesture,omitempty"`

	event control.Event
}

var gestures = map[string]control.EventType{
	"tap":        control.EventTap,
	"double_tap": control.EventDoubleTap,
	"long_tap":   control.EventLongTap,
}

// LoadScript reads a script file. An empty path gives an idle script.
func LoadScript(path string) (*Script, error) {
	if path == "" {
		return ParseScript(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes and validates a script, filling defaults and sorting
// events by time. Events with the same time keep their file order.
func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	if s.Step == 0 {
		s.Step = defaultStep
	}
	if s.Duration == 0 {
		s.Duration = defaultDuration
	}
	if s.Step < 0 || s.Duration < 0 {
		return nil, fmt.Errorf("step and duration must be positive")
	}

	for i := range s.Events {
		ev, err := s.Events[i].resolve()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		s.Events[i].event = ev
	}
	sort.SliceStable(s.Events, func(i, j int) bool { return s.Events[i].At < s.Events[j].At })
	return s, nil
}

func (e ScriptEvent) resolve() (control.Event, error) {
	if e.At < 0 {
		return control.Event{}, fmt.Errorf("negative time %v", e.At)
	}
	set := 0
	for _, f := range []string{e.Press, e.Release, e.Gesture} {
		if f != "" {
			set++
		}
	}
	if set != 1 {
		return control.Event{}, fmt.Errorf("need exactly one of press, release or gesture")
	}

	switch {
	case e.Gesture != "":
		t, ok := gestures[e.Gesture]
		if !ok {
			return control.Event{}, fmt.Errorf("unknown gesture %q", e.Gesture)
		}
		return control.Event{Type: t}, nil
	case e.Press != "":
		k, err := control.ParseKey(e.Press)
		if err != nil {
			return control.Event{}, err
		}
		return control.Press(k), nil
	default:
		k, err := control.ParseKey(e.Release)
		if err != nil {
			return control.Event{}, err
		}
		return control.Release(k), nil
	}
}

// Frames returns the number of steps the script runs.
func (s *Script) Frames() int {
	return int(s.Duration/s.Step + 0.5)
}

// Due returns the events with At < until, starting at index next, and the
// index of the first event not yet due.
func (s *Script) Due(next int, until float64) ([]control.Event, int) {
	var out []control.Event
	for next < len(s.Events) && s.Events[next].At < until {
		out = append(out, s.Events[next].event)
		next++
	}
	return out, next
}
