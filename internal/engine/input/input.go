// Package input polls SDL2 keyboard and touch events and translates them
// into control events through a key binding table.
package input

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/animseq/internal/control"
)

// ErrUnknownKeyName is returned for binding names SDL does not know.
var ErrUnknownKeyName = errors.New("unknown SDL key name")

// Bindings maps physical scancodes to action keys.
type Bindings map[sdl.Scancode]control.Key

// ParseBindings resolves config bindings such as {"jump": ["Space"]}. Key
// names are SDL names as returned by SDL_GetScancodeName.
func ParseBindings(cfg map[string][]string) (Bindings, error) {
	actions := make([]string, 0, len(cfg))
	for action := range cfg {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	b := make(Bindings)
	for _, action := range actions {
		key, err := control.ParseKey(action)
		if err != nil {
			return nil, err
		}
		for _, name := range cfg[action] {
			sc := sdl.GetScancodeFromName(name)
			if sc == sdl.SCANCODE_UNKNOWN {
				return nil, fmt.Errorf("%w: %q for %s", ErrUnknownKeyName, name, action)
			}
			if prev, ok := b[sc]; ok && prev != key {
				return nil, fmt.Errorf("key %q bound to both %s and %s", name, prev, key)
			}
			b[sc] = key
		}
	}
	return b, nil
}

// Input handles all input processing.
type Input struct {
	bindings Bindings
	gestures *control.GestureDetector
	events   []control.Event
	now      func() time.Time

	resized       bool
	width, height int
}

// New creates a new input handler.
func New(bindings Bindings, gestures control.GestureConfig) *Input {
	return &Input{
		bindings: bindings,
		gestures: control.NewGestureDetector(gestures),
		events:   make([]control.Event, 0, 16),
		now:      time.Now,
	}
}

// Update polls SDL events and converts them to control events.
// Returns true if the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events
	i.resized = false
	now := i.now()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.resized = true
				i.width, i.height = int(e.Data1), int(e.Data2)
			}

		case *sdl.KeyboardEvent:
			key, ok := i.bindings[e.Keysym.Scancode]
			if !ok {
				continue
			}
			ev := control.Event{Key: key, Char: printable(e.Keysym.Sym)}
			switch {
			case e.Type == sdl.KEYDOWN && e.Repeat != 0:
				ev.Type = control.EventRepeat
			case e.Type == sdl.KEYDOWN:
				ev.Type = control.EventPressed
			default:
				ev.Type = control.EventReleased
			}
			i.events = append(i.events, ev)

		case *sdl.TouchFingerEvent:
			switch e.Type {
			case sdl.FINGERDOWN:
				i.gestures.Down(now)
			case sdl.FINGERUP:
				if ev, ok := i.gestures.Up(now); ok {
					i.events = append(i.events, ev)
				}
			}
		}
	}

	if ev, ok := i.gestures.Poll(now); ok {
		i.events = append(i.events, ev)
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []control.Event {
	return i.events
}

// Resized reports a window resize seen during the last Update.
func (i *Input) Resized() (width, height int, ok bool) {
	return i.width, i.height, i.resized
}

// IsKeyPressed checks if a specific action key was pressed this frame.
func (i *Input) IsKeyPressed(key control.Key) bool {
	for _, e := range i.events {
		if e.Type == control.EventPressed && e.Key == key {
			return true
		}
	}
	return false
}

func printable(sym sdl.Keycode) rune {
	if sym >= 0x20 && sym < 0x7f {
		return rune(sym)
	}
	return 0
}
