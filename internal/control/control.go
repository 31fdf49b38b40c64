// Package control defines the device independent input vocabulary used by
// the locomotion bridge: abstract keys, key and gesture events, a clamped
// axis accumulator and a touch gesture detector.
package control

import (
	"errors"
	"fmt"
)

// ErrUnknownKey is returned by ParseKey for names with no binding.
var ErrUnknownKey = errors.New("unknown key")

// Key is an abstract action key. The SDL adapter maps physical scancodes to
// these through the controls section of the config.
type Key uint8

const (
	KeyNone Key = iota
	KeyForward
	KeyBackward
	KeyTurnLeft
	KeyTurnRight
	KeyJump
	KeyAttack
	KeyPause
	KeyQuit
	KeyScreenshot
)

var keyNames = [...]string{
	KeyNone:       "none",
	KeyForward:    "forward",
	KeyBackward:   "backward",
	KeyTurnLeft:   "turn_left",
	KeyTurnRight:  "turn_right",
	KeyJump:       "jump",
	KeyAttack:     "attack",
	KeyPause:      "pause",
	KeyQuit:       "quit",
	KeyScreenshot: "screenshot",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

// Keys returns every bindable key.
func Keys() []Key {
	return []Key{KeyForward, KeyBackward, KeyTurnLeft, KeyTurnRight, KeyJump, KeyAttack, KeyPause, KeyQuit, KeyScreenshot}
}

// ParseKey resolves a config binding name such as "turn_left".
func ParseKey(name string) (Key, error) {
	for _, k := range Keys() {
		if keyNames[k] == name {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// EventType distinguishes key transitions from touch gestures.
type EventType uint8

const (
	EventPressed EventType = iota
	EventReleased
	EventRepeat // key held, generated by OS auto-repeat
	EventTap
	EventDoubleTap
	EventLongTap
)

func (t EventType) String() string {
	switch t {
	case EventPressed:
		return "pressed"
	case EventReleased:
		return "released"
	case EventRepeat:
		return "repeat"
	case EventTap:
		return "tap"
	case EventDoubleTap:
		return "double_tap"
	case EventLongTap:
		return "long_tap"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// Event is one input occurrence. Key is KeyNone for gestures. Char carries
// the printable character of a key event when there is one.
type Event struct {
	Type EventType
	Key  Key
	Char rune
}

// IsGesture reports whether the event came from the touch surface.
func (e Event) IsGesture() bool {
	return e.Type >= EventTap
}

// Press is a convenience constructor for a key press event.
func Press(k Key) Event { return Event{Type: EventPressed, Key: k} }

// Release is a convenience constructor for a key release event.
func Release(k Key) Event { return Event{Type: EventReleased, Key: k} }
