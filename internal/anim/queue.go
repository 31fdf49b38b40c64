package anim

import "fmt"

// Mode decides what happens when a range reaches its end frame.
type Mode uint8

const (
	// ModeSingleShot plays once; the next queued range starts at its own
	// start frame, or the player holds on the last frame.
	ModeSingleShot Mode = iota
	// ModeLoop wraps back to the start frame until something is queued.
	ModeLoop
	// ModeContinue hands over to the next queued range carrying the
	// overshoot, so no gap frame is shown.
	ModeContinue
)

func (m Mode) String() string {
	switch m {
	case ModeSingleShot:
		return "single-shot"
	case ModeLoop:
		return "loop"
	case ModeContinue:
		return "continue"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode converts a clip or script mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "single-shot", "single", "once":
		return ModeSingleShot, nil
	case "loop":
		return ModeLoop, nil
	case "continue":
		return ModeContinue, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) valid() bool {
	return m <= ModeContinue
}

// Entry is a pending playback request.
type Entry struct {
	Range string
	Mode  Mode
}

// Queue is a FIFO of playback requests. It stores names only; the player
// validates them.
type Queue struct {
	entries []Entry
}

// Enqueue appends a request.
func (q *Queue) Enqueue(name string, mode Mode) {
	q.entries = append(q.entries, Entry{Range: name, Mode: mode})
}

// PopNext removes and returns the head, or ErrEmpty.
func (q *Queue) PopNext() (Entry, error) {
	if len(q.entries) == 0 {
		return Entry{}, ErrEmpty
	}
	e := q.entries[0]
	q.entries[0] = Entry{}
	q.entries = q.entries[1:]
	if len(q.entries) == 0 {
		q.entries = nil
	}
	return e, nil
}

// Peek returns the head without removing it.
func (q *Queue) Peek() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	return q.entries[0], true
}

// Len returns the number of pending entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Entries returns a copy of the pending entries, head first.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Clear drops all pending entries.
func (q *Queue) Clear() {
	q.entries = nil
}
