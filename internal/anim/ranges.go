package anim

import (
	"fmt"
	"sort"
)

// Range is a named sub-interval of the clip, in frames.
type Range struct {
	Name       string
	Start      int
	End        int
	Breakpoint int  // earliest frame at which a pending switch may take effect
	Guarded    bool // breakpoint given by the author; also defers Play
}

// Length returns End - Start in frames.
func (r Range) Length() int {
	return r.End - r.Start
}

// RangeTable maps names to ranges. It is built with Add calls and then
// sealed by Compute before any playback.
type RangeTable struct {
	ranges   map[string]Range
	computed bool
}

// NewRangeTable returns an empty table.
func NewRangeTable() *RangeTable {
	return &RangeTable{ranges: make(map[string]Range)}
}

// Add registers a range whose breakpoint is its end frame.
func (t *RangeTable) Add(name string, start, end int) error {
	return t.add(Range{Name: name, Start: start, End: end, Breakpoint: end})
}

// AddWithBreakpoint registers a range that cannot be left before the
// breakpoint frame.
func (t *RangeTable) AddWithBreakpoint(name string, start, end, breakpoint int) error {
	return t.add(Range{Name: name, Start: start, End: end, Breakpoint: breakpoint, Guarded: true})
}

func (t *RangeTable) add(r Range) error {
	if t.computed {
		return fmt.Errorf("%w: cannot add %q", ErrSealed, r.Name)
	}
	if _, ok := t.ranges[r.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, r.Name)
	}
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidBounds)
	case r.Start < 0:
		return fmt.Errorf("%w: %q starts at %d", ErrInvalidBounds, r.Name, r.Start)
	case r.Start > r.End:
		return fmt.Errorf("%w: %q start %d after end %d", ErrInvalidBounds, r.Name, r.Start, r.End)
	case r.Breakpoint < r.Start || r.Breakpoint > r.End:
		return fmt.Errorf("%w: %q breakpoint %d outside [%d, %d]", ErrInvalidBounds, r.Name, r.Breakpoint, r.Start, r.End)
	}
	t.ranges[r.Name] = r
	return nil
}

// Compute validates every range against the timeline and seals the table.
// On failure the table stays open and the error is an *OutOfRangeError. On
// success the timeline frame count is frozen.
func (t *RangeTable) Compute(timeline *Timeline) error {
	if t.computed {
		return ErrSealed
	}
	if timeline == nil {
		return fmt.Errorf("%w: nil timeline", ErrInvalidTimeline)
	}

	frames := timeline.FrameCount()
	var bad []string
	for name, r := range t.ranges {
		if r.End > frames {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return &OutOfRangeError{Names: bad, FrameCount: frames}
	}

	timeline.freeze()
	t.computed = true
	return nil
}

// Computed reports whether Compute has succeeded.
func (t *RangeTable) Computed() bool {
	return t.computed
}

// Lookup returns the named range.
func (t *RangeTable) Lookup(name string) (Range, error) {
	r, ok := t.ranges[name]
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownRange, name)
	}
	return r, nil
}

// Len returns the number of ranges.
func (t *RangeTable) Len() int {
	return len(t.ranges)
}

// Names returns all range names, sorted.
func (t *RangeTable) Names() []string {
	names := make([]string, 0, len(t.ranges))
	for name := range t.ranges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
