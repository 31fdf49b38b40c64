package anim

import (
	"errors"
	"fmt"
	"strings"
)

// Range table and player errors.
var (
	ErrDuplicateName   = errors.New("duplicate range name")
	ErrInvalidBounds   = errors.New("invalid range bounds")
	ErrOutOfRange      = errors.New("range exceeds timeline")
	ErrUnknownRange    = errors.New("unknown range")
	ErrEmpty           = errors.New("playback queue empty")
	ErrNotComputed     = errors.New("range table not computed")
	ErrSealed          = errors.New("range table already computed")
	ErrInvalidTimeline = errors.New("invalid timeline")
	ErrInvalidMode     = errors.New("invalid playback mode")
)

// OutOfRangeError lists the ranges whose end frame lies past the timeline.
type OutOfRangeError struct {
	Names      []string
	FrameCount int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%v: %s (frame count %d)", ErrOutOfRange, strings.Join(e.Names, ", "), e.FrameCount)
}

// Is reports ErrOutOfRange so callers can match with errors.Is.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
