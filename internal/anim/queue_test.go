package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	var q Queue
	q.Enqueue("attack1SwipeAxe", ModeContinue)
	q.Enqueue("idle1", ModeLoop)
	q.Enqueue("nodYes", ModeSingleShot)
	assert.Equal(t, 3, q.Len())

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, Entry{Range: "attack1SwipeAxe", Mode: ModeContinue}, head)

	for _, want := range []Entry{
		{Range: "attack1SwipeAxe", Mode: ModeContinue},
		{Range: "idle1", Mode: ModeLoop},
		{Range: "nodYes", Mode: ModeSingleShot},
	} {
		got, err := q.PopNext()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := q.PopNext()
	assert.ErrorIs(t, err, ErrEmpty)
	_, ok = q.Peek()
	assert.False(t, ok)
}

func TestQueueClear(t *testing.T) {
	var q Queue
	q.Enqueue("a", ModeLoop)
	q.Enqueue("b", ModeLoop)
	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Entries())
}

func TestQueueEntriesIsCopy(t *testing.T) {
	var q Queue
	q.Enqueue("a", ModeLoop)
	entries := q.Entries()
	entries[0].Range = "changed"

	head, _ := q.Peek()
	assert.Equal(t, "a", head.Range)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"loop":        ModeLoop,
		"continue":    ModeContinue,
		"single-shot": ModeSingleShot,
		"once":        ModeSingleShot,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseMode("pingpong")
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Equal(t, "Mode(9)", Mode(9).String())
}
