package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/animseq/internal/assets"
	"github.com/Faultbox/animseq/internal/config"
	"github.com/Faultbox/animseq/internal/control"
	"github.com/Faultbox/animseq/internal/game/world"
	"github.com/Faultbox/animseq/internal/locomotion"
)

func TestParseScriptDefaults(t *testing.T) {
	s, err := ParseScript(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultStep, s.Step)
	assert.Equal(t, defaultDuration, s.Duration)
	assert.Empty(t, s.Events)
	assert.Equal(t, 300, s.Frames())
}

func TestParseScriptSortsEvents(t *testing.T) {
	s, err := ParseScript([]byte(`
step: 0.1
duration: 3
events:
  - {at: 2.0, release: forward}
  - {at: 0.5, press: forward}
  - {at: 2.0, gesture: tap}
`))
	require.NoError(t, err)
	require.Len(t, s.Events, 3)

	assert.Equal(t, control.Press(control.KeyForward), s.Events[0].event)
	assert.Equal(t, control.Release(control.KeyForward), s.Events[1].event)
	assert.Equal(t, control.Event{Type: control.EventTap}, s.Events[2].event)
	assert.Equal(t, 30, s.Frames())
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown field", "speed: 2\n"},
		{"unknown key", "events: [{at: 1, press: fly}]\n"},
		{"unknown gesture", "events: [{at: 1, gesture: swipe}]\n"},
		{"two actions", "events: [{at: 1, press: jump, release: jump}]\n"},
		{"no action", "events: [{at: 1}]\n"},
		{"negative time", "events: [{at: -1, press: jump}]\n"},
		{"negative step", "step: -0.1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDue(t *testing.T) {
	s, err := ParseScript([]byte(`
events:
  - {at: 0, press: forward}
  - {at: 0.25, press: jump}
  - {at: 1, release: forward}
`))
	require.NoError(t, err)

	due, next := s.Due(0, 0.1)
	assert.Equal(t, []control.Event{control.Press(control.KeyForward)}, due)
	assert.Equal(t, 1, next)

	due, next = s.Due(next, 0.2)
	assert.Empty(t, due)
	assert.Equal(t, 1, next)

	due, next = s.Due(next, 5)
	assert.Len(t, due, 2)
	assert.Equal(t, 3, next)
}

func TestSimulateWalkThenAttack(t *testing.T) {
	w, err := world.New(config.Default())
	require.NoError(t, err)
	s, err := ParseScript([]byte(`
step: 0.03333333
duration: 4
events:
  - {at: 0.1, press: forward}
  - {at: 1.0, release: forward}
  - {at: 1.5, press: attack}
`))
	require.NoError(t, err)

	var out bytes.Buffer
	snap := simulate(&out, w, s)

	text := out.String()
	assert.Contains(t, text, "start       idle1")
	assert.Contains(t, text, "started     walk (loop) after idle1")
	assert.Contains(t, text, "action queued attack1SwipeAxe")
	assert.Contains(t, text, "started     attack1SwipeAxe (continue)")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(text[strings.LastIndex(text, "Final:"):]), "Final: idle1"))
	assert.Equal(t, locomotion.StateIdle, snap.Locomotion)
}

func TestPrintRanges(t *testing.T) {
	clip, err := assets.Clip("dwarf")
	require.NoError(t, err)
	player, err := clip.Build()
	require.NoError(t, err)

	var out bytes.Buffer
	printRanges(&out, clip, player)
	text := out.String()

	assert.Contains(t, text, "Clip:     dwarf1")
	assert.Contains(t, text, "Frames:   660")
	assert.Contains(t, text, "breakpoint 126")
	assert.Equal(t, 21, strings.Count(text, " frames"))
}
