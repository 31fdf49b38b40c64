package anim

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrClipFormat is returned for clip files with an unknown extension.
var ErrClipFormat = errors.New("unsupported clip format")

// Clip is the authoring description of one animated mesh: its timeline and
// the named ranges carved out of it.
type Clip struct {
	Name         string     `yaml:"name" toml:"name"`
	Duration     float64    `yaml:"duration" toml:"duration"`
	FramesPerSec float64    `yaml:"frames_per_second" toml:"frames_per_second"`
	FrameCount   int        `yaml:"frame_count,omitempty" toml:"frame_count"`
	StartRange   string     `yaml:"start_range,omitempty" toml:"start_range"`
	Ranges       []RangeDef `yaml:"ranges" toml:"ranges"`
}

// RangeDef is one range entry of a clip file. A nil Breakpoint means the
// range may be left at its end frame.
type RangeDef struct {
	Name       string `yaml:"name" toml:"name"`
	Start      int    `yaml:"start" toml:"start"`
	End        int    `yaml:"end" toml:"end"`
	Breakpoint *int   `yaml:"breakpoint,omitempty" toml:"breakpoint"`
}

// LoadClip reads a clip from a .yaml, .yml or .toml file.
func LoadClip(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	clip, err := ParseClip(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("clip %s: %w", path, err)
	}
	return clip, nil
}

// ParseClip decodes clip data. format is a file extension with or without
// the leading dot.
func ParseClip(data []byte, format string) (*Clip, error) {
	var clip Clip
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&clip); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case "toml":
		md, err := toml.Decode(string(data), &clip)
		if err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decoding toml: unknown key %s", undecoded[0])
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrClipFormat, format)
	}
	return &clip, nil
}

// Build creates the timeline, registers and computes every range, and
// returns a player. When StartRange is set the player is already looping it.
func (c *Clip) Build() (*Player, error) {
	timeline, err := NewTimeline(c.Duration, c.FramesPerSec, c.FrameCount)
	if err != nil {
		return nil, err
	}

	table := NewRangeTable()
	for _, def := range c.Ranges {
		if def.Breakpoint != nil {
			err = table.AddWithBreakpoint(def.Name, def.Start, def.End, *def.Breakpoint)
		} else {
			err = table.Add(def.Name, def.Start, def.End)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := table.Compute(timeline); err != nil {
		return nil, err
	}

	player, err := NewPlayer(timeline, table)
	if err != nil {
		return nil, err
	}
	if c.StartRange != "" {
		if err := player.Play(c.StartRange); err != nil {
			return nil, fmt.Errorf("start range: %w", err)
		}
	}
	return player, nil
}
