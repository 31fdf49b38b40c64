// Package assets embeds the clip definitions shipped with the demos.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Faultbox/animseq/internal/anim"
)

//go:embed clips/*
var clipFS embed.FS

var (
	indexOnce sync.Once
	index     map[string]string // clip name -> file name
)

func buildIndex() {
	index = make(map[string]string)
	entries, err := fs.ReadDir(clipFS, "clips")
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		index[name] = e.Name()
	}
}

// Names lists the embedded clips.
func Names() []string {
	indexOnce.Do(buildIndex)
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClipData returns the raw bytes and file extension of an embedded clip.
func ClipData(name string) ([]byte, string, error) {
	indexOnce.Do(buildIndex)
	file, ok := index[name]
	if !ok {
		return nil, "", fmt.Errorf("clip not found: %s", name)
	}
	data, err := clipFS.ReadFile(path.Join("clips", file))
	if err != nil {
		return nil, "", err
	}
	return data, path.Ext(file), nil
}

// Clip parses an embedded clip.
func Clip(name string) (*anim.Clip, error) {
	data, ext, err := ClipData(name)
	if err != nil {
		return nil, err
	}
	clip, err := anim.ParseClip(data, ext)
	if err != nil {
		return nil, fmt.Errorf("embedded clip %s: %w", name, err)
	}
	return clip, nil
}

// LoadClip resolves ref as an embedded clip name first and as a file path
// otherwise.
func LoadClip(ref string) (*anim.Clip, error) {
	indexOnce.Do(buildIndex)
	if _, ok := index[ref]; ok {
		return Clip(ref)
	}
	return anim.LoadClip(ref)
}
