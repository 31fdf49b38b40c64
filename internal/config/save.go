package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfigPath is the config file under ConfigDir that Load falls back to
// and Save writes.
func UserConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Save writes the config to UserConfigPath.
func (c *Config) Save() error {
	return c.SaveTo(UserConfigPath())
}

// SaveTo validates the config and writes it to path. The file is replaced
// through a temporary sibling so a failed write keeps the previous config.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// RememberClip makes ref the default clip in the user config file. Only the
// file is read and written, so flag overrides of the running process are not
// persisted.
func RememberClip(ref string) error {
	return rememberClip(UserConfigPath(), ref)
}

func rememberClip(path, ref string) error {
	cfg, err := LoadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	case err != nil:
		return err
	}
	if cfg.Animation.Clip == ref {
		return nil
	}
	cfg.Animation.Clip = ref
	return cfg.SaveTo(path)
}
