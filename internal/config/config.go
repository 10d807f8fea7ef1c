// Package config handles TOML settings loading with defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config is the root settings structure.
type Config struct {
	Player  PlayerConfig  `toml:"player"`
	Library LibraryConfig `toml:"library"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// PlayerConfig selects which driver implementation runs playback.
type PlayerConfig struct {
	Executable string `toml:"executable"`
	Type       string `toml:"type"` // mpv_native, vlc_rc, noop
}

// LibraryConfig holds library scanning settings.
type LibraryConfig struct {
	Root string `toml:"root"` // default root for `cue scan`
}

// StorageConfig holds the data file locations.
type StorageConfig struct {
	Sessions string `toml:"sessions"`
	History  string `toml:"history"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "cue", "config.toml")
}

// Load reads the settings file at path. A missing file yields the
// defaults, not an error; a present but malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Player.Executable == "" {
		c.Player.Executable = "mpv"
	}
	if c.Player.Type == "" {
		c.Player.Type = "mpv_native"
	}
	if c.Storage.Sessions == "" {
		c.Storage.Sessions = filepath.Join(xdg.DataHome, "cue", "sessions.json")
	}
	if c.Storage.History == "" {
		c.Storage.History = filepath.Join(xdg.DataHome, "cue", "history.db")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	switch c.Player.Type {
	case "mpv_native", "vlc_rc", "noop":
	default:
		return fmt.Errorf("unknown player type %q (valid: mpv_native, vlc_rc, noop)", c.Player.Type)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	return nil
}
