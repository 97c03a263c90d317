package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/neurobeats/internal/task"
)

const appName = "neurobeats"

type Config struct {
	FadeDuration       time.Duration `koanf:"fade_duration"`       // e.g. "1s" (default: 1s)
	FadeSteps          int           `koanf:"fade_steps"`          // samples per fade (default: 20)
	Volume             *float64      `koanf:"volume"`              // initial level 0.0-1.0 (default: 0.5)
	LoadTimeout        time.Duration `koanf:"load_timeout"`        // 0 disables (default: 0)
	RequireInteraction bool          `koanf:"require_interaction"` // hold playback until a key press
	TracksDir          string        `koanf:"tracks_dir"`          // base for relative catalog tracks

	// Per-task track overrides, keyed by task id (math, reading, ...).
	Tracks map[string]string `koanf:"tracks"`

	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`

	Icons string `koanf:"icons"` // "nerd", "unicode", "none" (default: "unicode")

	Notifications *bool `koanf:"notifications"` // desktop notifications on task change (default: true)
	MPRIS         *bool `koanf:"mpris"`         // media key integration (default: true)

	// Remember restores the last volume and focused task on startup (default: true).
	Remember  *bool  `koanf:"remember"`
	StateFile string `koanf:"state_file"` // preference database (default: xdg data dir)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File  string `koanf:"file"`  // log file used while the TUI owns the terminal
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	Listen string `koanf:"listen"` // e.g. "127.0.0.1:9464"; empty disables
}

// SessionConfig is the controller tuning with defaults applied.
type SessionConfig struct {
	FadeDuration time.Duration
	FadeSteps    int
	Volume       float64
	LoadTimeout  time.Duration
}

// Load reads configuration. With an explicit path only that file is read and
// it must exist. Otherwise the xdg config file and ./config.toml are read in
// that order, last wins, and missing files are skipped.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else {
		for _, p := range getConfigPaths() {
			if _, err := os.Stat(p); err == nil {
				if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
					return nil, fmt.Errorf("load %s: %w", p, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.TracksDir != "" {
		cfg.TracksDir = expandPath(cfg.TracksDir)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	if cfg.StateFile != "" {
		cfg.StateFile = expandPath(cfg.StateFile)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/neurobeats/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetSessionConfig returns the controller tuning with defaults applied.
func (c *Config) GetSessionConfig() SessionConfig {
	cfg := SessionConfig{
		FadeDuration: c.FadeDuration,
		FadeSteps:    c.FadeSteps,
		Volume:       0.5,
		LoadTimeout:  c.LoadTimeout,
	}

	// Apply defaults
	if cfg.FadeDuration <= 0 {
		cfg.FadeDuration = time.Second
	}
	if cfg.FadeSteps <= 0 || cfg.FadeSteps > 1000 {
		cfg.FadeSteps = 20
	}
	if c.Volume != nil && *c.Volume >= 0 && *c.Volume <= 1 {
		cfg.Volume = *c.Volume
	}
	if cfg.LoadTimeout < 0 {
		cfg.LoadTimeout = 0
	}

	return cfg
}

// TrackOverrides parses the [tracks] table. Keys are task ids; local paths
// get ~ expanded.
func (c *Config) TrackOverrides() (map[task.Task]task.TrackRef, error) {
	out := make(map[task.Task]task.TrackRef, len(c.Tracks))
	var errs []error
	for key, ref := range c.Tracks {
		t, err := task.Parse(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("tracks.%s: %w", key, err))
			continue
		}
		r := task.TrackRef(strings.TrimSpace(ref))
		if !r.IsRemote() {
			r = task.TrackRef(expandPath(string(r)))
		}
		out[t] = r
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// NotificationsEnabled returns true unless notifications are turned off.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// MPRISEnabled returns true unless the MPRIS integration is turned off.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// RememberEnabled reports whether preferences persist between runs.
func (c *Config) RememberEnabled() bool {
	return c.Remember == nil || *c.Remember
}

// HasMetricsConfig returns true if the metrics endpoint is configured.
func (c *Config) HasMetricsConfig() bool {
	return c.Metrics.Listen != ""
}

// IconStyle returns the configured icon style, "unicode" when unset.
func (c *Config) IconStyle() string {
	if c.Icons == "" {
		return "unicode"
	}
	return c.Icons
}

// LogLevel returns the configured level name, "info" when unset.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}
