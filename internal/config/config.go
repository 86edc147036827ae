package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of castle.yaml. Every section is optional.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Scene   SceneConfig   `yaml:"scene"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Audio   AudioConfig   `yaml:"audio"`
}

type WindowConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Title      string  `yaml:"title"`
	VSync      *bool   `yaml:"vsync"`
	ScrollStep float64 `yaml:"scroll_step"` // scroll units per wheel notch
}

type SceneConfig struct {
	Seed        uint64   `yaml:"seed"`
	Layers      int      `yaml:"layers"`
	Bridges     int      `yaml:"bridges"`
	PointLights int      `yaml:"point_lights"`
	Lanterns    int      `yaml:"lanterns"`
	Houses      int      `yaml:"houses"`
	Particles   int      `yaml:"particles"`
	Themes      []string `yaml:"themes"` // subset and order of the built-in worlds, by name

	PhysicsIntervalMS int `yaml:"physics_interval_ms"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the /metrics endpoint
}

type AudioConfig struct {
	Enabled *bool   `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

const (
	EnvConfig = "CASTLE_CONFIG"
	EnvSeed   = "CASTLE_SEED"

	DefaultWidth      = 1280
	DefaultHeight     = 800
	DefaultTitle      = "Castle"
	DefaultScrollStep = 120.0
	DefaultVolume     = 0.25
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML file. With an empty path it falls back to $CASTLE_CONFIG,
// and with neither it returns the defaults. CASTLE_SEED overrides scene.seed.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if s := os.Getenv(EnvSeed); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Scene.Seed = v
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Window.Width <= 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height <= 0 {
		c.Window.Height = DefaultHeight
	}
	if c.Window.Title == "" {
		c.Window.Title = DefaultTitle
	}
	if c.Window.VSync == nil {
		c.Window.VSync = boolPtr(true)
	}
	if c.Window.ScrollStep <= 0 {
		c.Window.ScrollStep = DefaultScrollStep
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Audio.Enabled == nil {
		c.Audio.Enabled = boolPtr(true)
	}
	if c.Audio.Volume <= 0 || c.Audio.Volume > 1 {
		c.Audio.Volume = DefaultVolume
	}
}

// SeedOrClock returns the configured seed, or one taken from the clock when unset.
func (c *Config) SeedOrClock() uint64 {
	if c.Scene.Seed != 0 {
		return c.Scene.Seed
	}
	return uint64(time.Now().UnixNano())
}

// PhysicsInterval is zero when the config leaves the default in place.
func (s SceneConfig) PhysicsInterval() time.Duration {
	if s.PhysicsIntervalMS <= 0 {
		return 0
	}
	return time.Duration(s.PhysicsIntervalMS) * time.Millisecond
}

func boolPtr(v bool) *bool { return &v }
