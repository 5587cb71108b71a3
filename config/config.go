// Package config handles the user-editable player configuration: a TOML
// file under the game base directory, with an environment variable
// overlay on top for quick override during development.
package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/FoolCoder-code/Nitro-Express/filesystem"
)

// File is the default config file name under the game base directory.
const File = "config.toml"

const (
	DefaultWidth  = 1600
	DefaultHeight = 900
	DefaultMaxFPS = 60

	// text display speed is a 0..100 slider, 50 is the authored pace.
	MinTextSpeed     = 0
	MaxTextSpeed     = 100
	DefaultTextSpeed = 50

	// seconds a finished line stays on screen in auto mode, at slider 50.
	baseAutoDelay = 0.8
)

// Config is the top-level configuration. TOML keys follow the file the
// user edits, env tags allow NITRO_* overrides.
type Config struct {
	Language  string `toml:"language" env:"NITRO_LANGUAGE"`
	Width     int    `toml:"width" env:"NITRO_WIDTH"`
	Height    int    `toml:"height" env:"NITRO_HEIGHT"`
	MaxFPS    int    `toml:"max_fps" env:"NITRO_MAX_FPS"`
	TextSpeed int    `toml:"text_display_speed" env:"NITRO_TEXT_SPEED"`
	SkipRead  bool   `toml:"skip_read_text_only" env:"NITRO_SKIP_READ_ONLY"`

	LogFile  string `toml:"log_file" env:"NITRO_LOG_FILE"`
	LogLevel string `toml:"log_level" env:"NITRO_LOG_LEVEL"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		Language:  "en",
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		MaxFPS:    DefaultMaxFPS,
		TextSpeed: DefaultTextSpeed,
		SkipRead:  true,
		LogFile:   "nitro-express.log",
		LogLevel:  "info",
	}
}

// ErrDefaultConfigGenerated tells the caller LoadOrDefault found no
// config file and wrote the default one. The returned Config is usable.
var ErrDefaultConfigGenerated = errors.New("config: default file generated")

// LoadOrDefault reads the config file through fs, or generates the
// default file when none exists, returning ErrDefaultConfigGenerated.
// Environment overrides apply in both cases.
func LoadOrDefault(fs filesystem.FileSystem, file string) (*Config, error) {
	if !fs.Exist(file) {
		c := Default()
		if err := c.overlayEnv(); err != nil {
			return nil, err
		}
		c.Normalize()
		if err := c.Save(fs, file); err != nil {
			return nil, fmt.Errorf("config: can not generate %s: %w", file, err)
		}
		return c, ErrDefaultConfigGenerated
	}

	r, err := fs.Load(file)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", file, err)
	}
	defer r.Close()
	c, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", file, err)
	}
	if err := c.overlayEnv(); err != nil {
		return nil, err
	}
	c.Normalize()
	return c, nil
}

// Decode parses TOML from r on top of the defaults, without the env
// overlay.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	if _, err := toml.NewDecoder(r).Decode(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) overlayEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: environment overlay: %w", err)
	}
	return nil
}

// Save writes the config as TOML through fs.
func (c *Config) Save(fs filesystem.FileSystem, file string) error {
	w, err := fs.Store(file)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Normalize clamps out-of-range values instead of rejecting the file.
func (c *Config) Normalize() {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.MaxFPS <= 0 {
		c.MaxFPS = DefaultMaxFPS
	}
	if c.TextSpeed < MinTextSpeed {
		c.TextSpeed = MinTextSpeed
	}
	if c.TextSpeed > MaxTextSpeed {
		c.TextSpeed = MaxTextSpeed
	}
	if c.Language == "" {
		c.Language = "en"
	}
}

// CPSScale maps the 0..100 text speed slider onto a character rate
// multiplier: 0.0 at the bottom, 1.0 at the middle, 2.0 at the top.
func (c *Config) CPSScale() float64 {
	return 1.0 + float64(c.TextSpeed-DefaultTextSpeed)/50.0
}

// AutoDelay is how long auto mode waits after a line finishes before
// advancing, shrinking as the text speed grows.
func (c *Config) AutoDelay() float64 {
	scale := c.CPSScale()
	if scale <= 0 {
		scale = 0.02
	}
	return baseAutoDelay / scale
}
