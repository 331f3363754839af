// Package config loads the quill command-line configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "quill.toml"

// Config holds the CLI settings.
type Config struct {
	Color    string       `toml:"color"`     // auto, always, never
	Format   string       `toml:"format"`    // json, yaml
	LogLevel string       `toml:"log_level"` // debug, info, warn, error
	Render   RenderConfig `toml:"render"`
}

// RenderConfig holds diagnostic rendering settings.
type RenderConfig struct {
	Context bool `toml:"context"` // show the lines around an error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Color:    "auto",
		Format:   "json",
		LogLevel: "warn",
		Render:   RenderConfig{Context: true},
	}
}

// Load loads configuration from a TOML file. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads path if given; otherwise DefaultFile if it exists, or the
// defaults.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}
	return Default(), nil
}

// Validate rejects unknown enum values.
func (c *Config) Validate() error {
	var errs []error
	switch c.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("color must be auto, always or never, got %q", c.Color))
	}
	switch c.Format {
	case "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("format must be json or yaml, got %q", c.Format))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return level, nil
}

// UseColor decides whether output should be colored, given whether the
// destination is a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return terminal
}
