// Package config loads the defaults the atable CLI starts from. Values come
// from the built-in defaults, then an optional YAML or TOML file; explicitly
// set command line flags are applied on top by the cmd package.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/atable/internal/rowreader"
	"github.com/oakwood-commons/atable/pkg/atable"
	"github.com/oakwood-commons/atable/pkg/settings"
	"github.com/oakwood-commons/atable/pkg/textwidth"
)

// Config holds every option the CLI accepts through a config file.
type Config struct {
	Delimiter       string `yaml:"delimiter" toml:"delimiter" json:"delimiter"`
	WidthMode       string `yaml:"width_mode" toml:"width_mode" json:"width_mode"`
	UnknownWidth    int    `yaml:"unknown_width" toml:"unknown_width" json:"unknown_width"`
	Header          bool   `yaml:"header" toml:"header" json:"header"`
	HeaderSeparator string `yaml:"header_separator" toml:"header_separator" json:"header_separator"`
	InputFormat     string `yaml:"input_format" toml:"input_format" json:"input_format"`
	Window          int    `yaml:"window" toml:"window" json:"window"`
	ScreenWindow    bool   `yaml:"screen_window" toml:"screen_window" json:"screen_window"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Delimiter:       atable.DefaultDelimiter,
		WidthMode:       textwidth.ModeVisual.String(),
		UnknownWidth:    -1,
		HeaderSeparator: atable.DefaultHeaderSeparator,
		InputFormat:     string(rowreader.FormatTSV),
	}
}

// Load reads path on top of the defaults. An empty path yields the defaults.
// Files ending in .toml are decoded as TOML, everything else as YAML (which
// also covers JSON). Values are not validated here: callers apply their
// overrides first and then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode toml config %s: %w", path, err)
		}
	} else if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode yaml config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate rejects values the table cannot be built from.
func (c Config) Validate() error {
	if _, err := textwidth.ParseMode(c.WidthMode); err != nil {
		return err
	}
	if _, err := rowreader.ParseFormat(c.InputFormat); err != nil {
		return err
	}
	if c.Window < 0 {
		return fmt.Errorf("window must be non-negative, got %d", c.Window)
	}
	if c.HeaderSeparator == "" {
		return fmt.Errorf("header_separator must not be empty")
	}
	return nil
}

// Measurer builds the width measurer the config describes.
func (c Config) Measurer() (textwidth.Measurer, error) {
	mode, err := textwidth.ParseMode(c.WidthMode)
	if err != nil {
		return nil, err
	}
	return textwidth.New(mode, textwidth.WithUnknownWidth(c.UnknownWidth)), nil
}

// Marshal encodes the config as yaml, toml or json.
func (c Config) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		return yaml.Marshal(c)
	case "toml":
		return toml.Marshal(c)
	case "json":
		out, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported config output %q (want yaml, toml or json)", format)
	}
}

// ResolvePath returns explicit if set, otherwise the first existing file of
// $XDG_CONFIG_HOME/atable/config.{yaml,toml} or ~/.config/atable/config.{yaml,toml}.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		candidate := filepath.Join(dir, settings.CliBinaryName, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
