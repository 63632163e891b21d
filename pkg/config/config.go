// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the optional yel configuration file and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/yeetrun/yel/pkg/vars"
)

const (
	EnvConfig   = "YEL_CONFIG"
	EnvDebug    = "YEL_DEBUG"
	EnvStrict   = "YEL_STRICT"
	EnvLogLevel = "YEL_LOG_LEVEL"
	EnvNoColor  = "NO_COLOR"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Debug    bool              `toml:"debug"`
	Strict   bool              `toml:"strict"`
	LogLevel string            `toml:"log_level"`
	Color    string            `toml:"color"`
	Aliases  map[string]string `toml:"aliases"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{LogLevel: "warn", Color: ColorAuto}
}

// Load reads the configuration file and applies environment overrides on
// top of it. A missing file at the default location is not an error; a
// missing file named by YEL_CONFIG is.
func Load(env vars.Store) (*Config, error) {
	path, explicit := Path(env)
	return load(env, path, explicit)
}

// LoadFrom is Load with an explicit configuration file, which must exist.
func LoadFrom(env vars.Store, path string) (*Config, error) {
	return load(env, path, true)
}

func load(env vars.Store, path string, explicit bool) (*Config, error) {
	cfg := Default()
	if path != "" {
		err := cfg.decodeFile(path)
		switch {
		case err == nil:
			cfg.Path = path
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, err
		}
	}
	cfg.applyEnv(env)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the configuration file location and whether it was set
// explicitly through YEL_CONFIG.
func Path(env vars.Store) (path string, explicit bool) {
	if p, ok := env.Lookup(EnvConfig); ok && p != "" {
		return p, true
	}
	if dir, ok := env.Lookup("XDG_CONFIG_HOME"); ok && dir != "" {
		return filepath.Join(dir, "yel", "config.toml"), false
	}
	if home, ok := env.Lookup("HOME"); ok && home != "" {
		return filepath.Join(home, ".config", "yel", "config.toml"), false
	}
	return "", false
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv(env vars.Store) {
	if v, ok := env.Lookup(EnvDebug); ok {
		c.Debug = Truthy(v)
	}
	if v, ok := env.Lookup(EnvStrict); ok {
		c.Strict = Truthy(v)
	}
	if v, ok := env.Lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := env.Lookup(EnvNoColor); ok && v != "" {
		c.Color = ColorNever
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q, want auto, always or never", c.Color)
	}
	for name, target := range c.Aliases {
		if name == "" || target == "" {
			return fmt.Errorf("invalid alias %q = %q", name, target)
		}
		if strings.TrimPrefix(name, "@") == target {
			return fmt.Errorf("alias %q points at itself", name)
		}
	}
	return nil
}

// Level returns the parsed log level. Debug mode always logs at debug
// level.
func (c *Config) Level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Truthy interprets an environment flag: anything but the empty string,
// 0, false, no and off is true.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}
