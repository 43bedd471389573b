// Package config loads logle settings from a TOML or YAML file.
//
// The file format is chosen by extension (.toml, .yaml, .yml). Every section
// is optional; missing values keep their defaults and CLI flags override
// whatever the file sets.
//
//	[analysis]
//	analyzer = "mail"
//	csv_file = "access.csv"
//	format = "svg"
//
//	[cache]
//	dir = "/var/cache/logle"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "debug"
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/pipeline"
)

// Config is the full settings file.
type Config struct {
	Analysis pipeline.Options `toml:"analysis" yaml:"analysis"`
	Cache    Cache            `toml:"cache" yaml:"cache"`
	Server   Server           `toml:"server" yaml:"server"`
	Log      Log              `toml:"log" yaml:"log"`
}

// Cache selects and tunes the render cache.
type Cache struct {
	Disabled bool     `toml:"disabled" yaml:"disabled"`
	Dir      string   `toml:"dir" yaml:"dir"`
	RedisURL string   `toml:"redis_url" yaml:"redis_url" validate:"omitempty,url"`
	TTL      Duration `toml:"ttl" yaml:"ttl" validate:"gte=0"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Analysis: pipeline.Options{Format: pipeline.DefaultFormat},
		Cache:    Cache{TTL: Duration(pipeline.TTLRender)},
		Server:   Server{Addr: "localhost:8080"},
		Log:      Log{Level: "info"},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeExternal, err, "Error opening file: %s", path)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes data in the format named by ext over the defaults.
func Parse(ext string, data []byte) (Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid TOML config")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidArgument, "unknown config key %q", keys[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid YAML config")
		}
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidArgument, "unsupported config format %q: use .toml, .yaml or .yml", ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints. It does not validate the analysis
// section, which the pipeline checks when it runs.
func (c Config) Validate() error {
	for _, section := range []any{c.Cache, c.Server, c.Log} {
		if err := validate.Struct(section); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid config")
		}
	}
	return errors.ValidateFilePath("cache dir", c.Cache.Dir)
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	return d.UnmarshalText([]byte(n.Value))
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
