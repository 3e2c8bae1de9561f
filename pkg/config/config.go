// Package config loads wiresep settings from a TOML or YAML file and the
// environment.
//
// Values are layered: built-in defaults, then the file, then WIRESEP_*
// environment variables. Command-line flags are applied by the caller on
// top of the result.
//
//	[declutter]
//	max_segment_separation = 7.0
//	min_nub_length = 2.0
//
//	[corners]
//	enabled = true
//	max_corner_size = 30.0
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/wiresep/pkg/cache"
	"github.com/matzehuels/wiresep/pkg/corner"
	"github.com/matzehuels/wiresep/pkg/declutter"
	errs "github.com/matzehuels/wiresep/pkg/errors"
)

// Environment variables read by Load.
const (
	EnvSeparation   = "WIRESEP_SEPARATION"
	EnvCacheBackend = "WIRESEP_CACHE_BACKEND"
	EnvRedisURL     = "WIRESEP_REDIS_URL"
)

// DefaultCacheTTL is how long cached results are kept.
const DefaultCacheTTL = 24 * time.Hour

// Config is the complete wiresep configuration.
type Config struct {
	Declutter declutter.Options `toml:"declutter" yaml:"declutter"`
	Corners   Corners           `toml:"corners" yaml:"corners"`
	Cache     Cache             `toml:"cache" yaml:"cache"`
	Server    Server            `toml:"server" yaml:"server"`
}

// Corners configures the corner-removal pass.
type Corners struct {
	Enabled       bool    `toml:"enabled" yaml:"enabled"`
	MaxCornerSize float64 `toml:"max_corner_size" yaml:"max_corner_size"`
}

// Options returns the corner package options.
func (c Corners) Options() corner.Options {
	return corner.Options{MaxCornerSize: c.MaxCornerSize}
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend  string   `toml:"backend" yaml:"backend"`
	Dir      string   `toml:"dir" yaml:"dir"`
	RedisURL string   `toml:"redis_url" yaml:"redis_url"`
	Prefix   string   `toml:"prefix" yaml:"prefix"`
	TTL      Duration `toml:"ttl" yaml:"ttl"`
}

// Server configures `wiresep serve`.
type Server struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Duration is a time.Duration written as a string such as "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Declutter: declutter.DefaultOptions(),
		Corners:   Corners{MaxCornerSize: corner.DefaultMaxCornerSize},
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     Duration{DefaultCacheTTL},
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load returns the configuration read from path, or the defaults when path
// is empty, with environment overrides applied and validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeNotFound, err, "read config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "config %s: unsupported format (want .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvSeparation); v != "" {
		sep, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s", EnvSeparation)
		}
		c.SetSeparation(sep)
	}
	if v := os.Getenv(EnvCacheBackend); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	return nil
}

// SetSeparation changes the segment separation.
func (c *Config) SetSeparation(sep float64) {
	c.Declutter.MaxSegmentSeparation = sep
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Declutter.Validate(); err != nil {
		return err
	}
	if c.Corners.Enabled {
		if err := c.Corners.Options().Validate(); err != nil {
			return err
		}
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache backend redis needs redis_url or %s", EnvRedisURL)
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	return nil
}
