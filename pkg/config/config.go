// Package config loads docktree settings from a TOML file.
//
// A missing file is not an error: every setting has a default, so a fresh
// install works without any configuration.
//
//	[bounds]
//	width = 1600
//	height = 900
//
//	[store]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "720h"
//
//	[log]
//	level = "debug"
//
//	[server]
//	addr = ":8080"
//	metrics = true
package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/docktree/pkg/cache"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
)

const appName = "docktree"

// Store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config holds all settings.
type Config struct {
	Bounds geom.Rect `toml:"bounds"`
	Store  Store     `toml:"store"`
	Log    Log       `toml:"log"`
	Server Server    `toml:"server"`
}

// Store selects and configures the layout store backend.
type Store struct {
	Backend string `toml:"backend"`

	// Dir is the directory of the file backend. Empty means the user cache
	// directory.
	Dir string `toml:"dir"`

	RedisURL        string `toml:"redis_url"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	// Scope prefixes every key, so several users can share one backend.
	Scope string `toml:"scope"`

	// TTL expires stored layouts. Zero keeps them forever.
	TTL Duration `toml:"ttl"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `toml:"level"`
}

// Server configures docktree serve.
type Server struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
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
	return []byte(d.String()), nil
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Bounds: geom.Rect{Width: 1600, Height: 900},
		Store: Store{
			Backend:         BackendFile,
			MongoDatabase:   appName,
			MongoCollection: "layouts",
		},
		Log:    Log{Level: "info"},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/docktree/config.toml, falling back to
// ~/.config/docktree/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path on top of the defaults. A missing file gives the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks that the settings can be used.
func (c *Config) Validate() error {
	if !c.Bounds.Valid() || c.Bounds.Empty() {
		return errors.New(errors.ErrCodeInvalidInput, "config: bounds must have a positive size")
	}
	switch c.Store.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "config: store.redis_url is required for the redis backend")
		}
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "config: store.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "config: unknown store backend %q", c.Store.Backend)
	}
	if c.Store.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "config: store.ttl cannot be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "config: log.level")
	}
	return nil
}

// LogLevel returns the configured level, info if it does not parse.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Open connects the configured backend.
func (s Store) Open(ctx context.Context) (cache.Cache, error) {
	switch s.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		c, err := cache.NewRedisCache(ctx, s.RedisURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		c, err := cache.NewMongoCache(ctx, s.MongoURI, s.MongoDatabase, s.MongoCollection)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		dir := s.Dir
		if dir == "" {
			var err error
			if dir, err = StoreDir(); err != nil {
				return nil, err
			}
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Keyer returns the key scheme for the configured scope.
func (s Store) Keyer() cache.Keyer {
	if s.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, s.Scope+":")
}

// StoreDir returns the default file store directory using the XDG standard
// (~/.cache/docktree/layouts).
func StoreDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName, "layouts"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName, "layouts"), nil
}
