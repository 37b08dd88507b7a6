// Package config loads gridkit settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/gridkit/config.toml (falling back to
// ~/.config/gridkit/config.toml). A missing default file is not an error:
// [Default] values apply. Unknown keys are rejected so typos surface early.
//
//	[theme]
//	grid = "#94a3b8"
//
//	[cache]
//	backend = "redis"      # file | redis | none
//	ttl = "168h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	request_timeout = "30s"
//
//	[presets]
//	backend = "mongo"      # file | mongo
//
//	[presets.mongo]
//	uri = "mongodb://localhost:27017"
//	database = "gridkit"
//
// # Environment
//
// GRIDKIT_REDIS_ADDR and GRIDKIT_MONGO_URI override the connection settings
// and switch the corresponding backend on.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridkit/pkg/cache"
	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/pipeline"
)

// AppName names the config and cache directories.
const AppName = "gridkit"

// Environment variables that override file settings.
const (
	EnvRedisAddr = "GRIDKIT_REDIS_ADDR"
	EnvMongoURI  = "GRIDKIT_MONGO_URI"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Preset store backends.
const (
	PresetsFile  = "file"
	PresetsMongo = "mongo"
)

// Config is the complete gridkit configuration.
type Config struct {
	Theme   grid.Theme   `toml:"theme"`
	Render  RenderConfig `toml:"render"`
	Cache   CacheConfig  `toml:"cache"`
	Server  ServerConfig `toml:"server"`
	Presets PresetConfig `toml:"presets"`
}

// RenderConfig holds defaults for render requests.
type RenderConfig struct {
	Type       grid.GridType `toml:"type"`
	Background string        `toml:"background"`

	// MaxElements caps the elements one render may generate. Negative
	// disables the cap.
	MaxElements int `toml:"max_elements"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Redis   RedisConfig   `toml:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// PresetConfig selects and configures the preset store.
type PresetConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig configures the MongoDB preset backend.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Theme:  grid.DefaultTheme(),
		Render: RenderConfig{Type: pipeline.DefaultGridType, MaxElements: pipeline.DefaultMaxElements},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     cache.TTLArtifact,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: AppName + ":"},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   60 * time.Second,
			RequestTimeout: 30 * time.Second,
		},
		Presets: PresetConfig{
			Backend: PresetsFile,
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: AppName},
		},
	}
}

// Load reads the config file at path, or the default path when path is
// empty. A missing default file yields [Default]; a missing explicit file is
// an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case os.IsNotExist(err) && !explicit:
		// no config file: defaults
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		c.Cache.Backend = CacheRedis
		c.Cache.Redis.Addr = addr
	}
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		c.Presets.Backend = PresetsMongo
		c.Presets.Mongo.URI = uri
	}
}

// Validate checks backends, colours and durations.
func (c *Config) Validate() error {
	c.Theme = c.Theme.WithDefaults()
	if err := pipeline.ValidateTheme(c.Theme); err != nil {
		return err
	}
	if err := errors.ValidateColor(c.Render.Background); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	switch c.Presets.Backend {
	case PresetsFile, PresetsMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid presets backend %q (must be one of: file, mongo)", c.Presets.Backend)
	}
	if c.Presets.Backend == PresetsMongo && (c.Presets.Mongo.URI == "" || c.Presets.Mongo.Database == "") {
		return errors.New(errors.ErrCodeInvalidConfig, "presets.mongo.uri and presets.mongo.database are required for the mongo backend")
	}
	return nil
}

// CacheDir returns the artifact cache directory: cache.dir if set, else the
// XDG cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// PresetDir returns the preset directory: presets.dir if set, else
// <config dir>/presets.
func (c *Config) PresetDir() (string, error) {
	if c.Presets.Dir != "" {
		return c.Presets.Dir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets"), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Dir returns the config directory using XDG standard (~/.config/gridkit/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/gridkit/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
