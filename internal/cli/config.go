package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cellwarp/cellwarp/pkg/errors"
	"github.com/cellwarp/cellwarp/pkg/noise"
	"github.com/cellwarp/cellwarp/pkg/pipeline"
)

// Cache backend names accepted in config and flags.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// defaultListen is the default HTTP listen address for the serve command.
const defaultListen = ":8080"

// Config holds settings loaded from the optional TOML config file.
// Command-line flags override config values, which override built-in
// defaults.
type Config struct {
	Seed        uint64   `toml:"seed"`
	Points      int      `toml:"points"`
	Scale       float64  `toml:"scale"`
	Frequency   float64  `toml:"frequency"`
	Octaves     int      `toml:"octaves"`
	Persistence float64  `toml:"persistence"`
	Lacunarity  float64  `toml:"lacunarity"`
	Width       int      `toml:"width"`
	Height      int      `toml:"height"`
	Formats     []string `toml:"formats"`

	Cache CacheConfig `toml:"cache"`
	Serve ServeConfig `toml:"serve"`
}

// CacheConfig selects and configures the artifact cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Listen string `toml:"listen"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Seed:        pipeline.DefaultSeed,
		Points:      pipeline.DefaultPoints,
		Scale:       pipeline.DefaultScale,
		Frequency:   pipeline.DefaultFrequency,
		Octaves:     noise.DefaultParams().Octaves,
		Persistence: noise.DefaultParams().Persistence,
		Lacunarity:  noise.DefaultParams().Lacunarity,
		Width:       pipeline.DefaultWidth,
		Height:      pipeline.DefaultHeight,
		Formats:     []string{pipeline.FormatSVG},
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Serve: ServeConfig{
			Listen: defaultListen,
		},
	}
}

// LoadConfig loads the config file at path on top of the defaults. An
// empty path falls back to the standard location, and a missing file is
// not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the loaded settings for values the pipeline would
// reject later with a less helpful message.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case cacheBackendFile, cacheBackendRedis, cacheBackendNone:
	default:
		return fmt.Errorf("invalid cache backend: %s (must be 'file', 'redis', or 'none')", c.Cache.Backend)
	}
	if c.Cache.Backend == cacheBackendRedis {
		if err := errors.ValidateRedisAddr(c.Cache.RedisAddr); err != nil {
			return err
		}
	}
	for _, f := range c.Formats {
		if err := pipeline.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the config into pipeline options. Validation and
// defaulting happen later in the pipeline itself.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		Seed:        c.Seed,
		Points:      c.Points,
		Scale:       c.Scale,
		Frequency:   c.Frequency,
		Octaves:     c.Octaves,
		Persistence: c.Persistence,
		Lacunarity:  c.Lacunarity,
		Formats:     c.Formats,
		Width:       c.Width,
		Height:      c.Height,
	}
}

// configPath returns the config file location using XDG standard
// (~/.config/cellwarp/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
