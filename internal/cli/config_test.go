package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cellwarp/cellwarp/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Seed != pipeline.DefaultSeed {
		t.Errorf("Seed = %d, want %d", cfg.Seed, pipeline.DefaultSeed)
	}
	if cfg.Points != pipeline.DefaultPoints {
		t.Errorf("Points = %d, want %d", cfg.Points, pipeline.DefaultPoints)
	}
	if cfg.Scale != pipeline.DefaultScale {
		t.Errorf("Scale = %v, want %v", cfg.Scale, pipeline.DefaultScale)
	}
	if cfg.Cache.Backend != cacheBackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, cacheBackendFile)
	}
	if cfg.Serve.Listen != defaultListen {
		t.Errorf("Serve.Listen = %q, want %q", cfg.Serve.Listen, defaultListen)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
seed = 99
points = 50
scale = 0.1
formats = ["svg", "png"]

[cache]
backend = "none"

[serve]
listen = ":9090"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}
	if cfg.Points != 50 {
		t.Errorf("Points = %d, want 50", cfg.Points)
	}
	if cfg.Scale != 0.1 {
		t.Errorf("Scale = %v, want 0.1", cfg.Scale)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[1] != "png" {
		t.Errorf("Formats = %v, want [svg png]", cfg.Formats)
	}
	if cfg.Cache.Backend != cacheBackendNone {
		t.Errorf("Cache.Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.Serve.Listen != ":9090" {
		t.Errorf("Serve.Listen = %q, want :9090", cfg.Serve.Listen)
	}

	// Unset fields keep their defaults.
	if cfg.Frequency != pipeline.DefaultFrequency {
		t.Errorf("Frequency = %v, want default %v", cfg.Frequency, pipeline.DefaultFrequency)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() with no file should not error, got %v", err)
	}
	if cfg.Seed != pipeline.DefaultSeed {
		t.Errorf("missing config should yield defaults, got seed %d", cfg.Seed)
	}
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing config path should error")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Defaults", func(c *Config) {}, false},
		{"RedisBackend", func(c *Config) {
			c.Cache.Backend = cacheBackendRedis
			c.Cache.RedisAddr = "localhost:6379"
		}, false},
		{"UnknownBackend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"RedisBadAddr", func(c *Config) {
			c.Cache.Backend = cacheBackendRedis
			c.Cache.RedisAddr = "not-an-addr"
		}, true},
		{"BadFormat", func(c *Config) { c.Formats = []string{"gif"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Points = 12

	opts := cfg.Options()
	if opts.Seed != 7 || opts.Points != 12 {
		t.Errorf("Options() = seed %d points %d, want 7/12", opts.Seed, opts.Points)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("config-derived options should validate, got %v", err)
	}
}

func TestConfigPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath() error: %v", err)
	}
	want := filepath.Join("/tmp/custom-config", appName, "config.toml")
	if path != want {
		t.Errorf("configPath() = %q, want %q", path, want)
	}
}
