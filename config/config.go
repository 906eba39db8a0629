package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Game install variants.
const (
	VariantB41 = "b41"
	VariantB42 = "b42"
)

// GameConfig locates the map files of a game installation.
type GameConfig struct {
	Variant  string            `yaml:"variant"`  // "b41" or "b42"
	Installs map[string]string `yaml:"installs"` // variant -> install directory
	Map      string            `yaml:"map"`      // e.g. "Muldraugh, KY"
	MapDir   string            `yaml:"map_dir"`  // overrides the install lookup when set
}

// MapsDir resolves the directory holding the .lotheader/.lotpack files.
func (g GameConfig) MapsDir() (string, error) {
	if g.MapDir != "" {
		return g.MapDir, nil
	}
	variant := strings.ToLower(g.Variant)
	install, ok := g.Installs[variant]
	if !ok || install == "" {
		return "", fmt.Errorf("no install path configured for game variant %q", g.Variant)
	}
	if g.Map == "" {
		return "", fmt.Errorf("no map name configured")
	}
	return filepath.Join(install, "media", "maps", g.Map), nil
}

// BatchConfig controls batch verification.
type BatchConfig struct {
	Workers int    `yaml:"workers"` // files verified concurrently; <= 0 means one per CPU
	Timeout string `yaml:"timeout"` // whole batch, e.g. "10m"; empty means none
}

// CacheConfig sizes the decoded header cache.
type CacheConfig struct {
	HeaderCacheCapacity int `yaml:"header_cache_capacity"`
}

// DumpConfig controls JSON debug dumps of decoded files.
type DumpConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Dir         string `yaml:"dir"`
	Compression string `yaml:"compression"` // "none", "snappy", "lz4", "zstd"
}

// RenderConfig holds defaults for the debug renderer.
type RenderConfig struct {
	Scale int   `yaml:"scale"`
	Layer int32 `yaml:"layer"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // e.g., "debug", "info", "warn", "error"
	Output string `yaml:"output"` // e.g., "stdout", "file", "none"
	File   string `yaml:"file"`   // Path to the log file, used if output is "file"
	Format string `yaml:"format"` // "json", "text" or "auto" (text on a terminal)
}

// TracingConfig holds configuration for distributed tracing.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // e.g., "localhost:4317" for gRPC OTLP collector
	Protocol string `yaml:"protocol"` // "grpc" or "http"
}

// DebugConfig holds the debug HTTP endpoint configuration.
type DebugConfig struct {
	Enabled        bool   `yaml:"enabled"`
	ListenAddress  string `yaml:"listen_address"`
	PProfEnabled   bool   `yaml:"pprof_enabled"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

type Config struct {
	Game    GameConfig    `yaml:"game"`
	Batch   BatchConfig   `yaml:"batch"`
	Cache   CacheConfig   `yaml:"cache"`
	Dump    DumpConfig    `yaml:"dump"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Debug   DebugConfig   `yaml:"debug"`
}

// ParseDuration parses a duration string, falling back to defaultDuration
// (with a warning) when it is empty or invalid.
func ParseDuration(durationStr string, defaultDuration time.Duration, logger *slog.Logger) time.Duration {
	if durationStr == "" || durationStr == "0" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		if logger != nil {
			logger.Warn("Invalid duration format, using default", "input", durationStr, "default", defaultDuration.String(), "error", err)
		}
		return defaultDuration
	}
	return d
}

// Load reads configuration from an io.Reader over the defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := &Config{
		Game: GameConfig{
			Variant: VariantB42,
			Installs: map[string]string{
				VariantB41: "C:/SteamLibrary/steamapps/common/ProjectZomboidB41",
				VariantB42: "C:/SteamLibrary/steamapps/common/ProjectZomboidB42",
			},
			Map: "Muldraugh, KY",
		},
		Batch: BatchConfig{
			Workers: 0,
		},
		Cache: CacheConfig{
			HeaderCacheCapacity: 256,
		},
		Dump: DumpConfig{
			Enabled:     false,
			Dir:         "./dump",
			Compression: "zstd",
		},
		Render: RenderConfig{
			Scale: 4,
			Layer: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stdout",
			Format: "auto",
		},
		Tracing: TracingConfig{
			Enabled:  false,
			Endpoint: "localhost:4317",
			Protocol: "grpc",
		},
		Debug: DebugConfig{
			Enabled:        false,
			ListenAddress:  "localhost:6060",
			PProfEnabled:   true,
			MetricsEnabled: true,
		},
	}

	if r == nil {
		return cfg, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data: %w", err)
	}
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads configuration from a YAML file by path. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Load(nil)
		}
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	return Load(file)
}
