package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds thumbgen settings.
type Config struct {
	// Provider selects the graphics backend: "native" or "vips".
	Provider string `yaml:"provider"`

	// OutputDir is where generated attribute files are written.
	OutputDir string `yaml:"output_dir"`

	// QueueDepth bounds the engine request queue; 0 uses the engine
	// default.
	QueueDepth int `yaml:"queue_depth"`

	// MetricsListen is the optional address for the Prometheus /metrics
	// listener, e.g. ":9090". Empty disables it.
	MetricsListen string `yaml:"metrics_listen"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Provider:  "native",
		OutputDir: ".",
	}
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides: GFX_PROVIDER, GFX_OUTPUT_DIR, GFX_QUEUE_DEPTH,
// GFX_METRICS_LISTEN.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if v := os.Getenv("GFX_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("GFX_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("GFX_QUEUE_DEPTH"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil || depth < 0 {
			return cfg, fmt.Errorf("config: invalid GFX_QUEUE_DEPTH %q", v)
		}
		cfg.QueueDepth = depth
	}
	if v := os.Getenv("GFX_METRICS_LISTEN"); v != "" {
		cfg.MetricsListen = v
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Provider {
	case "native", "vips":
	default:
		return fmt.Errorf("config: unknown provider %q (want native or vips)", c.Provider)
	}
	if c.QueueDepth < 0 {
		return fmt.Errorf("config: queue_depth must be >= 0")
	}
	return nil
}
