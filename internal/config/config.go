// Package config loads spicectl settings from a YAML file with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/spice-go/internal/logging"
	"github.com/signalsfoundry/spice-go/internal/observability"
)

// Config is the complete spicectl configuration.
type Config struct {
	// Kernels are furnished in order when a session opens.
	Kernels     []string                    `yaml:"kernels"`
	Log         logging.Config              `yaml:"log"`
	Tracing     observability.TracingConfig `yaml:"tracing"`
	MetricsAddr string                      `yaml:"metrics_addr"` // empty disables /metrics
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:     logging.Config{Level: "info", Format: "text"},
		Tracing: observability.DefaultTracingConfig(),
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path yields the defaults plus the environment. The result is not
// validated; callers apply their own overrides and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies SPICE_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SPICE_KERNELS"); v != "" {
		c.Kernels = nil
		for _, k := range filepath.SplitList(v) {
			if k = strings.TrimSpace(k); k != "" {
				c.Kernels = append(c.Kernels, k)
			}
		}
	}
	if v := os.Getenv("SPICE_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	c.Log = logging.ConfigFromEnv(c.Log)
	c.Tracing = observability.TracingConfigFromEnv(c.Tracing)
}

var (
	validLevels    = []string{"debug", "info", "warn", "warning", "error"}
	validFormats   = []string{"text", "json"}
	validExporters = []string{"stdout", "otlp", "otlpgrpc"}
)

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if c.Log.Level != "" && !oneOf(c.Log.Level, validLevels) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Log.Level, validLevels)
	}
	if c.Log.Format != "" && !oneOf(c.Log.Format, validFormats) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Log.Format, validFormats)
	}
	if c.Tracing.Exporter != "" && !oneOf(c.Tracing.Exporter, validExporters) {
		return fmt.Errorf("invalid tracing exporter: %s (valid: %v)", c.Tracing.Exporter, validExporters)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample_ratio %v outside [0, 1]", c.Tracing.SampleRatio)
	}
	for i, k := range c.Kernels {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("kernels[%d] is empty", i)
		}
	}
	return nil
}

func oneOf(v string, valid []string) bool {
	for _, s := range valid {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
