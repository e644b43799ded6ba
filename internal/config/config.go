// Package config handles YAML configuration parsing, defaults, and
// validation for the wsgate proxy front end.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for wsgate.
type Config struct {
	Listen    ListenConfig     `yaml:"listen"`
	Source    SourceConfig     `yaml:"source"`
	Relay     RelayConfig      `yaml:"relay"`
	Endpoints []EndpointConfig `yaml:"endpoints"`
	Logging   LoggingConfig    `yaml:"logging"`
	Shutdown  ShutdownConfig   `yaml:"shutdown"`
}

// ListenConfig defines the listener address and connection limits.
type ListenConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	MaxConnections  int    `yaml:"max_connections"`
	GlobalRateLimit int    `yaml:"global_rate_limit"` // requests per minute, 0 = disabled
}

// SourceConfig points at the discovered-URL summary file the dynamic
// route table is built from.
type SourceConfig struct {
	File     string   `yaml:"file"`
	Watch    bool     `yaml:"watch"`
	Debounce Duration `yaml:"debounce"`
}

// RelayConfig tunes the forwarding engine.
type RelayConfig struct {
	Timeout Duration `yaml:"timeout"`
}

// EndpointConfig declares one fixed GET-only route to the device upstream.
// Declaration order is the order the /api index lists them in.
type EndpointConfig struct {
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

// LoggingConfig defines log output format and level.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ShutdownConfig defines the graceful shutdown timeout.
type ShutdownConfig struct {
	Timeout Duration `yaml:"timeout"`
}

// Duration is a time.Duration that supports YAML string parsing (e.g., "15s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler for Duration, parsing strings like "15s" or "5m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = dur
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Load reads, parses, applies defaults, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
