package config

import "time"

// ApplyDefaults fills zero-valued fields with their defaults. It is called
// after YAML parsing and before validation.
func ApplyDefaults(cfg *Config) {
	// ── Listen ──
	if cfg.Listen.Host == "" {
		cfg.Listen.Host = "0.0.0.0"
	}
	if cfg.Listen.Port == 0 {
		cfg.Listen.Port = 8080
	}
	if cfg.Listen.MaxConnections == 0 {
		cfg.Listen.MaxConnections = 1000
	}
	// global_rate_limit defaults to 0 (disabled)

	// ── Source ──
	if cfg.Source.File == "" {
		cfg.Source.File = "url_to_responses.csv"
	}
	// watch defaults to false (zero value); profiles enable it
	if cfg.Source.Debounce.Duration == 0 {
		cfg.Source.Debounce.Duration = 2 * time.Second
	}

	// ── Relay ──
	if cfg.Relay.Timeout.Duration == 0 {
		cfg.Relay.Timeout.Duration = 15 * time.Second
	}

	// ── Logging ──
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// ── Shutdown ──
	if cfg.Shutdown.Timeout.Duration == 0 {
		cfg.Shutdown.Timeout.Duration = 30 * time.Second
	}
}
