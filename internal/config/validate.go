package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for errors. It collects ALL errors
// rather than stopping at the first one, returning them as a joined message.
func Validate(cfg *Config) error {
	var errs []string

	// ── Listen ──
	if cfg.Listen.Port < 1 || cfg.Listen.Port > 65535 {
		errs = append(errs, fmt.Sprintf("listen.port must be 1-65535 (got %d)", cfg.Listen.Port))
	}
	if cfg.Listen.MaxConnections < 1 {
		errs = append(errs, fmt.Sprintf("listen.max_connections must be positive (got %d)", cfg.Listen.MaxConnections))
	}
	if cfg.Listen.GlobalRateLimit < 0 {
		errs = append(errs, fmt.Sprintf("listen.global_rate_limit must be 0 (disabled) or positive (got %d)", cfg.Listen.GlobalRateLimit))
	}

	// ── Source ──
	if cfg.Source.File == "" {
		errs = append(errs, "source.file is required")
	}
	if cfg.Source.Debounce.Duration < 0 {
		errs = append(errs, "source.debounce must not be negative")
	}

	// ── Relay ──
	if cfg.Relay.Timeout.Duration <= 0 {
		errs = append(errs, "relay.timeout must be positive")
	}

	// ── Endpoints ──
	seenPaths := make(map[string]struct{}, len(cfg.Endpoints))
	for i, e := range cfg.Endpoints {
		if !strings.HasPrefix(e.Path, "/") {
			errs = append(errs, fmt.Sprintf("endpoints[%d]: path must start with / (got %q)", i, e.Path))
		}
		if _, dup := seenPaths[e.Path]; dup {
			errs = append(errs, fmt.Sprintf("endpoints[%d]: duplicate path %q", i, e.Path))
		}
		seenPaths[e.Path] = struct{}{}
		if u, err := url.Parse(e.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("endpoints[%d]: url must be an absolute http(s) URL (got %q)", i, e.URL))
		}
	}

	// ── Logging ──
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be one of: json, text (got %q)", cfg.Logging.Format))
	}

	// ── Shutdown ──
	if cfg.Shutdown.Timeout.Duration <= 0 {
		errs = append(errs, "shutdown.timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
