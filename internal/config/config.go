// Package config loads leadcore settings from the environment and optional
// .env files.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	lcerrors "github.com/leadforge/leadcore/internal/errors"
	"github.com/leadforge/leadcore/internal/logging"
	"github.com/leadforge/leadcore/pkg/licensing"
)

// Config holds process settings.
type Config struct {
	DataDir string `env:"LEADCORE_DATA_DIR"`

	LogLevel  string `env:"LEADCORE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LEADCORE_LOG_FORMAT" envDefault:"auto"`

	// MetricsAddr enables the Prometheus endpoint when set (e.g. ":9102").
	MetricsAddr string `env:"LEADCORE_METRICS_ADDR"`

	AnalyticsEnabled        bool     `env:"LEADCORE_ANALYTICS_ENABLED" envDefault:"true"`
	AnalyticsDB             string   `env:"LEADCORE_ANALYTICS_DB"`
	AnalyticsDisabledEvents []string `env:"LEADCORE_ANALYTICS_DISABLED_EVENTS" envSeparator:","`

	DefaultTier string `env:"LEADCORE_DEFAULT_TIER" envDefault:"basic"`
	UpgradeURL  string `env:"LEADCORE_UPGRADE_URL"`
}

// analyticsDBName is the event log file created under DataDir.
const analyticsDBName = "analytics.db"

// Load reads .env overrides and parses the environment into a Config.
func Load() (*Config, error) {
	// Load .env file if it exists (for deployment overrides)
	if dataDir := strings.TrimSpace(os.Getenv("LEADCORE_DATA_DIR")); dataDir != "" {
		envFile := filepath.Join(dataDir, ".env")
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				log.Warn().Err(err).Str("file", envFile).Msg("Failed to load .env file")
			} else {
				log.Debug().Str("file", envFile).Msg("Loaded .env file for deployment overrides")
			}
		}
	}

	// Also try loading from current directory for development
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded configuration from .env in current directory")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes fields in place and rejects invalid values.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.LogLevel) {
		return lcerrors.WrapValidation("load_config", "LEADCORE_LOG_LEVEL", fmt.Errorf("%w: unknown level %q", lcerrors.ErrInvalidInput, c.LogLevel))
	}
	if !logging.ValidFormat(c.LogFormat) {
		return lcerrors.WrapValidation("load_config", "LEADCORE_LOG_FORMAT", fmt.Errorf("%w: unknown format %q", lcerrors.ErrInvalidInput, c.LogFormat))
	}

	c.MetricsAddr = strings.TrimSpace(c.MetricsAddr)
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return lcerrors.WrapValidation("load_config", "LEADCORE_METRICS_ADDR", err)
		}
	}

	c.UpgradeURL = strings.TrimSpace(c.UpgradeURL)
	if c.UpgradeURL != "" {
		u, err := url.Parse(c.UpgradeURL)
		if err != nil {
			return lcerrors.WrapValidation("load_config", "LEADCORE_UPGRADE_URL", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return lcerrors.WrapValidation("load_config", "LEADCORE_UPGRADE_URL", fmt.Errorf("%w: scheme must be http or https", lcerrors.ErrInvalidInput))
		}
	}

	tier := licensing.NormalizeTier(c.DefaultTier)
	if trimmed := strings.ToLower(strings.TrimSpace(c.DefaultTier)); trimmed != "" && trimmed != string(tier) {
		log.Debug().Str("configured", c.DefaultTier).Str("tier", string(tier)).Msg("Normalized default tier")
	}
	c.DefaultTier = string(tier)

	events := c.AnalyticsDisabledEvents[:0]
	for _, name := range c.AnalyticsDisabledEvents {
		if name = strings.TrimSpace(name); name != "" {
			events = append(events, name)
		}
	}
	c.AnalyticsDisabledEvents = events

	return nil
}

// Tier returns the normalized default tier.
func (c *Config) Tier() licensing.Tier {
	return licensing.NormalizeTier(c.DefaultTier)
}

// AnalyticsDBPath returns the SQLite event log path, or "" when events are
// not persisted.
func (c *Config) AnalyticsDBPath() string {
	if path := strings.TrimSpace(c.AnalyticsDB); path != "" {
		return path
	}
	if dir := strings.TrimSpace(c.DataDir); dir != "" {
		return filepath.Join(dir, analyticsDBName)
	}
	return ""
}

// LoggingConfig returns the logger settings for component.
func (c *Config) LoggingConfig(component string) logging.Config {
	return logging.Config{
		Format:    c.LogFormat,
		Level:     c.LogLevel,
		Component: component,
	}
}
