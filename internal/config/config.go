package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/knack117/mightstone-gpt/internal/deckstats"
	"github.com/knack117/mightstone-gpt/internal/edhrec"
	"github.com/knack117/mightstone-gpt/internal/scryfall"
	"github.com/knack117/mightstone-gpt/internal/upstream"
)

// Config represents the service configuration.
type Config struct {
	// HTTP server configuration
	Server ServerConfig `toml:"server"`

	// Upstream provider configuration
	Upstream UpstreamConfig `toml:"upstream"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port                  int      `toml:"port"`                    // Listen port
	RequestTimeoutSeconds int      `toml:"request_timeout_seconds"` // Per-request deadline
	AllowedOrigins        []string `toml:"allowed_origins"`         // CORS origins
}

// UpstreamConfig contains settings shared by and specific to the
// upstream providers.
type UpstreamConfig struct {
	UserAgent    string `toml:"user_agent"`    // Outbound User-Agent string
	ContactEmail string `toml:"contact_email"` // Operator contact, served at /privacy

	EDHREC    ProviderConfig `toml:"edhrec"`
	DeckStats ProviderConfig `toml:"deckstats"`
	Scryfall  ProviderConfig `toml:"scryfall"`
}

// ProviderConfig tunes one upstream adapter.
type ProviderConfig struct {
	BaseURL        string `toml:"base_url"`        // Provider endpoint
	MinIntervalMS  int    `toml:"min_interval_ms"` // Minimum delay between calls
	TimeoutSeconds int    `toml:"timeout_seconds"` // Per-call HTTP timeout
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// DefaultConfig returns the default configuration. Provider defaults
// mirror the adapters' own, so a saved config file shows the real
// endpoints and intervals.
func DefaultConfig() *Config {
	e := edhrec.DefaultOptions()
	d := deckstats.DefaultOptions()
	s := scryfall.DefaultOptions()

	return &Config{
		Server: ServerConfig{
			Port:                  8080,
			RequestTimeoutSeconds: 60,
			AllowedOrigins:        []string{"*"},
		},
		Upstream: UpstreamConfig{
			UserAgent: upstream.DefaultUserAgent,
			EDHREC:    providerDefaults(e.BaseURL, e.RequestInterval, e.Timeout),
			DeckStats: providerDefaults(d.BaseURL, d.RequestInterval, d.Timeout),
			Scryfall:  providerDefaults(s.BaseURL, s.RequestInterval, s.Timeout),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func providerDefaults(baseURL string, interval, timeout time.Duration) ProviderConfig {
	return ProviderConfig{
		BaseURL:        baseURL,
		MinIntervalMS:  int(interval / time.Millisecond),
		TimeoutSeconds: int(timeout / time.Second),
	}
}

// Load reads the configuration. An empty path yields the defaults; a
// named file must exist and parse. Environment overrides are applied
// last: PORT, LOGLEVEL, MIGHTSTONE_UA, CONTACT_EMAIL.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv overwrites settings from the environment.
func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}
	if level := os.Getenv("LOGLEVEL"); level != "" {
		c.Logging.Level = level
	}
	if ua := os.Getenv("MIGHTSTONE_UA"); ua != "" {
		c.Upstream.UserAgent = ua
	}
	if contact := os.Getenv("CONTACT_EMAIL"); contact != "" {
		c.Upstream.ContactEmail = contact
	}
	return nil
}

// Save writes the configuration to disk.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("request timeout must be positive: %d", c.Server.RequestTimeoutSeconds)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}

	for name, p := range map[string]ProviderConfig{
		"edhrec":    c.Upstream.EDHREC,
		"deckstats": c.Upstream.DeckStats,
		"scryfall":  c.Upstream.Scryfall,
	} {
		if p.MinIntervalMS < 0 {
			return fmt.Errorf("%s min interval cannot be negative: %d", name, p.MinIntervalMS)
		}
		if p.TimeoutSeconds < 1 {
			return fmt.Errorf("%s timeout must be positive: %d", name, p.TimeoutSeconds)
		}
	}

	return nil
}

// RequestTimeout returns the server request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// Interval returns the provider's minimum inter-request delay.
func (p ProviderConfig) Interval() time.Duration {
	return time.Duration(p.MinIntervalMS) * time.Millisecond
}

// Timeout returns the provider's HTTP timeout.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}
