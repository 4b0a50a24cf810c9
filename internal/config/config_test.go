package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Upstream.UserAgent == "" {
		t.Error("expected a default user agent")
	}
	if cfg.Upstream.EDHREC.BaseURL == "" || cfg.Upstream.Scryfall.BaseURL == "" {
		t.Error("expected provider endpoints in the defaults")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected an error for a named file that does not exist")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9191
	cfg.Upstream.ContactEmail = "ops@example.com"
	cfg.Upstream.Scryfall.MinIntervalMS = 250

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Server.Port != 9191 {
		t.Errorf("expected port 9191, got %d", loaded.Server.Port)
	}
	if loaded.Upstream.ContactEmail != "ops@example.com" {
		t.Errorf("expected contact to survive the round trip, got %q", loaded.Upstream.ContactEmail)
	}
	if got := loaded.Upstream.Scryfall.Interval(); got != 250*time.Millisecond {
		t.Errorf("expected 250ms interval, got %v", got)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	partial := "[server]\nport = 3000\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Upstream.EDHREC.BaseURL == "" {
		t.Error("expected untouched sections to keep their defaults")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level, got %q", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "4242")
	t.Setenv("LOGLEVEL", "debug")
	t.Setenv("MIGHTSTONE_UA", "test-agent/1.0")
	t.Setenv("CONTACT_EMAIL", "env@example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 4242 {
		t.Errorf("expected PORT override, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected LOGLEVEL override, got %q", cfg.Logging.Level)
	}
	if cfg.Upstream.UserAgent != "test-agent/1.0" {
		t.Errorf("expected MIGHTSTONE_UA override, got %q", cfg.Upstream.UserAgent)
	}
	if cfg.Upstream.ContactEmail != "env@example.com" {
		t.Errorf("expected CONTACT_EMAIL override, got %q", cfg.Upstream.ContactEmail)
	}
}

func TestLoad_BadPortEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for a non-numeric PORT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero timeout", func(c *Config) { c.Server.RequestTimeoutSeconds = 0 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"negative interval", func(c *Config) { c.Upstream.EDHREC.MinIntervalMS = -1 }, true},
		{"zero provider timeout", func(c *Config) { c.Upstream.Scryfall.TimeoutSeconds = 0 }, true},
		{"upper case level ok", func(c *Config) { c.Logging.Level = "DEBUG" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
