package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv neutralizes the configuration environment so tests see only
// what they set themselves.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_ADDR", "PORT",
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
		"SERVICE_NAME", "SERVICE_VERSION", "K_SERVICE", "K_REVISION",
		"TRELLO_BASE_URL", "TRELLO_REQUEST_TIMEOUT", "TRELLO_API_KEY", "TRELLO_TOKEN",
		"RATE_LIMIT_MAX_CALLS", "RATE_LIMIT_WINDOW",
		"CREDENTIAL_CACHE_TTL", "AUTH_SECRET", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key) //nolint:errcheck
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.TrelloBaseURL != "https://api.trello.com/1" {
		t.Errorf("TrelloBaseURL = %q", cfg.TrelloBaseURL)
	}
	if cfg.RateLimitMaxCalls != 300 {
		t.Errorf("RateLimitMaxCalls = %d, want 300", cfg.RateLimitMaxCalls)
	}
	if cfg.RateLimitWindow != 10*time.Second {
		t.Errorf("RateLimitWindow = %v, want 10s", cfg.RateLimitWindow)
	}
	if cfg.CredentialCacheTTL != 8*time.Hour {
		t.Errorf("CredentialCacheTTL = %v, want 8h", cfg.CredentialCacheTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_CloudRunPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDR", ":3000")
	t.Setenv("RATE_LIMIT_MAX_CALLS", "100")
	t.Setenv("RATE_LIMIT_WINDOW", "5s")
	t.Setenv("CREDENTIAL_CACHE_TTL", "1h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.RateLimitMaxCalls != 100 {
		t.Errorf("RateLimitMaxCalls = %d", cfg.RateLimitMaxCalls)
	}
	if cfg.RateLimitWindow != 5*time.Second {
		t.Errorf("RateLimitWindow = %v", cfg.RateLimitWindow)
	}
	if cfg.CredentialCacheTTL != time.Hour {
		t.Errorf("CredentialCacheTTL = %v", cfg.CredentialCacheTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
addr: ":4000"
service_name: "trello-file"
rate_limit_max_calls: 50
log_level: "warn"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	// Environment beats the file.
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":4000" {
		t.Errorf("Addr = %q, want file value", cfg.Addr)
	}
	if cfg.ServiceName != "trello-file" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.RateLimitMaxCalls != 50 {
		t.Errorf("RateLimitMaxCalls = %d", cfg.RateLimitMaxCalls)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, env must beat file", cfg.LogLevel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad duration", key: "RATE_LIMIT_WINDOW", value: "fast"},
		{name: "bad integer", key: "RATE_LIMIT_MAX_CALLS", value: "many"},
		{name: "bad log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "lone api key", key: "TRELLO_API_KEY", value: "k2345678901234567890123456789012"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() error = nil with %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil for a missing CONFIG_FILE")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			Addr:               ":8080",
			ReadTimeout:        30 * time.Second,
			WriteTimeout:       30 * time.Second,
			IdleTimeout:        120 * time.Second,
			TrelloBaseURL:      "https://api.trello.com/1",
			RequestTimeout:     30 * time.Second,
			RateLimitMaxCalls:  300,
			RateLimitWindow:    10 * time.Second,
			CredentialCacheTTL: 8 * time.Hour,
			LogLevel:           "info",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing addr", mutate: func(c *Config) { c.Addr = "" }},
		{name: "zero read timeout", mutate: func(c *Config) { c.ReadTimeout = 0 }},
		{name: "negative idle timeout", mutate: func(c *Config) { c.IdleTimeout = -time.Second }},
		{name: "relative base url", mutate: func(c *Config) { c.TrelloBaseURL = "api.trello.com/1" }},
		{name: "wrong scheme", mutate: func(c *Config) { c.TrelloBaseURL = "ftp://api.trello.com/1" }},
		{name: "zero max calls", mutate: func(c *Config) { c.RateLimitMaxCalls = 0 }},
		{name: "zero window", mutate: func(c *Config) { c.RateLimitWindow = 0 }},
		{name: "zero cache ttl", mutate: func(c *Config) { c.CredentialCacheTTL = 0 }},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "trace" }},
		{name: "lone token", mutate: func(c *Config) { c.TrelloToken = "t2345678901234567890123456789012" }},
	}

	if err := Validate(valid()); err != nil {
		t.Fatalf("Validate(valid) error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestConfig_StringRedactsCredentials(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Addr:         ":8080",
		TrelloAPIKey: "k2345678901234567890123456789012",
		TrelloToken:  "t2345678901234567890123456789012",
		AuthSecret:   "shared-secret",
	}

	s := cfg.String()
	for _, secret := range []string{cfg.TrelloAPIKey, cfg.TrelloToken, cfg.AuthSecret} {
		if strings.Contains(s, secret) {
			t.Errorf("String() leaks credential value %q", secret[:4]+"...")
		}
	}
	if !strings.Contains(s, "PreProvisioned: true") {
		t.Errorf("String() = %q, want provisioning flag", s)
	}
}
