// Package config provides configuration management for the Trello MCP server.
// Configuration is read from an optional YAML file and overridden by
// environment variables, with sensible defaults for Cloud Run deployment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete server configuration in a flat structure.
type Config struct {
	// Server settings
	// Addr is the address to bind the HTTP server (e.g., ":8080").
	Addr string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum duration to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration

	// ServiceName identifies this service in health responses and logs.
	// Defaults to the Cloud Run K_SERVICE value when present.
	ServiceName string

	// ServiceVersion is the deployed revision, from K_REVISION when present.
	ServiceVersion string

	// Trello settings
	// TrelloBaseURL is the Trello REST API base URL.
	TrelloBaseURL string

	// RequestTimeout is the per-request timeout for outbound Trello calls.
	RequestTimeout time.Duration

	// TrelloAPIKey is an optional pre-provisioned Trello API key.
	// It is only used when TrelloToken is also set.
	TrelloAPIKey string

	// TrelloToken is an optional pre-provisioned Trello API token.
	// It is only used when TrelloAPIKey is also set.
	TrelloToken string

	// Rate limit settings
	// RateLimitMaxCalls is the maximum number of outbound calls allowed
	// within RateLimitWindow (Trello allows 300 per 10 seconds).
	RateLimitMaxCalls int

	// RateLimitWindow is the sliding window duration for the rate limiter.
	RateLimitWindow time.Duration

	// Credential settings
	// CredentialCacheTTL is how long a resolved credential pair stays
	// cached before re-acquisition is required.
	CredentialCacheTTL time.Duration

	// AuthSecret is an optional HS256 shared secret. When set, POST /mcp
	// requires a Bearer JWT signed with this secret.
	AuthSecret string

	// LogLevel controls the zap logger level (debug, info, warn, error).
	LogLevel string
}

// fileConfig mirrors Config for the optional YAML configuration file.
// Zero values mean "not set" and fall through to environment or defaults.
type fileConfig struct {
	Addr               string        `yaml:"addr"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	IdleTimeout        time.Duration `yaml:"idle_timeout"`
	ServiceName        string        `yaml:"service_name"`
	ServiceVersion     string        `yaml:"service_version"`
	TrelloBaseURL      string        `yaml:"trello_base_url"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	TrelloAPIKey       string        `yaml:"trello_api_key"`
	TrelloToken        string        `yaml:"trello_token"`
	RateLimitMaxCalls  int           `yaml:"rate_limit_max_calls"`
	RateLimitWindow    time.Duration `yaml:"rate_limit_window"`
	CredentialCacheTTL time.Duration `yaml:"credential_cache_ttl"`
	AuthSecret         string        `yaml:"auth_secret"`
	LogLevel           string        `yaml:"log_level"`
}

// Load reads configuration from the optional CONFIG_FILE and environment
// variables and returns a validated Config. Environment variables take
// precedence over file values, file values over defaults.
func Load() (*Config, error) {
	var file fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read CONFIG_FILE: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("cannot parse CONFIG_FILE: %w", err)
		}
	}

	readTimeout, err := resolveDuration("SERVER_READ_TIMEOUT", file.ReadTimeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := resolveDuration("SERVER_WRITE_TIMEOUT", file.WriteTimeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	idleTimeout, err := resolveDuration("SERVER_IDLE_TIMEOUT", file.IdleTimeout, 120*time.Second)
	if err != nil {
		return nil, err
	}
	requestTimeout, err := resolveDuration("TRELLO_REQUEST_TIMEOUT", file.RequestTimeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	rateWindow, err := resolveDuration("RATE_LIMIT_WINDOW", file.RateLimitWindow, 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := resolveDuration("CREDENTIAL_CACHE_TTL", file.CredentialCacheTTL, 8*time.Hour)
	if err != nil {
		return nil, err
	}
	maxCalls, err := resolveInt("RATE_LIMIT_MAX_CALLS", file.RateLimitMaxCalls, 300)
	if err != nil {
		return nil, err
	}

	addr := resolveString("SERVER_ADDR", file.Addr, "")
	if addr == "" {
		// Cloud Run injects PORT rather than a full bind address.
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	cfg := &Config{
		Addr:           addr,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		ServiceName:    resolveString("SERVICE_NAME", firstNonEmpty(file.ServiceName, os.Getenv("K_SERVICE")), "trello-mcp"),
		ServiceVersion: resolveString("SERVICE_VERSION", firstNonEmpty(file.ServiceVersion, os.Getenv("K_REVISION")), "unknown"),

		TrelloBaseURL:  resolveString("TRELLO_BASE_URL", file.TrelloBaseURL, "https://api.trello.com/1"),
		RequestTimeout: requestTimeout,
		TrelloAPIKey:   resolveString("TRELLO_API_KEY", file.TrelloAPIKey, ""),
		TrelloToken:    resolveString("TRELLO_TOKEN", file.TrelloToken, ""),

		RateLimitMaxCalls: maxCalls,
		RateLimitWindow:   rateWindow,

		CredentialCacheTTL: cacheTTL,
		AuthSecret:         resolveString("AUTH_SECRET", file.AuthSecret, ""),
		LogLevel:           resolveString("LOG_LEVEL", file.LogLevel, "info"),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveString returns the environment value, then the file value, then the default.
func resolveString(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// resolveDuration resolves a duration with environment > file > default precedence.
// Returns an error if the environment value is set but cannot be parsed.
func resolveDuration(key string, fileValue, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return duration, nil
	}
	if fileValue != 0 {
		return fileValue, nil
	}
	return defaultValue, nil
}

// resolveInt resolves an integer with environment > file > default precedence.
func resolveInt(key string, fileValue, defaultValue int) (int, error) {
	if value := os.Getenv(key); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return n, nil
	}
	if fileValue != 0 {
		return fileValue, nil
	}
	return defaultValue, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// String returns a string representation of the configuration (for debugging).
// Credential values are redacted.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Addr: %s, ServiceName: %s, ServiceVersion: %s, TrelloBaseURL: %s, RequestTimeout: %v, RateLimitMaxCalls: %d, RateLimitWindow: %v, CredentialCacheTTL: %v, PreProvisioned: %t, AuthEnabled: %t, LogLevel: %s}",
		c.Addr, c.ServiceName, c.ServiceVersion, c.TrelloBaseURL, c.RequestTimeout,
		c.RateLimitMaxCalls, c.RateLimitWindow, c.CredentialCacheTTL,
		c.TrelloAPIKey != "" && c.TrelloToken != "", c.AuthSecret != "", c.LogLevel)
}
