package config

import (
	"fmt"
	"net/url"
)

// Validate checks that the configuration is valid and complete.
// It returns an error if required fields are missing or values are invalid.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateServer(cfg); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	if err := validateTrello(cfg); err != nil {
		return fmt.Errorf("invalid trello config: %w", err)
	}

	if err := validateLimits(cfg); err != nil {
		return fmt.Errorf("invalid limit config: %w", err)
	}

	return nil
}

// validateServer validates the server-related fields.
func validateServer(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}

	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}

	// 0 is allowed, meaning no idle timeout.
	if cfg.IdleTimeout < 0 {
		return fmt.Errorf("SERVER_IDLE_TIMEOUT must be non-negative")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	return nil
}

// validateTrello validates the Trello API fields.
func validateTrello(cfg *Config) error {
	if cfg.TrelloBaseURL == "" {
		return fmt.Errorf("TRELLO_BASE_URL is required")
	}

	parsedURL, err := url.Parse(cfg.TrelloBaseURL)
	if err != nil {
		return fmt.Errorf("invalid TRELLO_BASE_URL: %w", err)
	}

	if !parsedURL.IsAbs() {
		return fmt.Errorf("TRELLO_BASE_URL must be an absolute URL")
	}

	if parsedURL.Scheme != "https" && parsedURL.Scheme != "http" {
		return fmt.Errorf("TRELLO_BASE_URL must use http or https scheme")
	}

	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("TRELLO_REQUEST_TIMEOUT must be positive")
	}

	// Pre-provisioned credentials must be set together or not at all.
	if (cfg.TrelloAPIKey == "") != (cfg.TrelloToken == "") {
		return fmt.Errorf("TRELLO_API_KEY and TRELLO_TOKEN must both be set or both be empty")
	}

	return nil
}

// validateLimits validates the rate-limit and cache fields.
func validateLimits(cfg *Config) error {
	if cfg.RateLimitMaxCalls <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX_CALLS must be positive")
	}

	if cfg.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	if cfg.CredentialCacheTTL <= 0 {
		return fmt.Errorf("CREDENTIAL_CACHE_TTL must be positive")
	}

	return nil
}
