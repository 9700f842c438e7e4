// Package credentials manages Trello API credential resolution with
// session-scoped caching. Credentials are resolved from, in priority order:
// an explicit pair supplied with the request, the in-memory session cache,
// pre-provisioned configuration values, and finally an interactive prompt.
// Nothing is ever persisted to disk.
package credentials

import (
	"strings"

	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
)

// MinLength is the minimum accepted length for a Trello API key or token.
// Real Trello keys and tokens are at least 32 characters.
const MinLength = 32

// LoginURL is the page where a user obtains their API key and token.
const LoginURL = "https://trello.com/app-key"

// Credentials is a Trello API key/token pair.
type Credentials struct {
	// APIKey is the Trello API key.
	APIKey string

	// Token is the Trello API token.
	Token string
}

// Validate checks that both values are present and meet the minimum-length
// policy. A pair failing validation must never be cached or forwarded.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" || strings.TrimSpace(c.Token) == "" {
		return internalerrors.New("credentials", "Validate", internalerrors.ErrBadRequest, nil).
			WithContext("reason", "api key and token cannot be empty")
	}
	if len(strings.TrimSpace(c.APIKey)) < MinLength {
		return internalerrors.New("credentials", "Validate", internalerrors.ErrBadRequest, nil).
			WithContext("reason", "api key too short")
	}
	if len(strings.TrimSpace(c.Token)) < MinLength {
		return internalerrors.New("credentials", "Validate", internalerrors.ErrBadRequest, nil).
			WithContext("reason", "token too short")
	}
	return nil
}

// Trimmed returns a copy with surrounding whitespace removed from both values.
func (c Credentials) Trimmed() Credentials {
	return Credentials{
		APIKey: strings.TrimSpace(c.APIKey),
		Token:  strings.TrimSpace(c.Token),
	}
}

// IsZero reports whether both values are empty.
func (c Credentials) IsZero() bool {
	return c.APIKey == "" && c.Token == ""
}
