package trello

import (
	"fmt"
	"net/http"

	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
)

// apiError converts a non-2xx Trello response into a DomainError whose Kind
// reflects the failure class. Response bodies are included for debugging;
// credential values never appear in them because Trello echoes neither the
// key nor the token.
func apiError(op string, status int, body string) error {
	kind := kindForStatus(status)

	var msg string
	switch status {
	case http.StatusUnauthorized:
		msg = "unauthorized - check your API key and token"
	case http.StatusForbidden:
		msg = "forbidden - insufficient permissions"
	case http.StatusNotFound:
		msg = "not found - the requested resource does not exist"
	case http.StatusTooManyRequests:
		msg = "rate limit exceeded"
	default:
		msg = fmt.Sprintf("API request failed with status %d", status)
	}

	return internalerrors.New("trello", op, kind, fmt.Errorf("%s", msg)).
		WithContext("status", status).
		WithContext("body", truncate(body, 512))
}

// kindForStatus maps a Trello HTTP status to the error taxonomy.
func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return internalerrors.ErrUnauthorized
	case http.StatusForbidden:
		return internalerrors.ErrForbidden
	case http.StatusNotFound:
		return internalerrors.ErrNotFound
	case http.StatusTooManyRequests:
		return internalerrors.ErrRateLimited
	default:
		return internalerrors.ErrInternal
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
