package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/skai-it/trello-mcp-server/internal/transport/transportcore"
)

// NewAuthMiddleware creates middleware that validates an HS256-signed
// bearer token on protected endpoints. This gates the HTTP surface itself;
// Trello credentials are resolved separately per tool call.
func NewAuthMiddleware(secret []byte, responder transportcore.ErrorResponder, logger *zap.Logger) transportcore.Middleware {
	if len(secret) == 0 {
		panic("secret cannot be empty")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("component", "auth"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractBearerToken(r)
			if err != nil {
				responder.Unauthorized(w, err)
				return
			}

			if _, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"})); err != nil {
				log.Warn("token validation failed", zap.Error(err))
				responder.Unauthorized(w, transportcore.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken pulls the token from the Authorization header per
// RFC 6750 Section 2.1.
func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", transportcore.ErrMissingToken
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", transportcore.ErrInvalidToken
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", transportcore.ErrMissingToken
	}
	return token, nil
}
