package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/skai-it/trello-mcp-server/internal/transport/transportcore"
)

const contentTypeJSON = "application/json"

// errorResponse represents a JSON error response body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorResponder implements transportcore.ErrorResponder.
type errorResponder struct {
	logger *zap.Logger
}

// NewErrorResponder creates a new error responder.
func NewErrorResponder(logger *zap.Logger) transportcore.ErrorResponder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &errorResponder{
		logger: logger.With(zap.String("component", "responder")),
	}
}

// Unauthorized sends a 401 Unauthorized response with a WWW-Authenticate
// header per RFC 6750 Section 3.
func (e *errorResponder) Unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusUnauthorized)

	e.logger.Warn("unauthorized request", zap.Error(err))

	resp := errorResponse{
		Error:   "unauthorized",
		Message: "Authentication required",
	}
	e.encode(w, resp)
}

// InternalError sends a 500 Internal Server Error response.
// The response body contains a JSON error message.
func (e *errorResponder) InternalError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusInternalServerError)

	e.logger.Error("internal server error", zap.Error(err))

	resp := errorResponse{
		Error:   "internal_error",
		Message: "An internal server error occurred",
	}
	e.encode(w, resp)
}

// BadRequest sends a 400 Bad Request response.
// The response body contains a JSON error message.
func (e *errorResponder) BadRequest(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusBadRequest)

	e.logger.Warn("bad request", zap.Error(err))

	message := "Invalid request"
	if err != nil {
		message = err.Error()
	}

	resp := errorResponse{
		Error:   "bad_request",
		Message: message,
	}
	e.encode(w, resp)
}

func (e *errorResponder) encode(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		e.logger.Error("failed to encode error response", zap.Error(err))
	}
}
