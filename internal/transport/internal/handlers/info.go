package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// infoResponse describes the server and its endpoints.
type infoResponse struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Version       string            `json:"version"`
	Endpoints     map[string]string `json:"endpoints"`
	Features      map[string]bool   `json:"features"`
	Documentation string            `json:"documentation"`
}

// infoHandler serves the root endpoint with server information.
type infoHandler struct {
	name    string
	version string
	logger  *zap.Logger
}

// NewInfoHandler creates a handler for the / endpoint.
func NewInfoHandler(name, version string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &infoHandler{
		name:    name,
		version: version,
		logger:  logger.With(zap.String("component", "info")),
	}
}

// ServeHTTP handles GET requests for server information.
func (h *infoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	resp := infoResponse{
		Name:        h.name,
		Description: "Model Context Protocol server for Trello API integration",
		Version:     h.version,
		Endpoints: map[string]string{
			"health":  "/health",
			"login":   "/auth/login (GET)",
			"mcp":     "/mcp (POST)",
			"tools":   "/tools (GET)",
			"metrics": "/metrics (GET)",
		},
		Features: map[string]bool{
			"interactive_login":           true,
			"session_credentials_caching": true,
			"no_persistent_storage":       true,
		},
		Documentation: "https://github.com/skai-it/trello-mcp-server",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode info response", zap.Error(err))
	}
}
