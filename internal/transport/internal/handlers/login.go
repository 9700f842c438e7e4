package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/skai-it/trello-mcp-server/internal/credentials"
)

// loginResponse tells a user how to authenticate and reports the current
// credential session state. Credential values never appear here.
type loginResponse struct {
	Message      string                  `json:"message"`
	LoginURL     string                  `json:"login_url"`
	Instructions map[string]string       `json:"instructions"`
	Session      credentials.SessionInfo `json:"session"`
}

// loginHandler serves the /auth/login endpoint.
type loginHandler struct {
	manager *credentials.Manager
	logger  *zap.Logger
}

// NewLoginHandler creates a handler for the /auth/login endpoint.
func NewLoginHandler(manager *credentials.Manager, logger *zap.Logger) http.Handler {
	if manager == nil {
		panic("manager cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &loginHandler{
		manager: manager,
		logger:  logger.With(zap.String("component", "login")),
	}
}

// ServeHTTP handles GET requests for login instructions.
func (h *loginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	resp := loginResponse{
		Message:  "Interactive login will be triggered on first tool call",
		LoginURL: credentials.LoginURL,
		Instructions: map[string]string{
			"step_1": "Visit " + credentials.LoginURL,
			"step_2": "Copy your API Key",
			"step_3": "Click 'Token' link to generate/view your token",
			"step_4": "When prompted by the MCP server, paste both values",
		},
		Session: h.manager.SessionInfo(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode login response", zap.Error(err))
	}
}
