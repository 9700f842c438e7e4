package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/skai-it/trello-mcp-server/internal/mcp"
)

// toolsResponse lists the tool catalog over plain HTTP for discovery
// without an MCP client.
type toolsResponse struct {
	Tools     []mcp.ToolDefinition `json:"tools"`
	Count     int                  `json:"count"`
	Timestamp string               `json:"timestamp"`
}

// toolsHandler serves the /tools endpoint.
type toolsHandler struct {
	registry mcp.ToolRegistry
	logger   *zap.Logger
	now      func() time.Time
}

// NewToolsHandler creates a handler for the /tools endpoint.
func NewToolsHandler(registry mcp.ToolRegistry, logger *zap.Logger) http.Handler {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &toolsHandler{
		registry: registry,
		logger:   logger.With(zap.String("component", "tools_endpoint")),
		now:      time.Now,
	}
}

// ServeHTTP handles GET requests listing available tools.
func (h *toolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tools := h.registry.ListTools()
	resp := toolsResponse{
		Tools:     tools,
		Count:     len(tools),
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode tools response", zap.Error(err))
	}
}
