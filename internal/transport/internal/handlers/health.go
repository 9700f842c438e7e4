package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/skai-it/trello-mcp-server/internal/mcp"
)

// healthResponse represents the JSON response for health checks.
type healthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Version    string `json:"version"`
	Timestamp  string `json:"timestamp"`
	ToolsCount int    `json:"tools_count"`
}

// healthHandler reports server health, used by Cloud Run style probes.
type healthHandler struct {
	service  string
	version  string
	registry mcp.ToolRegistry
	logger   *zap.Logger
	now      func() time.Time
}

// NewHealthHandler creates a handler for the /health endpoint.
func NewHealthHandler(service, version string, registry mcp.ToolRegistry, logger *zap.Logger) http.Handler {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &healthHandler{
		service:  service,
		version:  version,
		registry: registry,
		logger:   logger.With(zap.String("component", "health")),
		now:      time.Now,
	}
}

// ServeHTTP handles GET requests for health checks.
func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	resp := healthResponse{
		Status:     "healthy",
		Service:    h.service,
		Version:    h.version,
		Timestamp:  h.now().UTC().Format(time.RFC3339),
		ToolsCount: len(h.registry.ListTools()),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health response", zap.Error(err))
	}
}
