package transport

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/skai-it/trello-mcp-server/internal/config"
	"github.com/skai-it/trello-mcp-server/internal/credentials"
	"github.com/skai-it/trello-mcp-server/internal/mcp"
	"github.com/skai-it/trello-mcp-server/internal/transport/internal/handlers"
	transporthttp "github.com/skai-it/trello-mcp-server/internal/transport/internal/http"
	"github.com/skai-it/trello-mcp-server/internal/transport/internal/middleware"
)

// NewServer creates a configured HTTP server.
// The server is configured with timeouts from the config and uses the provided router.
func NewServer(cfg *config.Config, router Router) Server {
	return transporthttp.NewServer(cfg, router)
}

// NewRouter creates a new HTTP router backed by http.ServeMux.
func NewRouter() Router {
	return transporthttp.NewRouter()
}

// NewErrorResponder creates an error responder that formats HTTP error
// responses as JSON.
func NewErrorResponder(logger *zap.Logger) ErrorResponder {
	return transporthttp.NewErrorResponder(logger)
}

// NewMCPHandler creates the MCP protocol handler.
// It handles JSON-RPC requests at the /mcp endpoint.
func NewMCPHandler(handler mcp.Handler, responder ErrorResponder, logger *zap.Logger) http.Handler {
	return handlers.NewMCPHandler(handler, responder, logger)
}

// Config holds the configuration needed for the transport layer.
type Config struct {
	// ServerConfig is the server configuration.
	ServerConfig *config.Config

	// MCPHandler processes MCP protocol requests.
	MCPHandler mcp.Handler

	// ToolRegistry exposes the tool catalog for discovery endpoints.
	ToolRegistry mcp.ToolRegistry

	// Credentials reports credential session state for /auth/login.
	Credentials *credentials.Manager

	// MetricsRegistry collects Prometheus metrics. A private registry is
	// created when nil.
	MetricsRegistry *prometheus.Registry

	// Logger is the structured logger for the transport layer.
	Logger *zap.Logger
}

// NewTransportServices creates all transport layer services from the
// configuration. This is a convenience function for dependency injection
// that wires up the complete HTTP transport layer with routing,
// middleware, and handlers.
func NewTransportServices(cfg *Config) (Server, Router, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.ServerConfig == nil {
		return nil, nil, fmt.Errorf("server config cannot be nil")
	}
	if cfg.MCPHandler == nil {
		return nil, nil, fmt.Errorf("mcp handler cannot be nil")
	}
	if cfg.ToolRegistry == nil {
		return nil, nil, fmt.Errorf("tool registry cannot be nil")
	}
	if cfg.Credentials == nil {
		return nil, nil, fmt.Errorf("credential manager cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := cfg.MetricsRegistry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	responder := NewErrorResponder(logger)

	recoveryMiddleware := middleware.NewRecoveryMiddleware(responder, logger)
	requestIDMiddleware := middleware.NewRequestIDMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(logger)
	metricsMiddleware := middleware.NewMetricsMiddleware(middleware.NewMetrics(registry))

	serviceName := cfg.ServerConfig.ServiceName
	serviceVersion := cfg.ServerConfig.ServiceVersion

	mcpHandler := NewMCPHandler(cfg.MCPHandler, responder, logger)
	healthHandler := handlers.NewHealthHandler(serviceName, serviceVersion, cfg.ToolRegistry, logger)
	infoHandler := handlers.NewInfoHandler(serviceName, serviceVersion, logger)
	toolsHandler := handlers.NewToolsHandler(cfg.ToolRegistry, logger)
	loginHandler := handlers.NewLoginHandler(cfg.Credentials, logger)

	router := NewRouter()
	router.Use(recoveryMiddleware, requestIDMiddleware, loggingMiddleware, metricsMiddleware)

	// Public endpoints.
	router.Handle("GET /{$}", infoHandler)
	router.Handle("GET /health", healthHandler)
	router.Handle("GET /tools", toolsHandler)
	router.Handle("GET /auth/login", loginHandler)
	router.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// The MCP endpoint is gated by a bearer token when an auth secret is
	// configured; otherwise it is open like the rest.
	if cfg.ServerConfig.AuthSecret != "" {
		authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.ServerConfig.AuthSecret), responder, logger)
		router.Handle("POST /mcp", authMiddleware(mcpHandler))
	} else {
		router.Handle("POST /mcp", mcpHandler)
	}

	server := NewServer(cfg.ServerConfig, router)

	return server, router, nil
}
