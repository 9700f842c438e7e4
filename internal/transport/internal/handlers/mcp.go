// Package handlers provides HTTP handlers for the transport layer.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/skai-it/trello-mcp-server/internal/mcp"
	"github.com/skai-it/trello-mcp-server/internal/transport/transportcore"
)

// mcpHandler handles MCP protocol requests over HTTP.
type mcpHandler struct {
	handler   mcp.Handler
	responder transportcore.ErrorResponder
	logger    *zap.Logger
}

// NewMCPHandler creates a handler for MCP JSON-RPC requests.
// It parses JSON-RPC requests, delegates to the MCP handler, and returns JSON-RPC responses.
func NewMCPHandler(handler mcp.Handler, responder transportcore.ErrorResponder, logger *zap.Logger) http.Handler {
	if handler == nil {
		panic("handler cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &mcpHandler{
		handler:   handler,
		responder: responder,
		logger:    logger.With(zap.String("component", "mcp_endpoint")),
	}
}

// ServeHTTP handles POST requests for MCP protocol.
// Protocol failures ride HTTP 200 as JSON-RPC error objects; only
// transport-level problems produce non-200 statuses.
func (h *mcpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read request body", zap.Error(err))
		h.responder.BadRequest(w, err)
		return
	}
	defer func() {
		if closeErr := r.Body.Close(); closeErr != nil {
			h.logger.Warn("failed to close request body", zap.Error(closeErr))
		}
	}()

	var req mcp.Request
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Warn("failed to parse JSON-RPC request", zap.Error(err))
		h.sendJSONRPCError(w, nil, mcp.CodeParseError, "Parse error")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Warn("invalid JSON-RPC request", zap.Error(err))
		h.sendJSONRPCError(w, req.ID, mcp.CodeInvalidRequest, "Invalid request")
		return
	}

	resp, err := h.handler.HandleRequest(r.Context(), &req)
	if err != nil {
		h.logger.Error("mcp handler error",
			zap.String("method", req.Method),
			zap.Error(err),
		)
		h.sendJSONRPCError(w, req.ID, mcp.CodeInternalError, "Internal error")
		return
	}

	h.sendJSONRPCResponse(w, resp)
}

// sendJSONRPCResponse sends a JSON-RPC response to the client.
func (h *mcpHandler) sendJSONRPCResponse(w http.ResponseWriter, resp *mcp.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode JSON-RPC response", zap.Error(err))
	}
}

// sendJSONRPCError sends a JSON-RPC error response to the client.
// JSON-RPC errors still return HTTP 200 OK.
func (h *mcpHandler) sendJSONRPCError(w http.ResponseWriter, id any, code int, message string) {
	resp := &mcp.Response{
		JSONRPC: mcp.JSONRPCVersion,
		ID:      id,
		Error: &mcp.Error{
			Code:    code,
			Message: message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode JSON-RPC error response", zap.Error(err))
	}
}
