// Package mcp provides MCP protocol handler implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
)

// handler implements the Handler interface.
// It routes JSON-RPC requests to appropriate method handlers.
type handler struct {
	toolRegistry ToolRegistry
	serverInfo   serverInfo
	logger       *zap.Logger
}

// serverInfo contains metadata about the MCP server.
type serverInfo struct {
	Name    string
	Version string
}

// newHandler creates a new MCP protocol handler.
func newHandler(toolRegistry ToolRegistry, info serverInfo, logger *zap.Logger) Handler {
	if toolRegistry == nil {
		panic("toolRegistry cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &handler{
		toolRegistry: toolRegistry,
		serverInfo:   info,
		logger:       logger.With(zap.String("component", "mcp_handler")),
	}
}

// HandleRequest processes an MCP JSON-RPC request. All failures are
// reported as JSON-RPC error objects in the response; the error return is
// always nil so transports treat every outcome as a normal response.
func (h *handler) HandleRequest(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return errorResponse(nil, CodeInvalidRequest, "request cannot be nil", nil), nil
	}

	if req.JSONRPC != JSONRPCVersion {
		return errorResponse(req.ID, CodeInvalidRequest, "invalid jsonrpc version", nil), nil
	}
	if req.Method == "" {
		return errorResponse(req.ID, CodeInvalidRequest, "method is required", nil), nil
	}

	h.logger.Debug("handling mcp request",
		zap.String("method", req.Method),
		zap.Any("id", req.ID),
	)

	switch req.Method {
	case "initialize":
		return h.handleInitialize(ctx, req)
	case "tools/list":
		return h.handleToolsList(ctx, req)
	case "tools/call":
		return h.handleToolsCall(ctx, req)
	case "resources/list":
		return h.result(req.ID, ResourcesListResult{Resources: []ResourceDefinition{}}), nil
	case "prompts/list":
		return h.result(req.ID, PromptsListResult{Prompts: []PromptDefinition{}}), nil
	default:
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil), nil
	}
}

// handleInitialize handles the initialize method. Initialization is not a
// gate: tool methods work whether or not the client initialized first.
func (h *handler) handleInitialize(ctx context.Context, req *Request) (*Response, error) {
	var params InitializeParams
	if req.Params != nil {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeInvalidParams, "invalid initialize params", err.Error()), nil
		}
	}

	if params.ClientInfo.Name != "" {
		h.logger.Info("client initialized",
			zap.String("client", params.ClientInfo.Name),
			zap.String("client_version", params.ClientInfo.Version),
		)
	}

	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo: ServerInfoResponse{
			Name:    h.serverInfo.Name,
			Version: h.serverInfo.Version,
		},
		Capabilities: Capabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
			Prompts:   &PromptsCapability{},
		},
	}

	return h.result(req.ID, result), nil
}

// handleToolsList handles the tools/list method.
func (h *handler) handleToolsList(ctx context.Context, req *Request) (*Response, error) {
	return h.result(req.ID, ToolsListResult{Tools: h.toolRegistry.ListTools()}), nil
}

// handleToolsCall handles the tools/call method.
func (h *handler) handleToolsCall(ctx context.Context, req *Request) (*Response, error) {
	if req.Params == nil {
		return errorResponse(req.ID, CodeInvalidParams, "params required", nil), nil
	}

	var params ToolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "invalid tools/call params", err.Error()), nil
	}

	if params.Name == "" {
		return errorResponse(req.ID, CodeInvalidParams, "tool name is required", nil), nil
	}

	tool, err := h.toolRegistry.GetTool(params.Name)
	if err != nil {
		if errors.Is(err, ErrToolNotFound) {
			return errorResponse(req.ID, CodeToolNotFound, fmt.Sprintf("tool not found: %s", params.Name), nil), nil
		}
		return errorResponse(req.ID, CodeInternalError, "failed to get tool", nil), nil
	}

	text, err := tool.Execute(ctx, params.Arguments)
	if err != nil {
		h.logger.Warn("tool execution failed",
			zap.String("tool", params.Name),
			zap.Error(err),
		)
		rpcErr := errorFromExecution(params.Name, err)
		return errorResponse(req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data), nil
	}

	result := ToolsCallResult{
		Content: []Content{{Type: "text", Text: text}},
	}
	return h.result(req.ID, result), nil
}

func (h *handler) result(id, result any) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  result,
	}
}

// errorResponse creates a JSON-RPC error response.
func errorResponse(id any, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// errorFromExecution maps a tool execution failure onto a JSON-RPC error.
// The message carries the error text, which never contains credential
// values; internal details stay in the server logs.
func errorFromExecution(toolName string, err error) *Error {
	msg := err.Error()
	var domainErr *internalerrors.DomainError
	if errors.As(err, &domainErr) && domainErr.Err != nil {
		msg = domainErr.Err.Error()
	}

	switch {
	case errors.Is(err, internalerrors.ErrBadRequest):
		return NewError(CodeInvalidParams, msg, map[string]any{"tool": toolName})
	case errors.Is(err, internalerrors.ErrAuthRequired),
		errors.Is(err, internalerrors.ErrUnauthorized):
		return NewError(CodeUnauthorized, msg, map[string]any{"tool": toolName})
	case errors.Is(err, internalerrors.ErrNotFound):
		return NewError(CodeResourceNotFound, msg, map[string]any{"tool": toolName})
	case errors.Is(err, internalerrors.ErrRateLimited):
		return NewError(CodeRateLimited, msg, map[string]any{"tool": toolName})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewError(CodeInternalError, "request cancelled", map[string]any{"tool": toolName})
	default:
		return NewError(CodeInternalError, fmt.Sprintf("tool execution failed: %s", msg), map[string]any{"tool": toolName})
	}
}
