// Package mcp implements the Model Context Protocol server surface:
// JSON-RPC 2.0 request handling and routing to the tool registry.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
)

// Handler processes MCP protocol requests.
// Implementations must handle JSON-RPC 2.0 requests and route them
// to appropriate method handlers (initialize, tools/list, tools/call, etc.).
type Handler interface {
	// HandleRequest processes an MCP JSON-RPC request and returns a response.
	// The context can be used for cancellation and deadline propagation.
	//
	// Failures are reported inside the Response as JSON-RPC error objects;
	// the returned error is reserved for transport-level problems.
	HandleRequest(ctx context.Context, req *Request) (*Response, error)
}

// Request represents an MCP JSON-RPC 2.0 request.
type Request struct {
	// JSONRPC is the JSON-RPC version, must be "2.0".
	JSONRPC string `json:"jsonrpc"`

	// ID is the request identifier, can be string, number, or null.
	ID any `json:"id,omitempty"`

	// Method is the MCP method name to invoke.
	Method string `json:"method"`

	// Params contains method-specific parameters as raw JSON.
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents an MCP JSON-RPC 2.0 response.
type Response struct {
	// JSONRPC is the JSON-RPC version, always "2.0".
	JSONRPC string `json:"jsonrpc"`

	// ID matches the request ID, or null when the request ID is unknown.
	ID any `json:"id,omitempty"`

	// Result contains the successful response data.
	// Must not be present if Error is set.
	Result any `json:"result,omitempty"`

	// Error contains error information if the request failed.
	// Must not be present if Result is set.
	Error *Error `json:"error,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	// Code is the error code indicating the error type.
	Code int `json:"code"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Data contains additional information about the error (optional).
	Data any `json:"data,omitempty"`
}

// Protocol constants
const (
	// ProtocolVersion is the MCP protocol version this implementation supports.
	ProtocolVersion = "2024-11-05"

	// JSONRPCVersion is the JSON-RPC version used by MCP.
	JSONRPCVersion = "2.0"
)

// Standard JSON-RPC 2.0 error codes
const (
	// CodeParseError indicates invalid JSON was received by the server.
	CodeParseError = -32700

	// CodeInvalidRequest indicates the JSON sent is not a valid Request object.
	CodeInvalidRequest = -32600

	// CodeMethodNotFound indicates the method does not exist or is not available.
	CodeMethodNotFound = -32601

	// CodeInvalidParams indicates invalid method parameters.
	CodeInvalidParams = -32602

	// CodeInternalError indicates an internal JSON-RPC error.
	CodeInternalError = -32603
)

// MCP-specific error codes
const (
	// CodeUnauthorized indicates credentials are missing, invalid, or
	// could not be acquired.
	CodeUnauthorized = -32001

	// CodeResourceNotFound indicates the requested Trello resource was not found.
	CodeResourceNotFound = -32002

	// CodeToolNotFound indicates the requested tool was not found.
	CodeToolNotFound = -32003

	// CodeRateLimited indicates the Trello API rejected the call for quota
	// even after the client's own pacing and retry.
	CodeRateLimited = -32004
)

// ToolRegistry exposes the fixed tool catalog. Implementations must be
// thread-safe; tools/list and tools/call run concurrently.
type ToolRegistry interface {
	// GetTool retrieves a tool by name.
	// Returns ErrToolNotFound (wrapped) if the tool does not exist.
	GetTool(name string) (Tool, error)

	// ListTools returns definitions for all tools in a stable order.
	// The returned slice should not be modified by the caller.
	ListTools() []ToolDefinition
}

// Tool represents an executable MCP tool.
type Tool interface {
	// Execute runs the tool with the provided arguments and returns the
	// human-readable result text.
	Execute(ctx context.Context, args map[string]any) (string, error)

	// Definition returns the tool's metadata including name, description,
	// and input schema for client discovery.
	Definition() ToolDefinition
}

// ToolDefinition describes a tool's interface for client discovery.
type ToolDefinition struct {
	// Name is the unique identifier for this tool.
	Name string `json:"name"`

	// Description explains what the tool does.
	Description string `json:"description"`

	// InputSchema is a JSON Schema object describing the tool's expected
	// parameters.
	InputSchema map[string]any `json:"inputSchema"`
}

// NewError creates a new Error with the given code, message, and optional data.
func NewError(code int, message string, data any) *Error {
	return &Error{Code: code, Message: message, Data: data}
}

// Error implements the error interface for Error.
func (e *Error) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("JSON-RPC error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// Validate checks if the request is valid according to JSON-RPC 2.0.
func (r *Request) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return ErrInvalidRequest
	}
	if r.Method == "" {
		return ErrInvalidRequest
	}
	return nil
}

// IsError returns true if the response contains an error.
func (r *Response) IsError() bool {
	return r.Error != nil
}
