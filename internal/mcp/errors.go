package mcp

import (
	"errors"
)

// Sentinel errors for MCP operations.
// These are used for error identification and testing.
// For creating domain errors with context, wrap these with DomainError from internal/errors.
var (
	// ErrInvalidRequest indicates the JSON-RPC request is invalid or malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMethodNotFound indicates the requested JSON-RPC method does not exist.
	ErrMethodNotFound = errors.New("method not found")

	// ErrInvalidParams indicates the method parameters are invalid.
	ErrInvalidParams = errors.New("invalid params")

	// ErrToolNotFound indicates the requested tool does not exist.
	ErrToolNotFound = errors.New("tool not found")

	// ErrParseError indicates the JSON-RPC request could not be parsed.
	ErrParseError = errors.New("parse error")
)
