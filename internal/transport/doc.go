// Package transport provides the HTTP transport layer for the Trello MCP server.
//
// # Architecture
//
// The transport package implements the HTTP surface that carries the MCP
// JSON-RPC protocol plus the discovery and operational endpoints. It
// follows the adapter pattern to bridge the MCP vertical with HTTP.
//
// Package structure:
//
//	internal/transport/
//	├── transport.go              # Public interfaces
//	├── wire.go                   # Factory functions
//	├── transportcore/            # Shared types, breaks import cycles
//	├── internal/
//	│   ├── http/
//	│   │   ├── server.go         # HTTP server with graceful shutdown
//	│   │   ├── router.go         # HTTP routing
//	│   │   └── response.go       # JSON error responder
//	│   ├── middleware/
//	│   │   ├── recovery.go       # Panic recovery
//	│   │   ├── requestid.go      # Request correlation IDs
//	│   │   ├── logging.go        # Request logging
//	│   │   ├── metrics.go        # Prometheus metrics
//	│   │   └── auth.go           # Optional bearer token gate
//	│   └── handlers/
//	│       ├── mcp.go            # MCP protocol endpoint
//	│       ├── health.go         # Health check endpoint
//	│       ├── info.go           # Server information
//	│       ├── tools.go          # Tool catalog over plain HTTP
//	│       └── login.go          # Login instructions and session state
//
// # Middleware Chain
//
// The middleware chain is applied in this order:
//
//  1. Recovery - catches panics and returns 500 errors
//  2. Request ID - assigns the X-Request-ID correlation header
//  3. Logging - logs request details
//  4. Metrics - records Prometheus counters and histograms
//  5. Authentication - validates a bearer token (POST /mcp, only when
//     an auth secret is configured)
//
// # Endpoints
//
//   - GET  /           - Server information
//   - GET  /health     - Health check with tool count
//   - GET  /tools      - Tool catalog
//   - GET  /auth/login - Login instructions and credential session state
//   - GET  /metrics    - Prometheus metrics
//   - POST /mcp        - MCP protocol (JSON-RPC 2.0)
//
// JSON-RPC failures on /mcp ride HTTP 200 as protocol error objects;
// non-200 statuses are reserved for transport-level problems.
package transport
