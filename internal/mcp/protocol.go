package mcp

// InitializeParams contains parameters for the initialize method.
type InitializeParams struct {
	// ProtocolVersion is the MCP protocol version the client supports.
	ProtocolVersion string `json:"protocolVersion"`

	// ClientInfo contains metadata about the client.
	ClientInfo ClientInfo `json:"clientInfo"`

	// Capabilities describes what the client supports.
	Capabilities map[string]any `json:"capabilities,omitempty"`
}

// ClientInfo contains metadata about the MCP client.
type ClientInfo struct {
	// Name is the client name.
	Name string `json:"name"`

	// Version is the client version.
	Version string `json:"version"`
}

// InitializeResult is the result of the initialize method.
type InitializeResult struct {
	// ProtocolVersion is the MCP protocol version the server supports.
	ProtocolVersion string `json:"protocolVersion"`

	// ServerInfo contains metadata about the server.
	ServerInfo ServerInfoResponse `json:"serverInfo"`

	// Capabilities describes what the server supports.
	Capabilities Capabilities `json:"capabilities"`
}

// ServerInfoResponse contains metadata about the MCP server.
type ServerInfoResponse struct {
	// Name is the server name.
	Name string `json:"name"`

	// Version is the server version.
	Version string `json:"version"`
}

// Capabilities describes what the MCP server supports.
type Capabilities struct {
	// Tools indicates the server supports tools.
	Tools *ToolsCapability `json:"tools,omitempty"`

	// Resources indicates the server supports resources.
	Resources *ResourcesCapability `json:"resources,omitempty"`

	// Prompts indicates the server supports prompts.
	Prompts *PromptsCapability `json:"prompts,omitempty"`
}

// ToolsCapability indicates tools support.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ResourcesCapability indicates resources support.
type ResourcesCapability struct {
	Subscribe   bool `json:"subscribe,omitempty"`
	ListChanged bool `json:"listChanged,omitempty"`
}

// PromptsCapability indicates prompts support.
type PromptsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ToolsListResult is the result of the tools/list method.
type ToolsListResult struct {
	// Tools is the list of available tools.
	Tools []ToolDefinition `json:"tools"`
}

// ToolsCallParams contains parameters for the tools/call method.
type ToolsCallParams struct {
	// Name is the tool name to call.
	Name string `json:"name"`

	// Arguments contains the tool-specific arguments.
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolsCallResult is the result of the tools/call method.
type ToolsCallResult struct {
	// Content contains the tool execution results.
	Content []Content `json:"content"`

	// IsError indicates if the tool execution failed.
	IsError bool `json:"isError,omitempty"`
}

// Content represents a piece of content in a tool result.
type Content struct {
	// Type is the content type; this server only produces "text".
	Type string `json:"type"`

	// Text contains the text content.
	Text string `json:"text,omitempty"`
}

// ResourcesListResult is the result of the resources/list method.
// This server manages no resources, so Resources is always empty.
type ResourcesListResult struct {
	Resources []ResourceDefinition `json:"resources"`
}

// ResourceDefinition describes a resource for client discovery.
type ResourceDefinition struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// PromptsListResult is the result of the prompts/list method.
// This server manages no prompts, so Prompts is always empty.
type PromptsListResult struct {
	Prompts []PromptDefinition `json:"prompts"`
}

// PromptDefinition describes a prompt for client discovery.
type PromptDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
