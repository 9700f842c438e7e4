// Package integration wires the full server stack against a fake Trello
// backend and exercises it over HTTP the way an MCP client would.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skai-it/trello-mcp-server/internal/config"
	"github.com/skai-it/trello-mcp-server/internal/credentials"
	"github.com/skai-it/trello-mcp-server/internal/mcp"
	"github.com/skai-it/trello-mcp-server/internal/tools"
	"github.com/skai-it/trello-mcp-server/internal/transport"
	trelloclient "github.com/skai-it/trello-mcp-server/internal/trello"
)

const (
	testKey   = "k2345678901234567890123456789012"
	testToken = "t2345678901234567890123456789012"
)

// failingPrompter guards against any code path reaching the interactive
// prompt: the stack below always runs with provisioned credentials.
type failingPrompter struct{ t *testing.T }

func (p failingPrompter) PromptForCredentials(ctx context.Context, referenceURL string) (credentials.Credentials, error) {
	p.t.Error("interactive prompt reached with provisioned credentials")
	return credentials.Credentials{}, context.Canceled
}

// fakeTrello serves the Trello endpoints the tests touch.
func fakeTrello(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /members/me/boards", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, testKey, r.URL.Query().Get("key"))
		require.Equal(t, testToken, r.URL.Query().Get("token"))
		json.NewEncoder(w).Encode([]map[string]any{ //nolint:errcheck
			{"id": "b1", "name": "Roadmap", "url": "https://trello.com/b/b1"},
		})
	})
	mux.HandleFunc("GET /boards/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "b1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id": "b1", "name": "Roadmap", "url": "https://trello.com/b/b1",
			"lists": []map[string]any{{"id": "l1", "name": "Doing"}},
		})
	})
	mux.HandleFunc("POST /cards", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id": "c1", "name": r.URL.Query().Get("name"),
			"idList": r.URL.Query().Get("idList"),
			"url":    "https://trello.com/c/c1",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newStack builds the full server from configuration, the way main does.
func newStack(t *testing.T, trelloURL string) *httptest.Server {
	t.Helper()

	t.Setenv("SERVER_ADDR", ":0")
	t.Setenv("TRELLO_BASE_URL", trelloURL)
	t.Setenv("TRELLO_API_KEY", testKey)
	t.Setenv("TRELLO_TOKEN", testToken)
	t.Setenv("SERVICE_NAME", "trello-mcp")
	t.Setenv("SERVICE_VERSION", "integration")

	cfg, err := config.Load()
	require.NoError(t, err)

	manager := credentials.NewManager(cfg.CredentialCacheTTL,
		credentials.Credentials{APIKey: cfg.TrelloAPIKey, Token: cfg.TrelloToken},
		failingPrompter{t: t}, nil)

	client := trelloclient.NewClient(&trelloclient.Config{
		BaseURL:        cfg.TrelloBaseURL,
		RequestTimeout: cfg.RequestTimeout,
		MaxCalls:       cfg.RateLimitMaxCalls,
		Window:         cfg.RateLimitWindow,
	}, nil)

	registry := tools.NewRegistry(tools.NewExecutor(client, manager, nil))
	handler := mcp.NewHandler(&mcp.Config{
		ServerName:    cfg.ServiceName,
		ServerVersion: cfg.ServiceVersion,
	}, registry, nil)

	_, router, err := transport.NewTransportServices(&transport.Config{
		ServerConfig: cfg,
		MCPHandler:   handler,
		ToolRegistry: registry,
		Credentials:  manager,
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *mcp.Error      `json:"error"`
}

func call(t *testing.T, serverURL, method string, id any, params any) rpcResponse {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp, err := http.Post(serverURL+"/mcp", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	require.Equal(t, http.StatusOK, resp.StatusCode, "JSON-RPC outcomes ride HTTP 200")

	var rpc rpcResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpc))
	return rpc
}

func TestServer_MCPSession(t *testing.T) {
	backend := fakeTrello(t)
	server := newStack(t, backend.URL)

	t.Run("initialize", func(t *testing.T) {
		rpc := call(t, server.URL, "initialize", 1, map[string]any{
			"protocolVersion": "2024-11-05",
			"clientInfo":      map[string]any{"name": "integration-test", "version": "0.1"},
		})
		require.Nil(t, rpc.Error)

		var result mcp.InitializeResult
		require.NoError(t, json.Unmarshal(rpc.Result, &result))
		assert.Equal(t, mcp.ProtocolVersion, result.ProtocolVersion)
		assert.Equal(t, "trello-mcp", result.ServerInfo.Name)
	})

	t.Run("tools list", func(t *testing.T) {
		rpc := call(t, server.URL, "tools/list", 2, nil)
		require.Nil(t, rpc.Error)

		var result mcp.ToolsListResult
		require.NoError(t, json.Unmarshal(rpc.Result, &result))
		assert.Len(t, result.Tools, 11)
		assert.Equal(t, "list_boards", result.Tools[0].Name)
		assert.Equal(t, "search_cards", result.Tools[10].Name)
	})

	t.Run("list boards", func(t *testing.T) {
		rpc := call(t, server.URL, "tools/call", 3, map[string]any{
			"name":      "list_boards",
			"arguments": map[string]any{},
		})
		require.Nil(t, rpc.Error)

		var result mcp.ToolsCallResult
		require.NoError(t, json.Unmarshal(rpc.Result, &result))
		require.Len(t, result.Content, 1)
		assert.Contains(t, result.Content[0].Text, "Roadmap")
		assert.Contains(t, result.Content[0].Text, "`b1`")
	})

	t.Run("create card", func(t *testing.T) {
		rpc := call(t, server.URL, "tools/call", 4, map[string]any{
			"name": "create_card",
			"arguments": map[string]any{
				"name":    "Ship the release",
				"list_id": "l1",
			},
		})
		require.Nil(t, rpc.Error)

		var result mcp.ToolsCallResult
		require.NoError(t, json.Unmarshal(rpc.Result, &result))
		require.Len(t, result.Content, 1)
		assert.Contains(t, result.Content[0].Text, "Card created successfully")
		assert.Contains(t, result.Content[0].Text, "`c1`")
	})

	t.Run("board not found", func(t *testing.T) {
		rpc := call(t, server.URL, "tools/call", 5, map[string]any{
			"name":      "get_board",
			"arguments": map[string]any{"board_id": "missing"},
		})
		require.NotNil(t, rpc.Error)
		assert.Equal(t, mcp.CodeResourceNotFound, rpc.Error.Code)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		rpc := call(t, server.URL, "tools/call", 6, map[string]any{
			"name":      "create_card",
			"arguments": map[string]any{"list_id": "l1"},
		})
		require.NotNil(t, rpc.Error)
		assert.Equal(t, mcp.CodeInvalidParams, rpc.Error.Code)
		assert.Contains(t, rpc.Error.Message, "missing required parameter: name")
	})

	t.Run("unknown tool", func(t *testing.T) {
		rpc := call(t, server.URL, "tools/call", 7, map[string]any{
			"name":      "archive_board",
			"arguments": map[string]any{},
		})
		require.NotNil(t, rpc.Error)
		assert.Equal(t, mcp.CodeToolNotFound, rpc.Error.Code)
	})

	t.Run("health reflects catalog", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close() //nolint:errcheck

		var health struct {
			Status     string `json:"status"`
			ToolsCount int    `json:"tools_count"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, 11, health.ToolsCount)
	})
}

func TestServer_StartAndShutdown(t *testing.T) {
	backend := fakeTrello(t)

	t.Setenv("SERVER_ADDR", ":0")
	t.Setenv("TRELLO_BASE_URL", backend.URL)
	t.Setenv("TRELLO_API_KEY", testKey)
	t.Setenv("TRELLO_TOKEN", testToken)

	cfg, err := config.Load()
	require.NoError(t, err)

	manager := credentials.NewManager(cfg.CredentialCacheTTL,
		credentials.Credentials{APIKey: cfg.TrelloAPIKey, Token: cfg.TrelloToken},
		failingPrompter{t: t}, nil)
	client := trelloclient.NewClient(&trelloclient.Config{BaseURL: cfg.TrelloBaseURL}, nil)
	registry := tools.NewRegistry(tools.NewExecutor(client, manager, nil))
	handler := mcp.NewHandler(&mcp.Config{ServerName: cfg.ServiceName, ServerVersion: cfg.ServiceVersion}, registry, nil)

	server, _, err := transport.NewTransportServices(&transport.Config{
		ServerConfig: cfg,
		MCPHandler:   handler,
		ToolRegistry: registry,
		Credentials:  manager,
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	// Wait for the listener to come up on the random port.
	var addr string
	require.Eventually(t, func() bool {
		addr = server.Addr()
		return addr != ":0" && addr != ""
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after shutdown")
	}
}
