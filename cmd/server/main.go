// Package main provides the entry point for the Trello MCP server.
// It wires together all components using dependency injection and manages
// the server lifecycle with graceful shutdown.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skai-it/trello-mcp-server/internal/config"
	"github.com/skai-it/trello-mcp-server/internal/credentials"
	"github.com/skai-it/trello-mcp-server/internal/mcp"
	"github.com/skai-it/trello-mcp-server/internal/tools"
	"github.com/skai-it/trello-mcp-server/internal/transport"
	trelloclient "github.com/skai-it/trello-mcp-server/internal/trello"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("server configuration loaded",
		zap.String("addr", cfg.Addr),
		zap.String("service", cfg.ServiceName),
		zap.String("version", cfg.ServiceVersion),
		zap.String("trello_base_url", cfg.TrelloBaseURL),
	)

	// Wire credential resolution.
	prompter := credentials.NewTerminalPrompter(logger)
	provisioned := credentials.Credentials{
		APIKey: cfg.TrelloAPIKey,
		Token:  cfg.TrelloToken,
	}
	manager := credentials.NewManager(cfg.CredentialCacheTTL, provisioned, prompter, logger)

	// Wire the rate-limited Trello client.
	client := trelloclient.NewClient(&trelloclient.Config{
		BaseURL:        cfg.TrelloBaseURL,
		RequestTimeout: cfg.RequestTimeout,
		MaxCalls:       cfg.RateLimitMaxCalls,
		Window:         cfg.RateLimitWindow,
	}, logger)

	// Wire the tool catalog and MCP protocol handler.
	executor := tools.NewExecutor(client, manager, logger)
	registry := tools.NewRegistry(executor)

	mcpHandler := mcp.NewHandler(&mcp.Config{
		ServerName:    cfg.ServiceName,
		ServerVersion: cfg.ServiceVersion,
	}, registry, logger)

	logger.Info("mcp services initialized",
		zap.Int("tools", len(registry.ListTools())),
	)

	// Wire the HTTP transport.
	server, _, err := transport.NewTransportServices(&transport.Config{
		ServerConfig: cfg,
		MCPHandler:   mcpHandler,
		ToolRegistry: registry,
		Credentials:  manager,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("failed to create transport services", zap.Error(err))
	}

	// Create context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr))
		if err := server.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping server gracefully")
	case err := <-serverErrCh:
		logger.Error("server error", zap.Error(err))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server stopped successfully")
}

// newLogger builds a production JSON logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
