// ABOUTME: Main entry point for the review MCP server with stdio transport
// ABOUTME: Initializes config, storage, and the session manager, then serves tools
package main

import (
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/config"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/llm"
	"github.com/harper/review-console/internal/logging"
	"github.com/harper/review-console/internal/mcp"
	"github.com/harper/review-console/internal/review"
	"github.com/harper/review-console/internal/storage"
)

func main() {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	cfg, err := config.Load()
	logger := logging.New(os.Stderr, "info")
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	logger = logging.New(os.Stderr, cfg.LogLevel)

	store, err := storage.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "err", err)
	}
	defer store.Close()

	var drafter mcp.Drafter
	if cfg.HasOpenAI() {
		client, err := llm.NewOpenAIClientWithConfig(llm.ConfigFrom(cfg))
		if err != nil {
			logger.Warn("failed to initialize OpenAI client", "err", err)
		} else {
			drafter = client
		}
	} else {
		logger.Warn("OPENAI_API_KEY not set, draft_considerations will be unavailable")
	}

	manager := review.NewManager(store, decision.Default(), association.DefaultTopics(), logger)

	server := mcpserver.NewMCPServer(
		"Review Console",
		"0.1.0",
	)

	handlers := mcp.RegisterTools(server, manager, store, drafter, logger)
	defer handlers.Shutdown()

	logger.Info("review MCP server starting on stdio")
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Error("server error", "err", err)
	}
}
