// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to run review sessions via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/llm"
	"github.com/harper/review-console/internal/mcp"
	"github.com/harper/review-console/internal/review"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the review console as an MCP (Model Context Protocol) server,
enabling LLM agents like Claude to open review sessions, toggle
decisions, edit rows, and save reviews via stdio.

Configure in Claude Desktop's config file to enable review tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  review mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "review": {
  #       "command": "review",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}

	// Drafting is optional
	var drafter mcp.Drafter
	if e.cfg.HasOpenAI() {
		client, err := llm.NewOpenAIClientWithConfig(llm.ConfigFrom(e.cfg))
		if err != nil {
			e.logger.Warn("failed to initialize OpenAI client", "err", err)
		} else {
			drafter = client
			e.logger.Debug("OpenAI client initialized", "model", client.Model())
		}
	} else if !quiet {
		e.logger.Warn("OPENAI_API_KEY not set, draft_considerations will be unavailable")
	}

	manager := review.NewManager(e.store, decision.Default(), association.DefaultTopics(), e.logger)

	server := mcpserver.NewMCPServer(
		"Review Console",
		versionInfo.Version,
	)

	handlers := mcp.RegisterTools(server, manager, e.store, drafter, e.logger)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.logger.Info("MCP server starting on stdio", "backend", e.cfg.Backend)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		e.logger.Info("shutdown signal received, gracefully shutting down")
		handlers.Shutdown()
		e.Close()
		e.logger.Info("shutdown complete")

	case err := <-serverErr:
		handlers.Shutdown()
		e.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
