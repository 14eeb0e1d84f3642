// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Config and store bootstrap, JSON output, and time formatting
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/review-console/internal/config"
	"github.com/harper/review-console/internal/logging"
	"github.com/harper/review-console/internal/storage"
)

// env bundles what most commands need
type env struct {
	cfg    *config.Config
	logger *log.Logger
	store  storage.Store
}

// loadConfig reads .env (if present) and the environment
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the command logger; --verbose and --quiet override the configured level
func newLogger(cmd *cobra.Command, cfg *config.Config) *log.Logger {
	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	return logging.New(cmd.ErrOrStderr(), level)
}

// openEnv loads config and opens the configured store
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd, cfg)

	store, err := storage.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	return &env{cfg: cfg, logger: logger, store: store}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing storage", "err", err)
	}
}

func jsonOutput() bool {
	return outputFormat == "json"
}

func printJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", jsonData)
	return err
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}
