// ABOUTME: Centralized configuration for the review console
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Config holds all configuration for the review console
type Config struct {
	// Storage settings
	Backend  string
	DBPath   string
	LogLevel string

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool
	SyncRetries int

	// OpenAI settings
	OpenAIKey     string
	OpenAIBaseURL string
	ChatModel     string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Backend:       strings.ToLower(getEnv("REVIEW_BACKEND", BackendSQLite)),
		DBPath:        os.Getenv("REVIEW_DB_PATH"),
		LogLevel:      getEnv("REVIEW_LOG_LEVEL", "info"),
		CharmHost:     getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:   getEnv("CHARM_DB", "review-console"),
		AutoSync:      getEnvBool("CHARM_AUTO_SYNC", true),
		SyncRetries:   getEnvInt("CHARM_SYNC_RETRIES", 2),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		ChatModel:     getEnv("REVIEW_OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:       getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:    getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:    getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Backend != BackendSQLite && c.Backend != BackendCharm {
		return fmt.Errorf("REVIEW_BACKEND must be %q or %q, got %q", BackendSQLite, BackendCharm, c.Backend)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.SyncRetries < 0 || c.SyncRetries > 10 {
		return fmt.Errorf("CHARM_SYNC_RETRIES must be 0-10, got %d", c.SyncRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive, got %v", c.Timeout)
	}
	return nil
}

// HasOpenAI reports whether drafting with the chat model is possible
func (c *Config) HasOpenAI() bool {
	return c.OpenAIKey != ""
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
