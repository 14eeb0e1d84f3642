// ABOUTME: Charm KV client wrapper for cloud-synced review storage
// ABOUTME: SSH key auth via Charm with retried sync after writes
package charm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"

	"github.com/harper/review-console/internal/config"
	"github.com/harper/review-console/internal/util"
)

// Config holds charm client configuration
type Config struct {
	Host        string
	DBName      string
	AutoSync    bool
	SyncRetries int
	RetryDelay  time.Duration
}

// ConfigFrom derives the charm settings from application config
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		Host:        cfg.CharmHost,
		DBName:      cfg.CharmDBName,
		AutoSync:    cfg.AutoSync,
		SyncRetries: cfg.SyncRetries,
		RetryDelay:  500 * time.Millisecond,
	}
}

// Client wraps charm KV for storage operations
type Client struct {
	kv     *kv.KV
	config *Config
	logger *log.Logger
	mu     sync.Mutex
}

// NewClient opens the charm KV database and pulls remote data if auto sync is on
func NewClient(cfg *Config, logger *log.Logger) (*Client, error) {
	// The charm libraries read the host from the environment
	if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
		return nil, fmt.Errorf("failed to set CHARM_HOST: %w", err)
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{
		kv:     db,
		config: cfg,
		logger: logger.With("component", "charm"),
	}

	if cfg.AutoSync {
		c.syncWithRetry(context.Background())
	}

	return c, nil
}

// Close closes the KV database
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv != nil {
		err := c.kv.Close()
		c.kv = nil
		return err
	}
	return nil
}

// syncWithRetry syncs with the cloud, backing off between failed attempts.
// Failures are logged; local data stays authoritative until the next sync.
func (c *Client) syncWithRetry(ctx context.Context) {
	err := retry(ctx, c.config.SyncRetries, c.config.RetryDelay, c.kv.Sync)
	if err != nil {
		c.logger.Warn("charm sync failed", "err", err)
	}
}

// retry runs fn up to attempts+1 times with exponential backoff
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(util.CalculateBackoff(delay, attempt)):
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts+1, lastErr)
}

// ID returns the charm user ID
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// Host returns the configured charm host
func (c *Client) Host() string {
	return c.config.Host
}

// Set stores a value with the given key
func (c *Client) Set(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set([]byte(key), value); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	if c.config.AutoSync {
		c.syncWithRetry(context.Background())
	}
	return nil
}

// Get retrieves a value by key; a missing key yields nil without error
func (c *Client) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return data, err
}

// Delete removes a key
func (c *Client) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete([]byte(key)); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	if c.config.AutoSync {
		c.syncWithRetry(context.Background())
	}
	return nil
}

// ListKeys returns all keys with the given prefix
func (c *Client) ListKeys(prefix string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var result []string
	for _, key := range keys {
		if s := string(key); strings.HasPrefix(s, prefix) {
			result = append(result, s)
		}
	}
	return result, nil
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return retry(ctx, c.config.SyncRetries, c.config.RetryDelay, c.kv.Sync)
}

// Reset wipes all local data
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// GetAuthorizedKeys returns the list of linked devices/keys
func (c *Client) GetAuthorizedKeys() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.AuthorizedKeys()
}
