// ABOUTME: Storage facade selecting the configured review backend
// ABOUTME: SQLite on local disk by default, Charm KV for cloud sync
package storage

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/harper/review-console/internal/charm"
	"github.com/harper/review-console/internal/config"
	"github.com/harper/review-console/internal/models"
	"github.com/harper/review-console/internal/storage/sqlite"
)

// Store persists saved reviews keyed by video
type Store interface {
	SaveReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, videoID string) (*models.Review, error)
	ListReviews(ctx context.Context) ([]*models.Review, error)
	DeleteReview(ctx context.Context, videoID string) error
	Close() error
}

var (
	_ Store = (*sqlite.ReviewStore)(nil)
	_ Store = (*charm.ReviewStore)(nil)
)

// Open returns the backend named by cfg.Backend
func Open(cfg *config.Config, logger *log.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		path := cfg.DBPath
		if path == "" {
			path = sqlite.DefaultDBPath()
		}
		logger.Debug("opening sqlite store", "path", path)
		store, err := sqlite.NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil

	case config.BackendCharm:
		logger.Debug("opening charm store", "host", cfg.CharmHost, "db", cfg.CharmDBName)
		client, err := charm.NewClient(charm.ConfigFrom(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("opening charm store: %w", err)
		}
		return charm.NewReviewStore(client), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
