// ABOUTME: Review storage on top of the charm KV client
// ABOUTME: Stores each review as JSON under a review:<videoID> key
package charm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/harper/review-console/internal/models"
)

// ReviewPrefix namespaces review keys
const ReviewPrefix = "review:"

// ReviewKey generates the key for a video's review
func ReviewKey(videoID string) string {
	return ReviewPrefix + videoID
}

// KV is the subset of the client the review store needs
type KV interface {
	Set(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
	ListKeys(prefix string) ([]string, error)
	Close() error
}

// ReviewStore persists reviews in charm KV
type ReviewStore struct {
	kv KV
}

// NewReviewStore wraps a KV
func NewReviewStore(kv KV) *ReviewStore {
	return &ReviewStore{kv: kv}
}

// SaveReview stores the review, replacing any previous one for the video.
// The creation time of an existing review is kept.
func (s *ReviewStore) SaveReview(ctx context.Context, r *models.Review) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid review: %w", err)
	}

	existing, err := s.GetReview(ctx, r.VideoID)
	if err != nil {
		return err
	}
	toSave := *r
	if existing != nil && !existing.CreatedAt.IsZero() {
		toSave.CreatedAt = existing.CreatedAt
	}

	data, err := json.Marshal(&toSave)
	if err != nil {
		return fmt.Errorf("failed to marshal review: %w", err)
	}
	return s.kv.Set(ReviewKey(r.VideoID), data)
}

// GetReview returns the review for a video, or nil if none is saved
func (s *ReviewStore) GetReview(_ context.Context, videoID string) (*models.Review, error) {
	data, err := s.kv.Get(ReviewKey(videoID))
	if err != nil {
		return nil, fmt.Errorf("failed to get review %s: %w", videoID, err)
	}
	if data == nil {
		return nil, nil
	}

	var r models.Review
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode review %s: %w", videoID, err)
	}
	if r.Decisions == nil {
		r.Decisions = map[string]bool{}
	}
	if r.Rows == nil {
		r.Rows = []models.Row{}
	}
	return &r, nil
}

// ListReviews returns every saved review, most recently updated first
func (s *ReviewStore) ListReviews(ctx context.Context) ([]*models.Review, error) {
	keys, err := s.kv.ListKeys(ReviewPrefix)
	if err != nil {
		return nil, err
	}

	var reviews []*models.Review
	for _, key := range keys {
		r, err := s.GetReview(ctx, strings.TrimPrefix(key, ReviewPrefix))
		if err != nil {
			return nil, err
		}
		if r != nil {
			reviews = append(reviews, r)
		}
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		if reviews[i].UpdatedAt.Equal(reviews[j].UpdatedAt) {
			return reviews[i].VideoID < reviews[j].VideoID
		}
		return reviews[i].UpdatedAt.After(reviews[j].UpdatedAt)
	})
	return reviews, nil
}

// DeleteReview removes the review for a video
func (s *ReviewStore) DeleteReview(ctx context.Context, videoID string) error {
	existing, err := s.GetReview(ctx, videoID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", models.ErrReviewNotFound, videoID)
	}
	return s.kv.Delete(ReviewKey(videoID))
}

// Close closes the underlying KV
func (s *ReviewStore) Close() error {
	return s.kv.Close()
}
