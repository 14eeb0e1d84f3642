// ABOUTME: Review storage operations for SQLite
// ABOUTME: Upserts a review by video and replaces its rows in one transaction
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/review-console/internal/models"
)

// ReviewStore handles review persistence
type ReviewStore struct {
	db *DB
}

// NewReviewStore creates a new ReviewStore over an open database
func NewReviewStore(db *DB) *ReviewStore {
	return &ReviewStore{db: db}
}

// NewStore opens the database at path and returns a ReviewStore owning it
func NewStore(path string) (*ReviewStore, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewReviewStore(db), nil
}

// NewStoreInMemory returns a ReviewStore over a fresh in-memory database
func NewStoreInMemory() (*ReviewStore, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return NewReviewStore(db), nil
}

// Close closes the underlying database
func (s *ReviewStore) Close() error {
	return s.db.Close()
}

// SaveReview inserts or replaces the review for its video
func (s *ReviewStore) SaveReview(ctx context.Context, r *models.Review) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid review: %w", err)
	}

	decisions, err := json.Marshal(r.Decisions)
	if err != nil {
		return fmt.Errorf("failed to marshal decisions: %w", err)
	}

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := r.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reviews (video_id, review_id, decisions, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			review_id = excluded.review_id,
			decisions = excluded.decisions,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, r.VideoID, r.ReviewID, string(decisions), r.Notes, formatTime(createdAt), formatTime(updatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert review: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM review_rows WHERE video_id = ?`, r.VideoID); err != nil {
		return fmt.Errorf("failed to clear rows: %w", err)
	}

	for i, row := range r.Rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO review_rows (video_id, position, row_id, topic_id, sub_topic_id, correction)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.VideoID, i, row.ID, row.TopicID, row.SubTopicID, string(row.Correction))
		if err != nil {
			return fmt.Errorf("failed to insert row %s: %w", row.ID, err)
		}
	}

	return tx.Commit()
}

// GetReview returns the review for a video, or nil if none is saved
func (s *ReviewStore) GetReview(ctx context.Context, videoID string) (*models.Review, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT video_id, review_id, decisions, notes, created_at, updated_at
		FROM reviews
		WHERE video_id = ?
	`, videoID)

	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if r.Rows, err = s.loadRows(ctx, videoID); err != nil {
		return nil, err
	}
	return r, nil
}

// ListReviews returns every saved review, most recently updated first
func (s *ReviewStore) ListReviews(ctx context.Context) ([]*models.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT video_id, review_id, decisions, notes, created_at, updated_at
		FROM reviews
		ORDER BY updated_at DESC, video_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}

	var reviews []*models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// Release the cursor before issuing the per-review row queries
	_ = rows.Close()

	for _, r := range reviews {
		if r.Rows, err = s.loadRows(ctx, r.VideoID); err != nil {
			return nil, err
		}
	}
	return reviews, nil
}

// DeleteReview removes the review for a video and its rows
func (s *ReviewStore) DeleteReview(ctx context.Context, videoID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE video_id = ?`, videoID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrReviewNotFound, videoID)
	}
	return nil
}

func (s *ReviewStore) loadRows(ctx context.Context, videoID string) ([]models.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_id, topic_id, sub_topic_id, correction
		FROM review_rows
		WHERE video_id = ?
		ORDER BY position
	`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.Row{}
	for rows.Next() {
		var (
			row                             models.Row
			topicID, subTopicID, correction sql.NullString
		)
		if err := rows.Scan(&row.ID, &topicID, &subTopicID, &correction); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row.TopicID = topicID.String
		row.SubTopicID = subTopicID.String
		row.Correction = models.Correction(correction.String)
		out = append(out, row)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReview(sc scanner) (*models.Review, error) {
	var (
		r                    models.Review
		decisions            string
		notes                sql.NullString
		createdAt, updatedAt string
	)
	if err := sc.Scan(&r.VideoID, &r.ReviewID, &decisions, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(decisions), &r.Decisions); err != nil {
		return nil, fmt.Errorf("failed to decode decisions for %s: %w", r.VideoID, err)
	}
	if r.Decisions == nil {
		r.Decisions = map[string]bool{}
	}
	r.Notes = notes.String
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}

// timeLayout is fixed width so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
