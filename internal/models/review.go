// ABOUTME: Review represents the saved decision set for one video
// ABOUTME: Persisted by the storage backends when an edit session is saved
package models

import (
	"errors"
	"time"
)

// Review is the persisted outcome of an edit session
type Review struct {
	ReviewID  string          `json:"review_id" yaml:"review_id"`
	VideoID   string          `json:"video_id" yaml:"video_id"`
	Decisions map[string]bool `json:"decisions" yaml:"decisions"`
	Rows      []Row           `json:"rows" yaml:"rows"`
	Notes     string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" yaml:"updated_at"`
}

// Validate checks if the Review has valid data
func (r *Review) Validate() error {
	if r.ReviewID == "" {
		return errors.New("review ID cannot be empty")
	}
	if r.VideoID == "" {
		return errors.New("video ID cannot be empty")
	}
	if r.Decisions == nil {
		return errors.New("decisions cannot be nil")
	}
	for _, row := range r.Rows {
		if err := row.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SelectedCount returns how many decisions are selected
func (r *Review) SelectedCount() int {
	n := 0
	for _, v := range r.Decisions {
		if v {
			n++
		}
	}
	return n
}

// ErrReviewNotFound is returned by storage backends when deleting an unknown video
var ErrReviewNotFound = errors.New("review not found")
