// ABOUTME: Edit session for one video's review decision form
// ABOUTME: Owns the decision state and association rows from open to save or discard
package review

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/models"
)

// ErrLastRow is returned when removing the only remaining association row
var ErrLastRow = errors.New("the form must keep at least one row")

// Session is a single open review form. It is not safe for concurrent use;
// Manager serializes access when sessions are shared.
type Session struct {
	ID       string
	ReviewID string
	VideoID  string
	OpenedAt time.Time

	tax       *decision.Taxonomy
	decisions decision.State
	rows      *association.List
	createdAt time.Time
	logger    *log.Logger
}

// Open starts a fresh session: every decision unselected, one empty row
func Open(videoID string, tax *decision.Taxonomy, topics *association.TopicTable, logger *log.Logger) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.New().String(),
		ReviewID:  uuid.New().String(),
		VideoID:   videoID,
		OpenedAt:  now,
		tax:       tax,
		decisions: tax.Initialize(),
		rows:      association.NewList(topics),
		createdAt: now,
		logger:    logger.With("video", videoID),
	}
	s.rows.Add()
	s.logger.Debug("review session opened", "session", s.ID)
	return s
}

// Resume starts a session from a previously saved review. Decisions the
// taxonomy no longer knows are dropped with a warning.
func Resume(rec *models.Review, tax *decision.Taxonomy, topics *association.TopicTable, logger *log.Logger) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		ReviewID:  rec.ReviewID,
		VideoID:   rec.VideoID,
		OpenedAt:  time.Now().UTC(),
		tax:       tax,
		rows:      association.FromRows(topics, rec.Rows),
		createdAt: rec.CreatedAt,
		logger:    logger.With("video", rec.VideoID),
	}

	state, dropped := tax.Restore(rec.Decisions)
	for _, id := range dropped {
		s.logger.Warn("dropping unknown decision from saved review", "node", id)
	}
	s.decisions = state

	if s.rows.Len() == 0 {
		s.rows.Add()
	}
	s.logger.Debug("review session resumed", "session", s.ID, "review", s.ReviewID)
	return s
}

// Taxonomy returns the taxonomy the session validates toggles against
func (s *Session) Taxonomy() *decision.Taxonomy {
	return s.tax
}

// Topics returns the topic lookup table used by the rows
func (s *Session) Topics() *association.TopicTable {
	return s.rows.Topics()
}

// Toggle applies one checkbox change. An unknown node is logged and
// rejected; the session state is left untouched.
func (s *Session) Toggle(nodeID string, desired bool) error {
	next, err := s.tax.ApplyToggle(s.decisions, nodeID, desired)
	if err != nil {
		s.logger.Error("rejected decision toggle", "node", nodeID, "err", err)
		return err
	}
	s.decisions = next
	s.logger.Debug("decision toggled", "node", nodeID, "selected", desired)
	return nil
}

// Decisions returns a snapshot of the current decision state
func (s *Session) Decisions() decision.State {
	return s.decisions.Clone()
}

// Visible reports whether the form shows the node's checkbox
func (s *Session) Visible(nodeID string) bool {
	return s.tax.Visible(s.decisions, nodeID)
}

// Selected returns the selected node ids in taxonomy order
func (s *Session) Selected() []string {
	return s.tax.Selected(s.decisions)
}

// Rows returns a copy of the association rows
func (s *Session) Rows() []models.Row {
	return s.rows.Rows()
}

// AddRow appends an empty association row
func (s *Session) AddRow() models.Row {
	return s.rows.Add()
}

// RemoveRow removes a row, refusing to remove the last one
func (s *Session) RemoveRow(id string) error {
	if _, ok := s.rows.Get(id); ok && s.rows.Len() == 1 {
		return ErrLastRow
	}
	return s.rows.Remove(id)
}

// UpdateRow sets one field of a row
func (s *Session) UpdateRow(id string, field association.Field, value string) error {
	return s.rows.Update(id, field, value)
}

// Record snapshots the session for persistence
func (s *Session) Record() *models.Review {
	return &models.Review{
		ReviewID:  s.ReviewID,
		VideoID:   s.VideoID,
		Decisions: s.decisions.Clone(),
		Rows:      s.rows.Rows(),
		Notes:     Considerations(s),
		CreatedAt: s.createdAt,
		UpdatedAt: time.Now().UTC(),
	}
}
