// ABOUTME: Registry of open edit sessions shared by the MCP server
// ABOUTME: Serializes access so each session sees one toggle at a time
package review

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/models"
)

// ErrSessionNotFound is returned for ids that are not open
var ErrSessionNotFound = errors.New("review session not found")

// Store is the persistence a session needs to resume and save
type Store interface {
	GetReview(ctx context.Context, videoID string) (*models.Review, error)
	SaveReview(ctx context.Context, review *models.Review) error
}

// Begin opens an edit session for a video, resuming the saved review if
// the store has one
func Begin(ctx context.Context, store Store, videoID string, tax *decision.Taxonomy, topics *association.TopicTable, logger *log.Logger) (*Session, error) {
	if videoID == "" {
		return nil, errors.New("video ID cannot be empty")
	}
	rec, err := store.GetReview(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("loading review for %s: %w", videoID, err)
	}
	if rec != nil {
		return Resume(rec, tax, topics, logger), nil
	}
	return Open(videoID, tax, topics, logger), nil
}

// Save persists the session's current record
func Save(ctx context.Context, store Store, s *Session) (*models.Review, error) {
	rec := s.Record()
	if err := store.SaveReview(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving review for %s: %w", s.VideoID, err)
	}
	s.logger.Info("review saved", "review", rec.ReviewID, "selected", rec.SelectedCount())
	return rec, nil
}

// DecisionView is one checkbox as the form renders it
type DecisionView struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Group    decision.Group `json:"group"`
	ParentID string         `json:"parent_id,omitempty"`
	Selected bool           `json:"selected"`
	Visible  bool           `json:"visible"`
}

// View is a read-only snapshot of a session
type View struct {
	SessionID      string         `json:"session_id"`
	ReviewID       string         `json:"review_id"`
	VideoID        string         `json:"video_id"`
	Decisions      []DecisionView `json:"decisions"`
	Rows           []models.Row   `json:"rows"`
	Considerations string         `json:"considerations"`
}

// Snapshot builds a View of the session
func Snapshot(s *Session) View {
	v := View{
		SessionID:      s.ID,
		ReviewID:       s.ReviewID,
		VideoID:        s.VideoID,
		Rows:           s.Rows(),
		Considerations: Considerations(s),
	}
	for _, n := range s.tax.Nodes() {
		v.Decisions = append(v.Decisions, DecisionView{
			ID:       n.ID,
			Label:    n.Label,
			Group:    n.Group,
			ParentID: n.ParentID,
			Selected: s.decisions[n.ID],
			Visible:  s.Visible(n.ID),
		})
	}
	return v
}

// Manager holds open sessions by id
type Manager struct {
	store  Store
	tax    *decision.Taxonomy
	topics *association.TopicTable
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry
func NewManager(store Store, tax *decision.Taxonomy, topics *association.TopicTable, logger *log.Logger) *Manager {
	return &Manager{
		store:    store,
		tax:      tax,
		topics:   topics,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Taxonomy returns the taxonomy sessions are opened with
func (m *Manager) Taxonomy() *decision.Taxonomy {
	return m.tax
}

// Topics returns the topic table sessions are opened with
func (m *Manager) Topics() *association.TopicTable {
	return m.topics
}

// Open begins a session for a video and registers it
func (m *Manager) Open(ctx context.Context, videoID string) (View, error) {
	s, err := Begin(ctx, m.store, videoID, m.tax, m.topics, m.logger)
	if err != nil {
		return View{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return Snapshot(s), nil
}

// Do runs fn against an open session while holding the registry lock and
// returns the resulting snapshot along with fn's error
func (m *Manager) Do(id string, fn func(*Session) error) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return View{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	err := fn(s)
	return Snapshot(s), err
}

// View returns a snapshot of an open session
func (m *Manager) View(id string) (View, error) {
	return m.Do(id, func(*Session) error { return nil })
}

// Save persists an open session; the session stays open
func (m *Manager) Save(ctx context.Context, id string) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return Save(ctx, m.store, s)
}

// Close discards an open session without saving
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// OpenSessions returns the ids of all open sessions, sorted
func (m *Manager) OpenSessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
