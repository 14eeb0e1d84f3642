// ABOUTME: MCP tool handler implementations for the review server
// ABOUTME: Thin adapters over review.Manager; failures become tool-result errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/models"
	"github.com/harper/review-console/internal/review"
)

// Store is the saved-review listing used by list_reviews
type Store interface {
	ListReviews(ctx context.Context) ([]*models.Review, error)
}

// Drafter turns a considerations summary into prose
type Drafter interface {
	DraftConsiderations(ctx context.Context, summary string) (string, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	manager *review.Manager
	store   Store
	drafter Drafter
	logger  *log.Logger
}

// NewHandlers creates handlers over an existing session manager
func NewHandlers(manager *review.Manager, store Store, drafter Drafter, logger *log.Logger) *Handlers {
	return &Handlers{
		manager: manager,
		store:   store,
		drafter: drafter,
		logger:  logger,
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListTaxonomy handles the list_taxonomy tool
func (h *Handlers) ListTaxonomy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tax := h.manager.Taxonomy()

	groups := make([]map[string]interface{}, 0, len(tax.Groups()))
	for _, g := range tax.Groups() {
		groups = append(groups, map[string]interface{}{
			"group": string(g),
			"label": g.Label(),
			"nodes": tax.InGroup(g),
		})
	}

	return jsonResult(map[string]interface{}{
		"groups": groups,
	})
}

// ListTopics handles the list_topics tool
func (h *Handlers) ListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]interface{}{
		"topics":      h.manager.Topics().Topics(),
		"corrections": models.Corrections,
	})
}

// OpenReview handles the open_review tool
func (h *Handlers) OpenReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoID, err := request.RequireString("video_id")
	if err != nil || videoID == "" {
		return mcp.NewToolResultError("video_id argument is required and must be a string"), nil
	}

	view, err := h.manager.Open(ctx, videoID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open review: %v", err)), nil
	}

	h.logger.Info("session opened", "session", view.SessionID, "video", videoID)
	return jsonResult(view)
}

// ToggleDecision handles the toggle_decision tool
func (h *Handlers) ToggleDecision(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}
	nodeID, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError("node_id argument is required and must be a string"), nil
	}
	selected, err := request.RequireBool("selected")
	if err != nil {
		return mcp.NewToolResultError("selected argument is required and must be a boolean"), nil
	}

	view, err := h.manager.Do(sessionID, func(s *review.Session) error {
		return s.Toggle(nodeID, selected)
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("toggle failed: %v", err)), nil
	}
	return jsonResult(view)
}

// AddRow handles the add_row tool
func (h *Handlers) AddRow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	var row models.Row
	view, err := h.manager.Do(sessionID, func(s *review.Session) error {
		row = s.AddRow()
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add row failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"row_id":  row.ID,
		"session": view,
	})
}

// RemoveRow handles the remove_row tool
func (h *Handlers) RemoveRow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}
	rowID, err := request.RequireString("row_id")
	if err != nil {
		return mcp.NewToolResultError("row_id argument is required and must be a string"), nil
	}

	view, err := h.manager.Do(sessionID, func(s *review.Session) error {
		return s.RemoveRow(rowID)
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("remove row failed: %v", err)), nil
	}
	return jsonResult(view)
}

// UpdateRow handles the update_row tool
func (h *Handlers) UpdateRow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}
	rowID, err := request.RequireString("row_id")
	if err != nil {
		return mcp.NewToolResultError("row_id argument is required and must be a string"), nil
	}
	fieldName, err := request.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError("field argument is required and must be a string"), nil
	}
	value := request.GetString("value", "")

	field, err := association.ParseField(fieldName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	view, err := h.manager.Do(sessionID, func(s *review.Session) error {
		return s.UpdateRow(rowID, field, value)
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("update row failed: %v", err)), nil
	}
	return jsonResult(view)
}

// GetReview handles the get_review tool
func (h *Handlers) GetReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	view, err := h.manager.View(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(view)
}

// SaveReview handles the save_review tool
func (h *Handlers) SaveReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	rec, err := h.manager.Save(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save review: %v", err)), nil
	}

	h.logger.Info("review saved", "session", sessionID, "video", rec.VideoID)
	return jsonResult(map[string]interface{}{
		"success":    true,
		"review_id":  rec.ReviewID,
		"video_id":   rec.VideoID,
		"selected":   rec.SelectedCount(),
		"updated_at": rec.UpdatedAt.Format(time.RFC3339),
	})
}

// CloseReview handles the close_review tool
func (h *Handlers) CloseReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}

	if err := h.manager.Close(sessionID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"success":    true,
		"session_id": sessionID,
	})
}

// ListReviews handles the list_reviews tool
func (h *Handlers) ListReviews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reviews, err := h.store.ListReviews(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reviews: %v", err)), nil
	}

	summaries := make([]map[string]interface{}, 0, len(reviews))
	for _, r := range reviews {
		summaries = append(summaries, map[string]interface{}{
			"video_id":   r.VideoID,
			"review_id":  r.ReviewID,
			"selected":   r.SelectedCount(),
			"rows":       len(r.Rows),
			"updated_at": r.UpdatedAt.Format(time.RFC3339),
		})
	}

	return jsonResult(map[string]interface{}{
		"reviews": summaries,
	})
}

// DraftConsiderations handles the draft_considerations tool
func (h *Handlers) DraftConsiderations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id argument is required and must be a string"), nil
	}
	if h.drafter == nil {
		return mcp.NewToolResultError("drafting unavailable: OPENAI_API_KEY not set"), nil
	}

	view, err := h.manager.View(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	draft, err := h.drafter.DraftConsiderations(ctx, view.Considerations)
	if err != nil {
		h.logger.Warn("draft failed", "session", sessionID, "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("draft failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"considerations": view.Considerations,
		"draft":          draft,
	})
}

// Shutdown discards any sessions still open, logging each one
func (h *Handlers) Shutdown() {
	for _, id := range h.manager.OpenSessions() {
		h.logger.Warn("discarding unsaved session", "session", id)
		_ = h.manager.Close(id)
	}
}
