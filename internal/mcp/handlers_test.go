// ABOUTME: Tests for the MCP review tool handlers
// ABOUTME: Drives handlers directly with an in-memory SQLite store
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/logging"
	"github.com/harper/review-console/internal/review"
	"github.com/harper/review-console/internal/storage/sqlite"
)

type fakeDrafter struct {
	got string
	err error
}

func (f *fakeDrafter) DraftConsiderations(_ context.Context, summary string) (string, error) {
	f.got = summary
	if f.err != nil {
		return "", f.err
	}
	return "draft note", nil
}

func newTestHandlers(t *testing.T, drafter Drafter) *Handlers {
	t.Helper()
	store, err := sqlite.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	manager := review.NewManager(store, decision.Default(), association.DefaultTopics(), logging.Discard())
	return NewHandlers(manager, store, drafter, logging.Discard())
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("result content is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func decodeView(t *testing.T, res *mcp.CallToolResult) review.View {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	var view review.View
	if err := json.Unmarshal([]byte(resultText(t, res)), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view
}

func selected(view review.View) map[string]bool {
	out := make(map[string]bool)
	for _, d := range view.Decisions {
		if d.Selected {
			out[d.ID] = true
		}
	}
	return out
}

func openSession(t *testing.T, h *Handlers, videoID string) review.View {
	t.Helper()
	res, err := h.OpenReview(context.Background(), call(map[string]any{"video_id": videoID}))
	if err != nil {
		t.Fatalf("OpenReview() error = %v", err)
	}
	return decodeView(t, res)
}

func TestListTaxonomyAndTopics(t *testing.T) {
	h := newTestHandlers(t, nil)
	ctx := context.Background()

	res, err := h.ListTaxonomy(ctx, call(nil))
	if err != nil || res.IsError {
		t.Fatalf("ListTaxonomy() = %v, %v", res, err)
	}
	if !strings.Contains(resultText(t, res), decision.VARMistakenIdentity) {
		t.Error("ListTaxonomy() missing VAR nodes")
	}

	res, err = h.ListTopics(ctx, call(nil))
	if err != nil || res.IsError {
		t.Fatalf("ListTopics() = %v, %v", res, err)
	}
	if !strings.Contains(resultText(t, res), "handball") {
		t.Error("ListTopics() missing handball")
	}
}

func TestToggleDecision_Cascades(t *testing.T) {
	h := newTestHandlers(t, nil)
	ctx := context.Background()
	view := openSession(t, h, "clip-1")

	res, _ := h.ToggleDecision(ctx, call(map[string]any{
		"session_id": view.SessionID,
		"node_id":    decision.OffsideInterferingPlay,
		"selected":   true,
	}))
	got := selected(decodeView(t, res))
	if !got[decision.Offside] || !got[decision.OffsideInterferingPlay] {
		t.Errorf("selecting a child should select its parent, got %v", got)
	}

	res, _ = h.ToggleDecision(ctx, call(map[string]any{
		"session_id": view.SessionID,
		"node_id":    decision.Offside,
		"selected":   false,
	}))
	if got := selected(decodeView(t, res)); len(got) != 0 {
		t.Errorf("clearing the parent should clear children, got %v", got)
	}
}

func TestToggleDecision_Errors(t *testing.T) {
	h := newTestHandlers(t, nil)
	ctx := context.Background()
	view := openSession(t, h, "clip-1")

	tests := []struct {
		name string
		args map[string]any
	}{
		{"unknown node", map[string]any{"session_id": view.SessionID, "node_id": "bogus", "selected": true}},
		{"unknown session", map[string]any{"session_id": "nope", "node_id": decision.Goal, "selected": true}},
		{"missing selected", map[string]any{"session_id": view.SessionID, "node_id": decision.Goal}},
		{"missing node", map[string]any{"session_id": view.SessionID, "selected": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.ToggleDecision(ctx, call(tt.args))
			if err != nil {
				t.Fatalf("handler returned protocol error: %v", err)
			}
			if !res.IsError {
				t.Errorf("expected tool error, got %s", resultText(t, res))
			}
		})
	}

	// State is unchanged after the failed toggles
	res, _ := h.GetReview(ctx, call(map[string]any{"session_id": view.SessionID}))
	if got := selected(decodeView(t, res)); len(got) != 0 {
		t.Errorf("failed toggles changed state: %v", got)
	}
}

func TestRowTools(t *testing.T) {
	h := newTestHandlers(t, nil)
	ctx := context.Background()
	view := openSession(t, h, "clip-2")
	if len(view.Rows) != 1 {
		t.Fatalf("new session has %d rows, want 1", len(view.Rows))
	}
	first := view.Rows[0].ID

	// The only row cannot be removed
	res, _ := h.RemoveRow(ctx, call(map[string]any{"session_id": view.SessionID, "row_id": first}))
	if !res.IsError {
		t.Fatal("removing the last row should fail")
	}

	res, _ = h.UpdateRow(ctx, call(map[string]any{
		"session_id": view.SessionID, "row_id": first, "field": "topic", "value": "handball",
	}))
	decodeView(t, res)
	res, _ = h.UpdateRow(ctx, call(map[string]any{
		"session_id": view.SessionID, "row_id": first, "field": "subTopic", "value": "deliberate",
	}))
	decodeView(t, res)

	// Changing the topic clears the sub-topic
	res, _ = h.UpdateRow(ctx, call(map[string]any{
		"session_id": view.SessionID, "row_id": first, "field": "topic", "value": "holding",
	}))
	view = decodeView(t, res)
	if view.Rows[0].TopicID != "holding" || view.Rows[0].SubTopicID != "" {
		t.Errorf("row after topic change = %+v", view.Rows[0])
	}

	res, _ = h.UpdateRow(ctx, call(map[string]any{
		"session_id": view.SessionID, "row_id": first, "field": "colour", "value": "red",
	}))
	if !res.IsError {
		t.Error("unknown field should be a tool error")
	}

	res, _ = h.AddRow(ctx, call(map[string]any{"session_id": view.SessionID}))
	if res.IsError {
		t.Fatalf("AddRow() tool error: %s", resultText(t, res))
	}
	var added struct {
		RowID   string      `json:"row_id"`
		Session review.View `json:"session"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &added); err != nil {
		t.Fatalf("decode add_row: %v", err)
	}
	if len(added.Session.Rows) != 2 {
		t.Fatalf("rows after add = %d, want 2", len(added.Session.Rows))
	}

	res, _ = h.RemoveRow(ctx, call(map[string]any{"session_id": view.SessionID, "row_id": added.RowID}))
	if got := decodeView(t, res); len(got.Rows) != 1 {
		t.Errorf("rows after remove = %d, want 1", len(got.Rows))
	}
}

func TestSaveCloseAndList(t *testing.T) {
	h := newTestHandlers(t, nil)
	ctx := context.Background()
	view := openSession(t, h, "clip-3")

	_, _ = h.ToggleDecision(ctx, call(map[string]any{
		"session_id": view.SessionID, "node_id": decision.YellowCard, "selected": true,
	}))

	res, _ := h.SaveReview(ctx, call(map[string]any{"session_id": view.SessionID}))
	if res.IsError {
		t.Fatalf("SaveReview() tool error: %s", resultText(t, res))
	}

	res, _ = h.CloseReview(ctx, call(map[string]any{"session_id": view.SessionID}))
	if res.IsError {
		t.Fatalf("CloseReview() tool error: %s", resultText(t, res))
	}
	res, _ = h.GetReview(ctx, call(map[string]any{"session_id": view.SessionID}))
	if !res.IsError {
		t.Error("closed session should no longer be readable")
	}

	res, _ = h.ListReviews(ctx, call(nil))
	if !strings.Contains(resultText(t, res), `"video_id":"clip-3"`) {
		t.Errorf("ListReviews() = %s", resultText(t, res))
	}

	// Reopening resumes the saved decisions
	view = openSession(t, h, "clip-3")
	if !selected(view)[decision.YellowCard] {
		t.Error("reopened session lost saved decision")
	}
}

func TestDraftConsiderations(t *testing.T) {
	ctx := context.Background()

	t.Run("no drafter", func(t *testing.T) {
		h := newTestHandlers(t, nil)
		view := openSession(t, h, "clip-4")
		res, _ := h.DraftConsiderations(ctx, call(map[string]any{"session_id": view.SessionID}))
		if !res.IsError {
			t.Error("expected tool error without a drafter")
		}
	})

	t.Run("drafts from considerations", func(t *testing.T) {
		d := &fakeDrafter{}
		h := newTestHandlers(t, d)
		view := openSession(t, h, "clip-4")
		_, _ = h.ToggleDecision(ctx, call(map[string]any{
			"session_id": view.SessionID, "node_id": decision.RedCard, "selected": true,
		}))

		res, _ := h.DraftConsiderations(ctx, call(map[string]any{"session_id": view.SessionID}))
		if res.IsError {
			t.Fatalf("tool error: %s", resultText(t, res))
		}
		if !strings.Contains(resultText(t, res), "draft note") {
			t.Errorf("result = %s", resultText(t, res))
		}
		if !strings.Contains(d.got, "Red Card") {
			t.Errorf("drafter got %q, want considerations text", d.got)
		}
	})

	t.Run("drafter failure", func(t *testing.T) {
		h := newTestHandlers(t, &fakeDrafter{err: errors.New("rate limited")})
		view := openSession(t, h, "clip-4")
		res, err := h.DraftConsiderations(ctx, call(map[string]any{"session_id": view.SessionID}))
		if err != nil || !res.IsError {
			t.Errorf("DraftConsiderations() = %v, %v; want tool error", res, err)
		}
	})
}

func TestShutdownDiscardsSessions(t *testing.T) {
	h := newTestHandlers(t, nil)
	openSession(t, h, "clip-5")
	openSession(t, h, "clip-6")

	h.Shutdown()
	if n := len(h.manager.OpenSessions()); n != 0 {
		t.Errorf("OpenSessions() = %d after Shutdown, want 0", n)
	}
}
