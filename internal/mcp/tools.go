// ABOUTME: MCP tool definitions and registration for the review server
// ABOUTME: Defines JSON schemas for the review session tools
package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/review-console/internal/review"
)

func sessionProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by open_review",
	}
}

// RegisterTools registers all MCP tools with the server. drafter may be nil
// when no chat model is configured.
func RegisterTools(server *mcpserver.MCPServer, manager *review.Manager, store Store, drafter Drafter, logger *log.Logger) *Handlers {
	handlers := NewHandlers(manager, store, drafter, logger)

	// 1. list_taxonomy - decision nodes grouped by category
	server.AddTool(mcp.Tool{
		Name:        "list_taxonomy",
		Description: "List every decision node with its group and parent. Selecting a child requires its parent; clearing a parent clears its children.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListTaxonomy)

	// 2. list_topics - association topics and sub-topics
	server.AddTool(mcp.Tool{
		Name:        "list_topics",
		Description: "List the incident topics and their sub-topics usable in association rows.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListTopics)

	// 3. open_review - start or resume an edit session
	server.AddTool(mcp.Tool{
		Name:        "open_review",
		Description: "Open an edit session for a video. Resumes the saved review if one exists.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"video_id": map[string]interface{}{
					"type":        "string",
					"description": "Video being reviewed",
				},
			},
			Required: []string{"video_id"},
		},
	}, handlers.OpenReview)

	// 4. toggle_decision - set a decision node
	server.AddTool(mcp.Tool{
		Name:        "toggle_decision",
		Description: "Select or clear a decision node. Ancestors and descendants are updated automatically.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"node_id": map[string]interface{}{
					"type":        "string",
					"description": "Decision node ID from list_taxonomy",
				},
				"selected": map[string]interface{}{
					"type":        "boolean",
					"description": "true to select, false to clear",
				},
			},
			Required: []string{"session_id", "node_id", "selected"},
		},
	}, handlers.ToggleDecision)

	// 5. add_row - append an empty association row
	server.AddTool(mcp.Tool{
		Name:        "add_row",
		Description: "Append an empty association row to the session.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}, handlers.AddRow)

	// 6. remove_row - delete an association row
	server.AddTool(mcp.Tool{
		Name:        "remove_row",
		Description: "Remove an association row. The last remaining row cannot be removed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"row_id": map[string]interface{}{
					"type":        "string",
					"description": "Row ID to remove",
				},
			},
			Required: []string{"session_id", "row_id"},
		},
	}, handlers.RemoveRow)

	// 7. update_row - set a row field
	server.AddTool(mcp.Tool{
		Name:        "update_row",
		Description: "Set one field of an association row. Changing the topic clears the sub-topic. An empty value clears the field.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"row_id": map[string]interface{}{
					"type":        "string",
					"description": "Row ID to update",
				},
				"field": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"topic", "subTopic", "correction"},
					"description": "Field to set",
				},
				"value": map[string]interface{}{
					"type":        "string",
					"description": "New value (topic ID, sub-topic ID, or correct/incorrect/debatable)",
				},
			},
			Required: []string{"session_id", "row_id", "field"},
		},
	}, handlers.UpdateRow)

	// 8. get_review - snapshot of an open session
	server.AddTool(mcp.Tool{
		Name:        "get_review",
		Description: "Get the current decisions, rows, and considerations of an open session.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}, handlers.GetReview)

	// 9. save_review - persist an open session
	server.AddTool(mcp.Tool{
		Name:        "save_review",
		Description: "Save the session's review. The session stays open.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}, handlers.SaveReview)

	// 10. close_review - discard an open session
	server.AddTool(mcp.Tool{
		Name:        "close_review",
		Description: "Close a session. Unsaved changes are discarded.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}, handlers.CloseReview)

	// 11. list_reviews - saved reviews
	server.AddTool(mcp.Tool{
		Name:        "list_reviews",
		Description: "List saved reviews, most recently updated first.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListReviews)

	// 12. draft_considerations - LLM training note
	server.AddTool(mcp.Tool{
		Name:        "draft_considerations",
		Description: "Draft a short referee training note from the session's considerations. Requires an OpenAI API key.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}, handlers.DraftConsiderations)

	return handlers
}
