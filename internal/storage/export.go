// ABOUTME: Export of saved reviews for archiving and sharing
// ABOUTME: Supports YAML, JSON, and Markdown output formats
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/review"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string         `yaml:"version" json:"version"`
	ExportedAt string         `yaml:"exported_at" json:"exported_at"`
	Tool       string         `yaml:"tool" json:"tool"`
	Reviews    []ExportReview `yaml:"reviews" json:"reviews"`
}

// ExportReview is one saved review with its selections spelled out
type ExportReview struct {
	VideoID        string      `yaml:"video_id" json:"video_id"`
	ReviewID       string      `yaml:"review_id" json:"review_id"`
	Selected       []string    `yaml:"selected" json:"selected"`
	Rows           []ExportRow `yaml:"rows,omitempty" json:"rows,omitempty"`
	Considerations string      `yaml:"considerations" json:"considerations"`
	CreatedAt      string      `yaml:"created_at" json:"created_at"`
	UpdatedAt      string      `yaml:"updated_at" json:"updated_at"`
}

// ExportRow is an association row for export
type ExportRow struct {
	Topic      string `yaml:"topic,omitempty" json:"topic,omitempty"`
	SubTopic   string `yaml:"sub_topic,omitempty" json:"sub_topic,omitempty"`
	Correction string `yaml:"correction,omitempty" json:"correction,omitempty"`
}

// Export collects every saved review. Saved decisions are normalized
// against the current taxonomy before export.
func Export(ctx context.Context, store Store, tax *decision.Taxonomy, topics *association.TopicTable) (*ExportData, error) {
	reviews, err := store.ListReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "review-console",
		Reviews:    make([]ExportReview, 0, len(reviews)),
	}

	for _, r := range reviews {
		state, _ := tax.Restore(r.Decisions)
		rows := association.FromRows(topics, r.Rows).Rows()

		er := ExportReview{
			VideoID:        r.VideoID,
			ReviewID:       r.ReviewID,
			Selected:       tax.Selected(state),
			Considerations: review.RenderConsiderations(tax, state, topics, rows),
			CreatedAt:      r.CreatedAt.Format(time.RFC3339),
			UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
		}
		if er.Selected == nil {
			er.Selected = []string{}
		}
		for _, row := range rows {
			if row.IsEmpty() {
				continue
			}
			er.Rows = append(er.Rows, ExportRow{
				Topic:      row.TopicID,
				SubTopic:   row.SubTopicID,
				Correction: string(row.Correction),
			})
		}
		data.Reviews = append(data.Reviews, er)
	}

	return data, nil
}

// WriteYAML encodes the export as YAML
func WriteYAML(w io.Writer, data *ExportData) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteJSON encodes the export as indented JSON
func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteMarkdown renders the export as a Markdown document
func WriteMarkdown(w io.Writer, data *ExportData) error {
	_, _ = fmt.Fprintf(w, "# Review Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)

	if len(data.Reviews) == 0 {
		_, err := fmt.Fprintln(w, "_No saved reviews._")
		return err
	}

	for _, r := range data.Reviews {
		_, _ = fmt.Fprintf(w, "## Video %s\n\n", r.VideoID)
		_, _ = fmt.Fprintf(w, "- **Review:** %s\n", r.ReviewID)
		_, _ = fmt.Fprintf(w, "- **Updated:** %s\n\n", r.UpdatedAt)
		_, _ = fmt.Fprintln(w, "```")
		_, _ = fmt.Fprint(w, r.Considerations)
		if _, err := fmt.Fprintln(w, "```"); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w)
	}
	return nil
}
