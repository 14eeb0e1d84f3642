// ABOUTME: CLI command applying decision toggles and rows to a review in one shot
// ABOUTME: Resumes or opens the video's review, applies flags in order, then saves
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/config"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/llm"
	"github.com/harper/review-console/internal/review"
)

// decideResult is the JSON output of decide; Draft is set by --draft
type decideResult struct {
	review.View
	Draft string `json:"draft,omitempty"`
}

// NewDecideCmd creates the decide command
func NewDecideCmd() *cobra.Command {
	var (
		on    []string
		off   []string
		rows  []string
		draft bool
	)

	cmd := &cobra.Command{
		Use:   "decide <videoID>",
		Short: "Set decisions and rows for a video and save",
		Long: `Set decisions and association rows for a video without an
interactive session.

--on options are applied first, then --off options, each in the order
given. Selecting an option also selects its parent; clearing an option
clears everything beneath it.

--row takes topic[/subTopic][:correction] and fills the first empty
row, adding rows as needed.

With --format json the draft note is included as "draft".

Examples:
  review decide clip-042 --on offsideInterferingPlay,yellowCard
  review decide clip-042 --off offside
  review decide clip-042 --row handball/deliberate:correct --draft`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			s, err := review.Begin(ctx, e.store, args[0], decision.Default(), association.DefaultTopics(), e.logger)
			if err != nil {
				return err
			}

			for _, id := range on {
				if err := s.Toggle(id, true); err != nil {
					return err
				}
			}
			for _, id := range off {
				if err := s.Toggle(id, false); err != nil {
					return err
				}
			}
			for _, arg := range rows {
				if err := applyRowArg(s, arg); err != nil {
					return fmt.Errorf("--row %q: %w", arg, err)
				}
			}

			if _, err := review.Save(ctx, e.store, s); err != nil {
				return err
			}

			note := ""
			if draft {
				note, err = draftNote(ctx, e.cfg, e.logger, review.Considerations(s))
				if err != nil {
					e.logger.Warn("draft unavailable", "err", err)
				}
			}

			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), decideResult{View: review.Snapshot(s), Draft: note})
			}
			printSession(cmd, s)
			if note != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\nDraft\n%s\n", note)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&on, "on", nil, "Decision ids to select")
	cmd.Flags().StringSliceVar(&off, "off", nil, "Decision ids to clear")
	cmd.Flags().StringArrayVar(&rows, "row", nil, "Row as topic[/subTopic][:correction] (repeatable)")
	cmd.Flags().BoolVar(&draft, "draft", false, "Also draft a training note with the chat model")

	return cmd
}

// applyRowArg fills the first empty row (adding one if none) from
// topic[/subTopic][:correction]
func applyRowArg(s *review.Session, arg string) error {
	rest, correction, _ := strings.Cut(arg, ":")
	topic, sub, _ := strings.Cut(rest, "/")
	if topic == "" {
		return association.ErrNoTopic
	}

	rowID := ""
	for _, r := range s.Rows() {
		if r.IsEmpty() {
			rowID = r.ID
			break
		}
	}
	if rowID == "" {
		rowID = s.AddRow().ID
	}

	if err := s.UpdateRow(rowID, association.FieldTopic, topic); err != nil {
		return err
	}
	if sub != "" {
		if err := s.UpdateRow(rowID, association.FieldSubTopic, sub); err != nil {
			return err
		}
	}
	if correction != "" {
		if err := s.UpdateRow(rowID, association.FieldCorrection, correction); err != nil {
			return err
		}
	}
	return nil
}

// draftNote asks the configured chat model for a training note
func draftNote(ctx context.Context, cfg *config.Config, logger *log.Logger, summary string) (string, error) {
	if !cfg.HasOpenAI() {
		return "", fmt.Errorf("%w: set OPENAI_API_KEY", llm.ErrNoAPIKey)
	}
	client, err := llm.NewOpenAIClientWithConfig(llm.ConfigFrom(cfg))
	if err != nil {
		return "", err
	}
	logger.Debug("drafting considerations", "model", client.Model())
	return client.DraftConsiderations(ctx, summary)
}
