// ABOUTME: Draft command producing an LLM training note for a saved review
// ABOUTME: Requires OPENAI_API_KEY; the deterministic considerations are the prompt
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/models"
	"github.com/harper/review-console/internal/review"
)

// NewDraftCmd creates the draft command
func NewDraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft <videoID>",
		Short: "Draft a training note for a saved review",
		Long: `Ask the chat model (REVIEW_OPENAI_MODEL, default gpt-4o-mini) to
turn a saved review's considerations into a short training note for
the referee. Requires OPENAI_API_KEY.

Examples:
  review draft clip-042`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			rec, err := e.store.GetReview(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("loading review: %w", err)
			}
			if rec == nil {
				return fmt.Errorf("%w: %s", models.ErrReviewNotFound, args[0])
			}

			s := review.Resume(rec, decision.Default(), association.DefaultTopics(), e.logger)
			summary := review.Considerations(s)

			note, err := draftNote(cmd.Context(), e.cfg, e.logger, summary)
			if err != nil {
				return fmt.Errorf("drafting: %w", err)
			}

			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"video_id":       s.VideoID,
					"considerations": summary,
					"draft":          note,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", note)
			return nil
		},
	}
}
