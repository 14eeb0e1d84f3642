// ABOUTME: CLI commands to show, list, and delete saved reviews
// ABOUTME: Table or JSON output controlled by the global --format flag
package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/models"
	"github.com/harper/review-console/internal/review"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <videoID>",
		Short: "Show a saved review",
		Long: `Show the saved review for a video: the decision tree with
selected options, the association rows, and the considerations text.

Examples:
  review show clip-042
  review show clip-042 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
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
	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), review.Snapshot(s))
	}
	printSession(cmd, s)
	return nil
}

// printSession writes the full text view of a session
func printSession(cmd *cobra.Command, s *review.Session) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Video:  %s\n", s.VideoID)
	fmt.Fprintf(out, "Review: %s\n\n", s.ReviewID)
	printTree(out, s.Taxonomy(), s.Decisions())
	fmt.Fprintf(out, "\nRows\n")
	printRows(out, s.Topics(), s.Rows())
	fmt.Fprintf(out, "\nConsiderations\n%s", review.Considerations(s))
}

// NewListCmd creates list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved reviews",
		Long: `List saved reviews, most recently updated first.

Examples:
  review list
  review list --format json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	reviews, err := e.store.ListReviews(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing reviews: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), reviews)
	}

	if len(reviews) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No reviews found\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "VIDEO\tSELECTED\tROWS\tUPDATED\tREVIEW ID\n")
	fmt.Fprintf(w, "-----\t--------\t----\t-------\t---------\n")
	for _, r := range reviews {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			truncate(r.VideoID, 30),
			r.SelectedCount(),
			len(r.Rows),
			formatTime(r.UpdatedAt),
			r.ReviewID)
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d review(s)\n", len(reviews))
	}
	return nil
}

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <videoID>",
		Short: "Delete a saved review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.store.DeleteReview(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, models.ErrReviewNotFound) {
					return fmt.Errorf("no saved review for video %s", args[0])
				}
				return fmt.Errorf("deleting review: %w", err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted review for %s\n", args[0])
			}
			return nil
		},
	}
}
