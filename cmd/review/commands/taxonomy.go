// ABOUTME: CLI commands to print the decision taxonomy and topic table
// ABOUTME: Read-only views of the built-in lookup data
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/models"
)

// NewTaxonomyCmd creates the taxonomy command
func NewTaxonomyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "Show the decision tree",
		Long: `Show every decision option grouped by category.

Child options require their parent: selecting a child selects the
parent, and clearing a parent clears its children.

Examples:
  review taxonomy
  review taxonomy --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tax := decision.Default()
			if jsonOutput() {
				groups := make([]map[string]interface{}, 0)
				for _, g := range tax.Groups() {
					groups = append(groups, map[string]interface{}{
						"group": g,
						"label": g.Label(),
						"nodes": tax.InGroup(g),
					})
				}
				return printJSON(cmd.OutOrStdout(), groups)
			}
			printTree(cmd.OutOrStdout(), tax, nil)
			return nil
		},
	}
}

// NewTopicsCmd creates the topics command
func NewTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Show incident topics and sub-topics",
		Long: `Show the topics and sub-topics usable in association rows,
and the correction grades a row can carry.

Examples:
  review topics
  review topics --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topics := association.DefaultTopics().Topics()
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return printJSON(out, map[string]interface{}{
					"topics":      topics,
					"corrections": models.Corrections,
				})
			}

			for _, t := range topics {
				fmt.Fprintf(out, "%s (%s)\n", t.Label, t.ID)
				for _, s := range t.SubTopics {
					fmt.Fprintf(out, "  %s (%s)\n", s.Label, s.ID)
				}
			}
			fmt.Fprintf(out, "\nCorrections: %s, %s, %s\n",
				models.CorrectionCorrect, models.CorrectionIncorrect, models.CorrectionDebatable)
			return nil
		},
	}
}
