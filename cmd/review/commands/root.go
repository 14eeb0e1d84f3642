// ABOUTME: Root command and global flags for the review CLI
// ABOUTME: Registers every subcommand and validates output flags
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██████╗ ███████╗██╗   ██╗██╗███████╗██╗    ██╗
██╔══██╗██╔════╝██║   ██║██║██╔════╝██║    ██║
██████╔╝█████╗  ██║   ██║██║█████╗  ██║ █╗ ██║
██╔══██╗██╔══╝  ╚██╗ ██╔╝██║██╔══╝  ██║███╗██║
██║  ██║███████╗ ╚████╔╝ ██║███████╗╚███╔███╔╝
╚═╝  ╚═╝╚══════╝  ╚═══╝  ╚═╝╚══════╝ ╚══╝╚══╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Referee video review console",
		Long: banner + `
Record referee decisions for match video clips.

Each review holds a tree of decisions (basic outcome, offside, cards,
VAR) where selecting an option selects its parent and clearing an
option clears everything beneath it, plus a list of incident topics
graded as correct, incorrect, or debatable.

Reviews are stored locally in SQLite, or in Charm KV with cloud sync
when REVIEW_BACKEND=charm.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "json", "table":
				return nil
			}
			return fmt.Errorf("--format must be auto, json, or table, got %q", outputFormat)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors and suppress hints")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, or table")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewTaxonomyCmd())
	cmd.AddCommand(NewTopicsCmd())
	cmd.AddCommand(NewDecideCmd())
	cmd.AddCommand(NewEditCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewDraftCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
