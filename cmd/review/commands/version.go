// ABOUTME: Version command reporting the build and the bundled review tables
// ABOUTME: Prints the release, commit, build date, and decision/topic counts
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
)

var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
}

// VersionInfo is set at link time by cmd/review
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// SetVersion records the build stamp
func SetVersion(version, commit, date string) {
	versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

// buildReport is what version prints
type buildReport struct {
	VersionInfo
	Decisions int `json:"decision_options"`
	Topics    int `json:"topics"`
}

func currentBuild() buildReport {
	return buildReport{
		VersionInfo: versionInfo,
		Decisions:   decision.Default().Len(),
		Topics:      len(association.DefaultTopics().Topics()),
	}
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Print the referee review console release, its commit and build
date, and the size of the decision form and infringement topic table
compiled into this binary. Reviews saved by a build with different
tables are reconciled on load.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := currentBuild()
			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), b)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "review %s (commit %s, built %s)\n", b.Version, b.Commit, b.Date)
			fmt.Fprintf(w, "Decision options: %d\n", b.Decisions)
			fmt.Fprintf(w, "Topics:           %d\n", b.Topics)
			return nil
		},
	}
}
