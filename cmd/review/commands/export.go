// ABOUTME: Export command writing all saved reviews to a file or stdout
// ABOUTME: Supports yaml, json, and markdown output
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/review-console/internal/association"
	"github.com/harper/review-console/internal/decision"
	"github.com/harper/review-console/internal/storage"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved reviews",
		Long: `Export every saved review with its selected decisions, rows,
and considerations text.

Formats: yaml (default), json, markdown.

Examples:
  review export
  review export -f json -o reviews.json
  review export -f markdown -o reviews.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var write func(io.Writer, *storage.ExportData) error
			switch format {
			case "yaml", "yml":
				write = storage.WriteYAML
			case "json":
				write = storage.WriteJSON
			case "markdown", "md":
				write = storage.WriteMarkdown
			default:
				return fmt.Errorf("unknown export format %q (yaml, json, markdown)", format)
			}

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			data, err := storage.Export(cmd.Context(), e.store, decision.Default(), association.DefaultTopics())
			if err != nil {
				return err
			}

			if output == "" {
				return write(cmd.OutOrStdout(), data)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := write(f, data); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", output, err)
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d review(s) to %s\n", len(data.Reviews), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Export format: yaml, json, or markdown")

	return cmd
}
