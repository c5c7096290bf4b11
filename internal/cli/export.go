package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/journal"
	"github.com/jmragsdale/git-journal/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the devlog as a standalone HTML page",
	Long: `Convert the development log to a styled HTML page that can be pasted into
note-taking apps such as OneNote. The page is written next to the source as
<name>_onenote.html and opened in the browser unless --no-open is given or
export.open_browser is false.`,
	Example: `  gitjournal export
  gitjournal export --input CHANGELOG.md --no-open`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.GroupID = GroupDocuments
	exportCmd.Flags().StringP("input", "i", "", "Markdown file to export (default: devlog_file from config)")
	exportCmd.Flags().Bool("no-open", false, "Do not open the page in a browser")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	if input != "" {
		if input, err = filepath.Abs(input); err != nil {
			return fmt.Errorf("resolving input: %w", err)
		}
	}

	opts := journal.ExportOptions{Source: input}
	if cmd.Flags().Changed("no-open") {
		noOpen, _ := cmd.Flags().GetBool("no-open")
		open := !noOpen
		opts.Open = &open
	}

	dest, err := svc.ExportHTML(cmd.Context(), opts)
	if err != nil {
		source := input
		if source == "" {
			source = svc.Config().DevlogFile
		}
		return describe(err, source)
	}

	output.PrintSuccess(cmd.OutOrStdout(), "Exported HTML")
	output.PrintPath(cmd.OutOrStdout(), dest)
	return nil
}
