package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/journal"
	"github.com/jmragsdale/git-journal/internal/output"
)

var devlogCmd = &cobra.Command{
	Use:   "devlog",
	Short: "Generate the development log for a repository",
	Long: `Regenerate the development log (DEVLOG.md by default) from the most recent
commits, newest first. Running gitjournal without a subcommand does the same.`,
	Example: `  gitjournal devlog
  gitjournal devlog --output notes/DEVLOG.md
  gitjournal devlog --path ~/src/api`,
	Args: cobra.NoArgs,
	RunE: runDevlog,
}

func init() {
	devlogCmd.GroupID = GroupDocuments
	devlogCmd.Flags().StringP("output", "o", "", "Output file (default: devlog_file from config)")
	rootCmd.Flags().StringP("output", "o", "", "Output file (default: devlog_file from config)")
	rootCmd.AddCommand(devlogCmd)
}

func runDevlog(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	out, err := outputFlag(cmd)
	if err != nil {
		return err
	}

	res, err := svc.GenerateDevlog(cmd.Context(), out)
	if errors.Is(err, journal.ErrEmptyHistory) {
		return reportEmptyHistory(cmd)
	}
	if err != nil {
		return describe(err, svc.RepoPath())
	}

	output.PrintSuccess(cmd.OutOrStdout(), "Generated %s (%d commits)", filepath.Base(res.Path), res.Commits)
	output.PrintPath(cmd.OutOrStdout(), res.Path)
	return nil
}

// outputFlag returns --output made absolute against the working
// directory, or "" when unset.
func outputFlag(cmd *cobra.Command) (string, error) {
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return "", nil
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", out, err)
	}
	return abs, nil
}

// reportEmptyHistory tells the user there was nothing to write. It is not
// a failure.
func reportEmptyHistory(cmd *cobra.Command) error {
	output.PrintWarning(cmd.OutOrStdout(), "No commits found")
	return nil
}
