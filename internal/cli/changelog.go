package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/changelog"
	"github.com/jmragsdale/git-journal/internal/journal"
	"github.com/jmragsdale/git-journal/internal/output"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Generate a categorized changelog",
	Long: `Classify commits into Features, Bug Fixes, Documentation, Refactoring,
Tests, Chores and Other Changes, and write the changelog (CHANGELOG.md by
default).

Conventional commit prefixes ("feat:", "fix(api):") are used when present;
other subjects are classified by keywords.`,
	Example: `  # Full history
  gitjournal changelog

  # Commits since the last release tag
  gitjournal changelog --since v1.2.0

  # Show the changelog without writing a file
  gitjournal changelog --since v1.2.0 --preview`,
	Args: cobra.NoArgs,
	RunE: runChangelog,
}

func init() {
	changelogCmd.GroupID = GroupDocuments
	changelogCmd.Flags().String("since", "", "Only include commits after this tag")
	changelogCmd.Flags().StringP("output", "o", "", "Output file (default: changelog_file from config)")
	changelogCmd.Flags().Bool("preview", false, "Print the categorized changelog instead of writing a file")
	changelogCmd.Flags().Bool("plain", false, "Plain preview output without colors or wrapping")
	rootCmd.AddCommand(changelogCmd)
}

func runChangelog(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	since, _ := cmd.Flags().GetString("since")
	preview, _ := cmd.Flags().GetBool("preview")
	out, err := outputFlag(cmd)
	if err != nil {
		return err
	}
	opts := journal.ChangelogOptions{Since: since, Output: out}

	if preview {
		return previewChangelog(cmd, svc, opts)
	}

	res, err := svc.GenerateChangelog(cmd.Context(), opts)
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

func previewChangelog(cmd *cobra.Command, svc *journal.Service, opts journal.ChangelogOptions) error {
	plain, _ := cmd.Flags().GetBool("plain")

	name, sections, err := svc.ChangelogSections(cmd.Context(), opts)
	if errors.Is(err, journal.ErrEmptyHistory) {
		return reportEmptyHistory(cmd)
	}
	if err != nil {
		return describe(err, svc.RepoPath())
	}

	out := cmd.OutOrStdout()
	output.PrintHeading(out, "Changelog for %s", name)
	if opts.Since != "" {
		fmt.Fprintf(out, "Changes since %s\n", opts.Since)
	}
	fmt.Fprintln(out)

	return changelog.FormatTerminal(sections, out, changelog.FormatOptions{
		Plain:    plain,
		MaxWidth: output.GetTerminalWidth(),
	})
}
