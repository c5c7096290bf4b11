package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/journal"
	"github.com/jmragsdale/git-journal/internal/output"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the post-commit hook",
	Long: `Manage the git post-commit hook that adds each new commit to the
development log.`,
}

var hookInstallCmd = &cobra.Command{
	Use:     "install",
	Aliases: []string{"add"},
	Short:   "Install the post-commit hook",
	Long: `Install the post-commit hook and track the repository.

An existing post-commit hook not written by gitjournal is renamed to
post-commit.backup, or post-commit.backup.N when that name is taken.`,
	Example: `  gitjournal hook install
  gitjournal hook install --path ~/src/api`,
	Args: cobra.NoArgs,
	RunE: runHookInstall,
}

var hookPostCommitCmd = &cobra.Command{
	Use:   "post-commit",
	Short: "Record the latest commit in the devlog (run by the hook)",
	Long: `Add the commit at HEAD to the top of the development log without
regenerating the rest. Merge commits are skipped.

This is what the installed hook runs; it is rarely useful by hand.`,
	Args: cobra.NoArgs,
	RunE: runHookPostCommit,
}

func init() {
	hookCmd.GroupID = GroupRepositories
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookPostCommitCmd)
	rootCmd.AddCommand(hookCmd)
}

func runHookInstall(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	res, err := svc.InstallHook(cmd.Context())
	if err != nil {
		return describe(err, svc.RepoPath())
	}

	out := cmd.OutOrStdout()
	output.PrintSuccess(out, "Installed post-commit hook for %s", res.Repo)
	output.PrintPath(out, res.Path)
	if res.BackupPath != "" {
		output.PrintWarning(out, "Existing hook moved to %s", res.BackupPath)
	}
	return nil
}

func runHookPostCommit(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	res, err := svc.RecordHead(cmd.Context())
	if errors.Is(err, journal.ErrEmptyHistory) {
		return nil
	}
	if err != nil {
		return describe(err, svc.RepoPath())
	}

	if res.Skipped {
		logger.WithField("commit", res.Hash).Info("merge commit not recorded")
		return nil
	}
	output.PrintSuccess(cmd.OutOrStdout(), "Devlog updated with %s", res.Hash)
	return nil
}
