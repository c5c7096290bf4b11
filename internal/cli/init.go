package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/export"
	"github.com/jmragsdale/git-journal/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up journaling for a repository",
	Long: `Prepare a repository for journaling:
  - generate the development log
  - install the post-commit hook that keeps it current
  - track the repository for aggregate and generate-all
  - ignore exported HTML files in .gitignore

Running init again is safe; it regenerates the devlog and rewrites the hook.`,
	Example: `  gitjournal init
  gitjournal init --path ~/src/api`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.GroupID = GroupRepositories
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	res, err := svc.InitRepo(cmd.Context())
	if err != nil {
		return describe(err, svc.RepoPath())
	}

	out := cmd.OutOrStdout()
	output.PrintHeading(out, "Initialized %s", res.Repo)

	if res.Devlog.Path == "" {
		output.PrintWarning(out, "No commits yet; the devlog will be created on the first commit")
	} else {
		output.PrintSuccess(out, "Generated %s (%d commits)", filepath.Base(res.Devlog.Path), res.Devlog.Commits)
	}

	output.PrintSuccess(out, "Installed post-commit hook")
	output.PrintPath(out, res.Hook.Path)
	if res.Hook.BackupPath != "" {
		output.PrintWarning(out, "Existing hook moved to %s", res.Hook.BackupPath)
	}

	if res.GitignoreUpdated {
		output.PrintSuccess(out, "Added %s to .gitignore", export.GitignorePattern)
	}
	output.PrintSuccess(out, "Tracking %s", res.Repo)
	return nil
}
