package cli

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/journal"
	"github.com/jmragsdale/git-journal/internal/output"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the devlog whenever a commit lands",
	Long: `Watch the repository and regenerate the development log each time HEAD
moves (commits, amends, checkouts, rebases). Bursts of changes are collapsed
using watch.debounce. Stop with Ctrl-C.

Unlike the post-commit hook this needs nothing installed in the repository.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.GroupID = GroupDocuments
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	output.PrintHeading(out, "Watching %s (Ctrl-C to stop)", svc.RepoPath())

	err = svc.Watch(ctx, func(res journal.Result, err error) {
		switch {
		case errors.Is(err, journal.ErrEmptyHistory):
			output.PrintWarning(out, "No commits found")
		case err != nil:
			output.PrintFailure(out, "%v", err)
		default:
			output.PrintSuccess(out, "Updated %s (%d commits)", filepath.Base(res.Path), res.Commits)
		}
	})
	return describe(err, svc.RepoPath())
}
