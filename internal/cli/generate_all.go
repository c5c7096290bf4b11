package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/journal"
	"github.com/jmragsdale/git-journal/internal/output"
)

var generateAllCmd = &cobra.Command{
	Use:   "generate-all",
	Short: "Regenerate documents for every tracked repository",
	Long: `Regenerate the development log of every tracked repository, and the
changelog too with --changelog. Repositories whose path no longer exists or
that have no commits are skipped. A failure in one repository does not stop
the others; the exit status is 2 when any repository failed.`,
	Example: `  gitjournal generate-all
  gitjournal generate-all --changelog`,
	Args: cobra.NoArgs,
	RunE: runGenerateAll,
}

func init() {
	generateAllCmd.GroupID = GroupDocuments
	generateAllCmd.Flags().Bool("changelog", false, "Also regenerate each changelog")
	rootCmd.AddCommand(generateAllCmd)
}

func runGenerateAll(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	snap, err := loadRegistry(svc)
	if err != nil {
		return err
	}

	withChangelog, _ := cmd.Flags().GetBool("changelog")
	progress := output.NewProgress(cmd.OutOrStdout(), output.DetectTerminalCapabilities())
	defer progress.Stop()

	res, err := svc.GenerateAll(cmd.Context(), snap, journal.GenerateAllOptions{
		Changelog: withChangelog,
		Observer:  progress,
	})
	if err != nil {
		return describe(err, "")
	}
	return reportBatch(cmd, "Updated", res)
}

// reportBatch prints the batch summary. Any failure yields
// ExitPartialFailure; the failures were already shown per repository.
func reportBatch(cmd *cobra.Command, verb string, res journal.BatchResult) error {
	out := cmd.OutOrStdout()
	output.PrintRule(out)
	output.PrintSuccess(out, "%s %d of %d repositories", verb, res.Succeeded, res.Total)
	if res.Skipped > 0 {
		output.PrintWarning(out, "%d skipped", res.Skipped)
	}
	if res.Failed() == 0 {
		return nil
	}

	output.PrintFailure(out, "%d failed", res.Failed())
	for _, f := range res.Failures {
		logger.WithError(f.Err).WithField("repo", f.Name).Debug("batch failure")
	}
	return NewExitError(ExitPartialFailure)
}
