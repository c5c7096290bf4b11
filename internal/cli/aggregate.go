package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/output"
)

var aggregateCmd = &cobra.Command{
	Use:     "aggregate",
	Aliases: []string{"combine"},
	Short:   "Combine the devlogs of all tracked repositories",
	Long: `Merge recent commits from every tracked repository into one chronological
log (~/.gitjournal/COMBINED_DEVLOG.md by default). Each repository
contributes up to aggregate.commits_per_repo commits and the document holds
at most aggregate.max_entries entries. Repositories whose path no longer
exists are reported and skipped.`,
	Example: `  gitjournal aggregate
  gitjournal aggregate --output ~/notes/all-work.md`,
	Args: cobra.NoArgs,
	RunE: runAggregate,
}

func init() {
	aggregateCmd.GroupID = GroupDocuments
	aggregateCmd.Flags().StringP("output", "o", "", "Output file (default: aggregate.output_file or ~/.gitjournal/COMBINED_DEVLOG.md)")
	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	snap, err := loadRegistry(svc)
	if err != nil {
		return err
	}
	out, err := outputFlag(cmd)
	if err != nil {
		return err
	}

	res, err := svc.Aggregate(cmd.Context(), snap, out)
	if err != nil {
		return describe(err, res.Path)
	}

	w := cmd.OutOrStdout()
	for _, name := range res.Missing {
		output.PrintWarning(w, "%s: path not found, skipped", name)
	}
	for _, f := range res.Failures {
		output.PrintFailure(w, "%s: %v", f.Name, f.Err)
	}
	output.PrintSuccess(w, "Combined %d of %d repositories", len(res.Included), snap.Len())
	output.PrintPath(w, res.Path)
	return nil
}
