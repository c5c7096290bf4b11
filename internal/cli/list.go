package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked repositories",
	Long: `List every repository in the registry with its path, whether the path
still exists and whether the post-commit hook was installed.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.GroupID = GroupRepositories
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	snap, err := loadRegistry(svc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if snap.Len() == 0 {
		output.PrintWarning(out, "No repositories tracked yet")
		fmt.Fprintln(out, "  Run 'gitjournal init' in a repository or 'gitjournal scan <directory>'")
		return nil
	}

	output.PrintHeading(out, "Tracked repositories (%d)", snap.Len())

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range snap.Entries() {
		status := green("ok")
		if !e.Exists() {
			status = red("missing")
		}
		hook := dim("no hook")
		if e.HookInstalled {
			hook = "hook"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", e.Name, e.Path, status, hook)
	}
	return tw.Flush()
}
