package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and tracked repositories",
	Long: `Check that the configuration is valid, the state directory is writable,
the registry can be read, and every tracked repository still exists and has
its post-commit hook.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	path, err := targetPath(cmd)
	if err != nil {
		return err
	}

	report := health.RunHealthChecks(loadOptions(cmd, path, true))
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

	if !report.Passed {
		return NewExitError(ExitFailure)
	}
	return nil
}
