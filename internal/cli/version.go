package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for gitjournal",
	Example: `  # Show version info
  gitjournal version

  # Plain output (for scripts)
  gitjournal version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		if plain {
			printPlainVersion(cmd.OutOrStdout())
			return
		}
		printPrettyVersion(cmd.OutOrStdout())
	},
}

func init() {
	versionCmd.GroupID = GroupConfiguration
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
	rootCmd.AddCommand(versionCmd)
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(out io.Writer) {
	fmt.Fprintf(out, "gitjournal %s\n", build.Version)
	fmt.Fprintf(out, "commit: %s\n", build.Commit)
	fmt.Fprintf(out, "built: %s\n", build.BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(out io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	info := []struct {
		label string
		value string
	}{
		{"Version", build.Version},
		{"Commit", build.ShortCommit()},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}

	fmt.Fprintf(out, "\n  %s\n", cyan("gitjournal"))
	fmt.Fprintf(out, "  %s\n\n", dim("devlogs and changelogs from git history"))
	for _, item := range info {
		fmt.Fprintf(out, "  %s  %s\n", yellow(fmt.Sprintf("%10s", item.label)), item.value)
	}
	if build.IsDevBuild() {
		fmt.Fprintf(out, "\n  %s\n", dim("development build"))
	}
	fmt.Fprintln(out)
}
