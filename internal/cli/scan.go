package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	clierrors "github.com/jmragsdale/git-journal/internal/errors"
	"github.com/jmragsdale/git-journal/internal/output"
	"github.com/jmragsdale/git-journal/internal/scan"
)

const (
	minScanDepth = 1
	maxScanDepth = 20
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Find repositories under a directory and initialize them",
	Long: `Search a directory tree for git repositories and run init in each one.

Hidden directories and dependency or build folders (node_modules, vendor,
venv, build, dist) are skipped, and repositories are not searched for nested
repositories. You are asked to confirm before anything is changed unless
--yes is given or skip_confirmations is set.`,
	Example: `  gitjournal scan ~/Projects
  gitjournal scan ~/src --depth 2 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.GroupID = GroupRepositories
	scanCmd.Flags().IntP("depth", "d", 0, "Maximum directory depth to search (default: scan.max_depth from config)")
	scanCmd.Flags().BoolP("yes", "y", false, "Initialize without asking")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}
	cfg := svc.Config()

	depth := cfg.Scan.MaxDepth
	if cmd.Flags().Changed("depth") {
		depth, _ = cmd.Flags().GetInt("depth")
		if depth < minScanDepth || depth > maxScanDepth {
			return clierrors.InvalidDepth(depth)
		}
	}

	root := args[0]
	repos, err := scan.FindRepos(root, depth)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, scan.ErrNotADirectory) {
		return clierrors.PathNotFound(root)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(repos) == 0 {
		output.PrintWarning(out, "No git repositories found under %s", root)
		return nil
	}

	output.PrintHeading(out, "Found %d repositories", len(repos))
	for _, r := range repos {
		fmt.Fprintf(out, "  %s\n", r)
	}
	fmt.Fprintln(out)

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !cfg.SkipConfirmations {
		ok, err := output.Confirm(cmd.InOrStdin(), out, fmt.Sprintf("Initialize %d repositories?", len(repos)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
	}

	progress := output.NewProgress(out, output.DetectTerminalCapabilities())
	defer progress.Stop()

	res, err := svc.InitAll(cmd.Context(), repos, progress)
	if err != nil {
		return err
	}
	return reportBatch(cmd, "Initialized", res)
}
