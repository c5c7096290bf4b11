// Package cli implements the gitjournal command line.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jmragsdale/git-journal/internal/build"
	"github.com/jmragsdale/git-journal/internal/config"
	clierrors "github.com/jmragsdale/git-journal/internal/errors"
	"github.com/jmragsdale/git-journal/internal/git"
	"github.com/jmragsdale/git-journal/internal/journal"
	"github.com/jmragsdale/git-journal/internal/registry"
)

// Command group IDs for help output.
const (
	GroupDocuments     = "documents"
	GroupRepositories  = "repositories"
	GroupConfiguration = "configuration"
)

var logger = newLogger(os.Stderr, false, false)

var rootCmd = &cobra.Command{
	Use:   "gitjournal",
	Short: "Devlog and changelog generator for git repositories",
	Long: `gitjournal turns commit history into a chronological development log
(DEVLOG.md) and a categorized changelog (CHANGELOG.md), and keeps the devlog
current with a post-commit hook.

Run without a subcommand to generate the devlog for the current repository.`,
	Example: `  # Generate DEVLOG.md for the current repository
  gitjournal

  # Categorized changelog since the last release
  gitjournal changelog --since v1.2.0

  # Set up journaling (devlog, hook, tracking)
  gitjournal init

  # Find and initialize every repository under ~/Projects
  gitjournal scan ~/Projects`,
	Version:           build.Version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runDevlog,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupDocuments, Title: "Documents:"},
		&cobra.Group{ID: GroupRepositories, Title: "Repositories:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.PersistentFlags().StringP("path", "p", "", "Repository path (default: current directory)")
	rootCmd.PersistentFlags().String("config", "", "User config file (default: ~/.gitjournal/config.yml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show progress details")
	rootCmd.PersistentFlags().Bool("debug", false, "Show debug logging, including git operations")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
}

// Execute runs the root command. Errors are printed to stderr; the
// returned error carries the exit code (see ExitCode).
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	clierrors.Fprint(rootCmd.ErrOrStderr(), err)
	return NewExitError(exitCodeFor(err))
}

func exitCodeFor(err error) int {
	if errors.Is(err, journal.ErrNotARepository) {
		return ExitNotARepository
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil && cliErr.Category == clierrors.Argument {
		return ExitInvalidArguments
	}
	return ExitFailure
}

func newLogger(out *os.File, verbose, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case debug:
		l.SetLevel(logrus.DebugLevel)
	case verbose:
		l.SetLevel(logrus.InfoLevel)
	default:
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}

// setupLogging configures the shared logger from the persistent flags.
func setupLogging(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")

	logger.SetOutput(cmd.ErrOrStderr())
	switch {
	case debug:
		logger.SetLevel(logrus.DebugLevel)
		git.SetDebugLogger(logger.Debugf)
		logger.Debug(build.Summary())
	case verbose:
		logger.SetLevel(logrus.InfoLevel)
		git.SetDebugLogger(nil)
	default:
		logger.SetLevel(logrus.WarnLevel)
		git.SetDebugLogger(nil)
	}
	return nil
}

// targetPath resolves --path (or the working directory) to an absolute path.
func targetPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("path")
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		path = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

// loadOptions builds the config load options for the repository
// containing path. Deprecation warnings go to stderr unless quiet is set.
func loadOptions(cmd *cobra.Command, path string, quiet bool) config.LoadOptions {
	userConfig, _ := cmd.Flags().GetString("config")

	projectRoot := path
	if root, err := git.RepositoryRoot(path); err == nil {
		projectRoot = root
	}

	return config.LoadOptions{
		RepoPath:       projectRoot,
		UserConfigPath: userConfig,
		WarningWriter:  cmd.ErrOrStderr(),
		SkipWarnings:   quiet,
	}
}

// loadConfig loads configuration for the repository containing path.
func loadConfig(cmd *cobra.Command, path string, quiet bool) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(loadOptions(cmd, path, quiet))
	if err != nil {
		return nil, clierrors.InvalidConfig(err)
	}
	return cfg, nil
}

// newService builds the journal service for the target repository.
func newService(cmd *cobra.Command) (*journal.Service, error) {
	path, err := targetPath(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd, path, false)
	if err != nil {
		return nil, err
	}

	return journal.New(journal.Options{
		RepoPath: path,
		Config:   cfg,
		Logger:   logger,
		Registry: registry.NewStore(cfg.Home),
		LoadConfig: func(repoPath string) (*config.Configuration, error) {
			return loadConfig(cmd, repoPath, true)
		},
	}), nil
}

// loadRegistry reads the registry, converting failures to CLI errors.
func loadRegistry(svc *journal.Service) (registry.Snapshot, error) {
	store := svc.Registry()
	snap, err := store.Load()
	if err != nil {
		return registry.Snapshot{}, clierrors.RegistryUnreadable(store.Path(), err)
	}
	return snap, nil
}

// describe converts journal errors into CLI errors with remediation.
// path names the repository or document involved.
func describe(err error, path string) error {
	var cliErr *clierrors.CLIError
	switch {
	case err == nil:
		return nil
	case clierrors.AsCLIError(err) != nil:
		return err
	case errors.Is(err, journal.ErrNotARepository):
		cliErr = clierrors.NotARepository(path)
	case errors.Is(err, journal.ErrNoRepositories):
		cliErr = clierrors.NoTrackedRepositories()
	case errors.Is(err, journal.ErrMissingDocument):
		cliErr = clierrors.MissingDocument(path)
	default:
		return err
	}
	cliErr.Cause = err
	return cliErr
}
