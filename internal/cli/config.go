package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmragsdale/git-journal/internal/config"
	clierrors "github.com/jmragsdale/git-journal/internal/errors"
	"github.com/jmragsdale/git-journal/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gitjournal configuration",
	Long: `Manage gitjournal configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (GITJOURNAL_*, nested keys joined with __)
  2. Project config (<repo>/.gitjournal.yml)
  3. User config (~/.gitjournal/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  gitjournal config show

  # Keep 100 commits in every devlog
  gitjournal config set max_commits_in_devlog 100

  # Use a different devlog file in this repository only
  gitjournal config set devlog_file docs/DEVLOG.md --project`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration and where each value came from",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Validate and write a configuration value to the user config, or to the
project config with --project. Nested keys use dots (aggregate.max_entries).`,
	Example: `  gitjournal config set auto_stage_devlog false
  gitjournal config set watch.debounce 2s
  gitjournal config set changelog_file HISTORY.md --project`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config file with all defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert the legacy config.json to config.yml",
	Long: `Convert ~/.gitjournal/config.json to ~/.gitjournal/config.yml, renaming
legacy keys. The JSON file is kept as config.json.bak. An existing YAML
config is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigMigrate,
}

func init() {
	configCmd.GroupID = GroupConfiguration

	configShowCmd.Flags().Bool("json", false, "Output in JSON format")
	configSetCmd.Flags().Bool("project", false, "Write to the project config instead of the user config")
	configInitCmd.Flags().Bool("project", false, "Write the project config instead of the user config")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	configMigrateCmd.Flags().Bool("dry-run", false, "Show what would be migrated without writing")

	configCmd.AddCommand(configShowCmd, configSetCmd, configInitCmd, configMigrateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := targetPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, path, true)
	if err != nil {
		return err
	}
	opts := loadOptions(cmd, path, true)
	sources, err := config.Sources(opts)
	if err != nil {
		return clierrors.InvalidConfig(err)
	}

	out := cmd.OutOrStdout()
	values := configValues(cfg)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(maps.Unflatten(values, "."))
	}

	userPath, projectPath, err := configFilePaths(opts)
	if err != nil {
		return err
	}
	output.PrintHeading(out, "Configuration Sources")
	printConfigFile(out, "user", userPath)
	printConfigFile(out, "project", projectPath)
	fmt.Fprintf(out, "  %-8s %s\n\n", "home:", cfg.Home)

	data, err := yaml.Marshal(maps.Unflatten(values, "."))
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	fmt.Fprint(out, string(data))

	var overridden []string
	for key, src := range sources {
		if src != config.SourceDefault {
			overridden = append(overridden, key)
		}
	}
	if len(overridden) == 0 {
		return nil
	}
	sort.Strings(overridden)
	fmt.Fprintln(out, "\nOverridden values:")
	for _, key := range overridden {
		fmt.Fprintf(out, "  %-28s %s\n", key, sources[key])
	}
	return nil
}

// configValues flattens cfg to the dotted keys of config.KnownKeys.
func configValues(cfg *config.Configuration) map[string]interface{} {
	return map[string]interface{}{
		"devlog_file":                cfg.DevlogFile,
		"changelog_file":             cfg.ChangelogFile,
		"max_commits_in_devlog":      cfg.MaxCommitsInDevlog,
		"auto_stage_devlog":          cfg.AutoStageDevlog,
		"skip_confirmations":         cfg.SkipConfirmations,
		"aggregate.commits_per_repo": cfg.Aggregate.CommitsPerRepo,
		"aggregate.max_entries":      cfg.Aggregate.MaxEntries,
		"aggregate.output_file":      cfg.Aggregate.OutputFile,
		"scan.max_depth":             cfg.Scan.MaxDepth,
		"export.open_browser":        cfg.Export.OpenBrowser,
		"watch.debounce":             cfg.Watch.Debounce.String(),
	}
}

func configFilePaths(opts config.LoadOptions) (user, project string, err error) {
	user = opts.UserConfigPath
	if user == "" {
		if user, err = config.UserConfigPath(); err != nil {
			return "", "", fmt.Errorf("resolving user config path: %w", err)
		}
	}
	return user, config.ProjectConfigPath(opts.RepoPath), nil
}

func printConfigFile(out io.Writer, label, path string) {
	state := "not found"
	if _, err := os.Stat(path); err == nil {
		state = "loaded"
	}
	fmt.Fprintf(out, "  %-8s %s (%s)\n", label+":", path, state)
}

// configTargetPath returns the file config set and init write to.
func configTargetPath(cmd *cobra.Command) (string, error) {
	path, err := targetPath(cmd)
	if err != nil {
		return "", err
	}
	user, project, err := configFilePaths(loadOptions(cmd, path, true))
	if err != nil {
		return "", err
	}
	if isProject, _ := cmd.Flags().GetBool("project"); isProject {
		return project, nil
	}
	return user, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	target, err := configTargetPath(cmd)
	if err != nil {
		return err
	}

	if _, err := config.ValidateValue(key, value); err != nil {
		var remediation []string
		var unknown config.ErrUnknownKey
		if errors.As(err, &unknown) {
			remediation = []string{"Known keys: " + knownKeyList()}
		} else {
			ks, _ := config.LookupKey(key)
			remediation = []string{
				fmt.Sprintf("%s takes a %s value: %s", key, ks.Kind, ks.Help),
				"Run 'gitjournal config show' to see current values",
			}
		}
		return clierrors.NewArgumentErrorWithUsage(err.Error(), "gitjournal config set <key> <value>", remediation...)
	}

	if err := config.SetConfigValue(target, key, value); err != nil {
		return clierrors.UnwritableDestination(target, err)
	}

	output.PrintSuccess(cmd.OutOrStdout(), "Set %s = %s", key, value)
	output.PrintPath(cmd.OutOrStdout(), target)
	return nil
}

func knownKeyList() string {
	keys := make([]string, 0, len(config.KnownKeys))
	for k := range config.KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	target, err := configTargetPath(cmd)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(target); err == nil && !force {
		output.PrintWarning(cmd.OutOrStdout(), "Config already exists (use --force to overwrite)")
		output.PrintPath(cmd.OutOrStdout(), target)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return clierrors.UnwritableDestination(target, err)
	}
	if err := os.WriteFile(target, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return clierrors.UnwritableDestination(target, err)
	}

	output.PrintSuccess(cmd.OutOrStdout(), "Wrote config")
	output.PrintPath(cmd.OutOrStdout(), target)
	return nil
}

func runConfigMigrate(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	res, err := config.MigrateUserConfig(dryRun)
	if err != nil {
		return clierrors.InvalidConfig(err)
	}

	out := cmd.OutOrStdout()
	if !res.Success {
		fmt.Fprintln(out, res.Message)
		return nil
	}

	if err := config.RemoveLegacyConfig(res.SourcePath, dryRun); err != nil {
		return clierrors.Wrap(err, clierrors.Filesystem, "")
	}
	output.PrintSuccess(out, "%s", res.Message)
	if !dryRun {
		fmt.Fprintf(out, "  Old config kept as %s.bak\n", res.SourcePath)
	}
	return nil
}
