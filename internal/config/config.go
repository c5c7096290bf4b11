// Package config provides layered configuration for gitjournal using koanf.
// Values are loaded with priority: environment variables (GITJOURNAL_*) >
// project config (<repo>/.gitjournal.yml) > user config (~/.gitjournal/config.yml)
// > defaults. The legacy ~/.gitjournal/config.json is still read when no YAML
// user config exists.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigSource names the layer a value was read from.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// envPrefix is the prefix of environment overrides.
const envPrefix = "GITJOURNAL_"

// Configuration is the merged result of every layer.
type Configuration struct {
	// DevlogFile is the development log file name, relative to the repository root.
	DevlogFile string `koanf:"devlog_file" validate:"required"`
	// ChangelogFile is the changelog file name, relative to the repository root.
	ChangelogFile string `koanf:"changelog_file" validate:"required"`
	// MaxCommitsInDevlog caps the commits read when generating a devlog.
	MaxCommitsInDevlog int `koanf:"max_commits_in_devlog" validate:"min=1"`
	// AutoStageDevlog stages the devlog after the post-commit hook updates it.
	AutoStageDevlog bool `koanf:"auto_stage_devlog"`
	// SkipConfirmations answers prompts with yes. GITJOURNAL_YES also sets it.
	SkipConfirmations bool `koanf:"skip_confirmations"`

	Aggregate AggregateConfig `koanf:"aggregate"`
	Scan      ScanConfig      `koanf:"scan"`
	Export    ExportConfig    `koanf:"export"`
	Watch     WatchConfig     `koanf:"watch"`

	// Home is the state directory holding the registry and combined log.
	// It is not read from config files; GITJOURNAL_HOME overrides it.
	Home string `koanf:"-"`
}

// AggregateConfig controls the combined development log.
type AggregateConfig struct {
	CommitsPerRepo int `koanf:"commits_per_repo" validate:"min=1"`
	MaxEntries     int `koanf:"max_entries" validate:"min=1"`
	// OutputFile defaults to <home>/COMBINED_DEVLOG.md when empty.
	OutputFile string `koanf:"output_file"`
}

// ScanConfig controls repository discovery.
type ScanConfig struct {
	MaxDepth int `koanf:"max_depth" validate:"min=1,max=20"`
}

// ExportConfig controls HTML export.
type ExportConfig struct {
	OpenBrowser bool `koanf:"open_browser"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" validate:"min=0"`
}

// CombinedPath returns the combined devlog output path.
func (c *Configuration) CombinedPath() string {
	if c.Aggregate.OutputFile != "" {
		return c.Aggregate.OutputFile
	}
	return filepath.Join(c.Home, "COMBINED_DEVLOG.md")
}

// LoadOptions selects the files a load reads and where its warnings go.
type LoadOptions struct {
	// RepoPath is the repository root; its .gitjournal.yml is the project layer.
	RepoPath string
	// ProjectConfigPath replaces <RepoPath>/.gitjournal.yml when set.
	ProjectConfigPath string
	// UserConfigPath replaces <home>/config.yml when set. The file must exist.
	UserConfigPath string
	// WarningWriter receives legacy-config notices. Nil means os.Stderr.
	WarningWriter io.Writer
	SkipWarnings  bool
}

func (o LoadOptions) projectPath() string {
	if o.ProjectConfigPath != "" {
		return o.ProjectConfigPath
	}
	if o.RepoPath == "" {
		return ""
	}
	return ProjectConfigPath(o.RepoPath)
}

func (o LoadOptions) warnf(format string, args ...any) {
	if o.SkipWarnings {
		return
	}
	w := o.WarningWriter
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format, args...)
}

// Load reads the configuration that applies to the repository at repoPath.
func Load(repoPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{RepoPath: repoPath})
}

// LoadWithOptions merges defaults, the user file, the project file and
// GITJOURNAL_* variables, later layers winning, then validates the result.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	home, err := HomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving gitjournal home: %w", err)
	}

	src, err := readLayers(home, opts)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
	for _, layer := range []*koanf.Koanf{src.user, src.project, src.env} {
		if err := k.Merge(layer); err != nil {
			return nil, fmt.Errorf("merging configuration: %w", err)
		}
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := checkValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Home = home
	cfg.Aggregate.OutputFile = expandHomePath(cfg.Aggregate.OutputFile)
	if os.Getenv(envPrefix+"YES") != "" {
		cfg.SkipConfirmations = true
	}
	return &cfg, nil
}

// Sources reports which layer supplied each known key.
func Sources(opts LoadOptions) (map[string]ConfigSource, error) {
	home, err := HomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving gitjournal home: %w", err)
	}
	opts.SkipWarnings = true
	src, err := readLayers(home, opts)
	if err != nil {
		return nil, err
	}

	sources := make(map[string]ConfigSource, len(KnownKeys))
	for key := range KnownKeys {
		switch {
		case src.env.Exists(key):
			sources[key] = SourceEnv
		case src.project.Exists(key):
			sources[key] = SourceProject
		case src.user.Exists(key):
			sources[key] = SourceUser
		default:
			sources[key] = SourceDefault
		}
	}
	return sources, nil
}

// layers keeps every non-default source in its own koanf instance.
type layers struct {
	user    *koanf.Koanf
	project *koanf.Koanf
	env     *koanf.Koanf
}

func readLayers(home string, opts LoadOptions) (*layers, error) {
	src := &layers{user: koanf.New("."), project: koanf.New("."), env: koanf.New(".")}

	if err := src.readUser(home, opts); err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}
	if path := opts.projectPath(); fileExists(path) {
		if err := readYAML(src.project, path); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}
	if err := src.env.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("reading %s variables: %w", envPrefix, err)
	}
	return src, nil
}

// readUser fills the user layer from config.yml, falling back to the legacy
// config.json when no YAML file exists.
func (src *layers) readUser(home string, opts LoadOptions) error {
	if opts.UserConfigPath != "" {
		return readYAML(src.user, opts.UserConfigPath)
	}

	yamlPath := filepath.Join(home, userConfigName)
	jsonPath := filepath.Join(home, legacyConfigName)
	hasJSON := fileExists(jsonPath)

	if fileExists(yamlPath) {
		if hasJSON {
			opts.warnf("Warning: %s is ignored because %s exists\n", jsonPath, yamlPath)
			opts.warnf("  Run 'gitjournal config migrate' to back it up.\n\n")
		}
		return readYAML(src.user, yamlPath)
	}
	if !hasJSON {
		return nil
	}

	legacy := koanf.New(".")
	if err := legacy.Load(file.Provider(jsonPath), json.Parser()); err != nil {
		return fmt.Errorf("reading %s: %w", jsonPath, err)
	}
	for key, value := range translateLegacyKeys(legacy.All()) {
		src.user.Set(key, value)
	}
	opts.warnf("Warning: reading deprecated JSON config %s\n", jsonPath)
	opts.warnf("  Run 'gitjournal config migrate' to convert it to YAML.\n\n")
	return nil
}

func readYAML(k *koanf.Koanf, path string) error {
	if err := checkYAMLFile(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// envTransform maps GITJOURNAL_AGGREGATE__MAX_ENTRIES to aggregate.max_entries.
// A double underscore separates nesting levels.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// expandHomePath resolves a leading ~/ against the user's home directory.
func expandHomePath(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(userHome, rest)
}
