package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/jmragsdale/git-journal/internal/fsutil"
)

// legacyKeyAliases maps key names of the JSON config to their YAML names.
var legacyKeyAliases = map[string]string{
	"default_devlog":    "devlog_file",
	"default_changelog": "changelog_file",
}

// translateLegacyKeys renames legacy keys and drops keys gitjournal no
// longer understands. Input and output are flat dotted-key maps.
func translateLegacyKeys(flat map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(flat))
	for key, value := range flat {
		if alias, ok := legacyKeyAliases[key]; ok {
			key = alias
		}
		if _, known := KnownKeys[key]; !known {
			continue
		}
		if value == nil {
			continue
		}
		out[key] = value
	}
	return out
}

// MigrationResult reports what `config migrate` did, or would do.
type MigrationResult struct {
	SourcePath string
	TargetPath string
	// Success is true when the YAML file was written, or would be in a dry run.
	Success bool
	DryRun  bool
	Message string
}

const migratedHeader = "# gitjournal configuration\n# Migrated from JSON format\n\n"

// MigrateJSONToYAML rewrites the legacy JSON config at jsonPath as YAML at
// yamlPath with legacy keys renamed and obsolete keys dropped. A missing
// JSON file or an existing YAML file leaves everything untouched.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	res := &MigrationResult{SourcePath: jsonPath, TargetPath: yamlPath, DryRun: dryRun}

	if _, err := os.Stat(jsonPath); errors.Is(err, os.ErrNotExist) {
		res.Message = fmt.Sprintf("No JSON config found at %s", jsonPath)
		return res, nil
	}

	legacy := koanf.New(".")
	if err := legacy.Load(file.Provider(jsonPath), json.Parser()); err != nil {
		return nil, fmt.Errorf("reading legacy config %s: %w", jsonPath, err)
	}

	if fileExists(yamlPath) {
		res.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return res, nil
	}

	res.Success = true
	if dryRun {
		res.Message = fmt.Sprintf("Would migrate %s → %s", jsonPath, yamlPath)
		return res, nil
	}

	tree := maps.Unflatten(translateLegacyKeys(legacy.All()), ".")
	if err := os.MkdirAll(filepath.Dir(yamlPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(yamlPath), err)
	}
	err := fsutil.WriteAtomic(yamlPath, func(w io.Writer) error {
		if _, err := io.WriteString(w, migratedHeader); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("writing %s: %w", yamlPath, err)
	}

	res.Message = fmt.Sprintf("Migrated %s → %s", jsonPath, yamlPath)
	return res, nil
}

// MigrateUserConfig migrates <home>/config.json to <home>/config.yml.
func MigrateUserConfig(dryRun bool) (*MigrationResult, error) {
	home, err := HomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving gitjournal home: %w", err)
	}
	return MigrateJSONToYAML(filepath.Join(home, legacyConfigName), filepath.Join(home, userConfigName), dryRun)
}

// RemoveLegacyConfig moves a migrated JSON config aside to <path>.bak.
// A missing file is not an error.
func RemoveLegacyConfig(jsonPath string, dryRun bool) error {
	if dryRun || !fileExists(jsonPath) {
		return nil
	}
	if err := os.Rename(jsonPath, jsonPath+".bak"); err != nil {
		return fmt.Errorf("backing up %s: %w", jsonPath, err)
	}
	return nil
}
