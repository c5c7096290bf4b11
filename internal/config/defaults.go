package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# gitjournal configuration
# See 'gitjournal config -h' for commands

# Per-repository documents
devlog_file: DEVLOG.md                # Development log, relative to the repository root
changelog_file: CHANGELOG.md          # Changelog, relative to the repository root
max_commits_in_devlog: 50             # Commits read when regenerating the devlog
auto_stage_devlog: true               # git add the devlog after the post-commit hook
skip_confirmations: false             # Skip confirmation prompts

# Combined log across tracked repositories
aggregate:
  commits_per_repo: 20                # Recent commits read from each repository
  max_entries: 100                    # Entries considered for the combined log
  output_file: ""                     # Default: ~/.gitjournal/COMBINED_DEVLOG.md

# Repository discovery
scan:
  max_depth: 3                        # Directory levels searched below the scan root

# HTML export
export:
  open_browser: true                  # Open the exported page after writing it

# Watch mode
watch:
  debounce: 500ms                     # Quiet period before regenerating
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"devlog_file":           "DEVLOG.md",
		"changelog_file":        "CHANGELOG.md",
		"max_commits_in_devlog": 50,
		// auto_stage_devlog: the hook stages the devlog so it rides along
		// with the next commit.
		"auto_stage_devlog":  true,
		"skip_confirmations": false,
		"aggregate": map[string]interface{}{
			"commits_per_repo": 20,
			"max_entries":      100,
			"output_file":      "",
		},
		"scan": map[string]interface{}{
			"max_depth": 3,
		},
		"export": map[string]interface{}{
			"open_browser": true,
		},
		"watch": map[string]interface{}{
			"debounce": (500 * time.Millisecond).String(),
		},
	}
}
