package errors

import "fmt"

// Common error messages for the gitjournal CLI.

// NotARepository creates an error for a path without git history.
func NotARepository(path string) *CLIError {
	return New(Repository,
		fmt.Sprintf("not a git repository: %s", path),
		"Run the command from inside a git repository",
		"Or point at one with --path <repo>",
	)
}

// NoTrackedRepositories creates an error for batch commands run before any
// repository was registered.
func NoTrackedRepositories() *CLIError {
	return New(Configuration,
		"no repositories tracked yet",
		"Run 'gitjournal init' inside a repository to track it",
		"Or run 'gitjournal scan <directory>' to find and initialize repositories",
	)
}

// MissingDocument creates an error when a document to export does not exist.
func MissingDocument(path string) *CLIError {
	return New(Filesystem,
		fmt.Sprintf("file not found: %s", path),
		"Run 'gitjournal' first to generate the devlog",
	)
}

// UnwritableDestination wraps a failure to write a generated document.
func UnwritableDestination(path string, err error) *CLIError {
	return Wrap(err, Filesystem,
		fmt.Sprintf("cannot write %s", path),
		"Check that the directory exists and is writable",
	)
}

// InvalidConfig wraps a configuration load or validation failure.
func InvalidConfig(err error) *CLIError {
	return Wrap(err, Configuration,
		"invalid configuration",
		"Check ~/.gitjournal/config.yml and <repo>/.gitjournal.yml",
		"Show the effective values with: gitjournal config show",
	)
}

// RegistryUnreadable wraps a failure to load the repository registry.
func RegistryUnreadable(path string, err error) *CLIError {
	return Wrap(err, Configuration,
		"cannot read repository registry",
		fmt.Sprintf("Fix or remove %s and re-run 'gitjournal init' in each repository", path),
	)
}

// PathNotFound creates an error for a scan root that does not exist.
func PathNotFound(path string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("path not found: %s", path),
		"gitjournal scan <directory> [--depth N]",
		"Check the directory name",
	)
}

// InvalidDepth creates an error for an out-of-range scan depth.
func InvalidDepth(depth int) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid depth %d", depth),
		"gitjournal scan <directory> --depth N",
		"Depth must be between 1 and 20",
	)
}
