package config

import (
	"os"
	"path/filepath"
)

const (
	homeDirName       = ".gitjournal"
	userConfigName    = "config.yml"
	legacyConfigName  = "config.json"
	projectConfigName = ".gitjournal.yml"
)

// HomeDir returns the gitjournal state directory: $GITJOURNAL_HOME when set,
// otherwise ~/.gitjournal. The directory is not created.
func HomeDir() (string, error) {
	if dir := os.Getenv(envPrefix + "HOME"); dir != "" {
		return expandHomePath(dir), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, homeDirName), nil
}

// UserConfigPath returns the path to the user-level config file.
func UserConfigPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, userConfigName), nil
}

// ProjectConfigPath returns the path to the project-level config file of
// the repository rooted at repoRoot.
func ProjectConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, projectConfigName)
}
