// Package scan discovers git repositories below a directory.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxDepth is the scan depth used when none is configured.
const DefaultMaxDepth = 3

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"venv":         true,
	"env":          true,
	"__pycache__":  true,
	"vendor":       true,
	"build":        true,
	"dist":         true,
}

// ErrNotADirectory is returned when the scan root is not a directory.
var ErrNotADirectory = errors.New("not a directory")

// FindRepos returns the absolute paths of git repositories under root,
// sorted. A directory counts as a repository when it contains a .git entry
// (directory or file, so worktrees and submodules are found too). Found
// repositories are not descended into. Hidden directories and dependency or
// build output directories are skipped. Root is depth 0 and directories at
// maxDepth or deeper are not examined.
func FindRepos(root string, maxDepth int) ([]string, error) {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotADirectory)
	}

	var repos []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped, an unreadable root is not.
			if path == abs {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		if path != abs && shouldSkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if depth(abs, path) >= maxDepth {
			return filepath.SkipDir
		}

		if hasGitEntry(path) {
			repos = append(repos, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", abs, err)
	}

	sort.Strings(repos)
	return repos, nil
}

func shouldSkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || skipDirs[name]
}

func hasGitEntry(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// depth returns how many path elements path is below root.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
