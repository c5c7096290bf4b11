package journal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmragsdale/git-journal/internal/export"
)

// InitResult describes what InitRepo did.
type InitResult struct {
	Repo string
	// Devlog is the generated devlog; empty Path when the repository had
	// no commits yet.
	Devlog           Result
	Hook             HookResult
	GitignoreUpdated bool
}

// InitRepo prepares a repository for journaling: it generates the devlog
// (an empty history is tolerated), installs the post-commit hook, tracks
// the repository in the registry and ignores exported HTML files.
func (s *Service) InitRepo(ctx context.Context) (InitResult, error) {
	repo, err := s.resolve()
	if err != nil {
		return InitResult{}, err
	}
	result := InitResult{Repo: repo.name}

	result.Devlog, err = s.GenerateDevlog(ctx, "")
	if err != nil && !errors.Is(err, ErrEmptyHistory) {
		return InitResult{}, err
	}

	result.Hook, err = s.InstallHook(ctx)
	if err != nil {
		return InitResult{}, err
	}

	result.GitignoreUpdated, err = ensureIgnored(filepath.Join(repo.root, ".gitignore"), export.GitignorePattern)
	if err != nil {
		return InitResult{}, err
	}
	return result, nil
}

// ensureIgnored appends pattern to the gitignore file at path unless a
// line already equals it. It reports whether the file changed.
func ensureIgnored(path, pattern string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	scanner := bufio.NewScanner(strings.NewReader(string(existing)))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == pattern {
			return false, nil
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	line := pattern + "\n"
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
