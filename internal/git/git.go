// Package git provides repository utilities for gitjournal: repository
// detection, display names, HEAD commit details, history walks and staging.
// Everything is implemented with go-git so the git CLI is not required.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// ErrNoCommits is returned when HEAD does not point at a commit yet.
var ErrNoCommits = errors.New("repository has no commits")

// tracef receives debug output from this package. It is nil unless
// --debug is set.
var tracef func(format string, args ...any)

// SetDebugLogger routes this package's debug output to logf. Nil silences it.
func SetDebugLogger(logf func(format string, args ...any)) {
	tracef = logf
}

func logDebug(format string, args ...any) {
	if tracef == nil {
		return
	}
	tracef("[git] "+format, args...)
}

// openRepo opens the repository whose worktree contains path.
func openRepo(path string) (*git.Repository, error) {
	logDebug("open %s", path)
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// IsRepository reports whether path is inside a git repository.
func IsRepository(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// RepositoryRoot returns the absolute path of the worktree root containing path.
func RepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// GitDir returns the path of the repository's .git directory.
func GitDir(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	if fs, ok := repo.Storer.(*filesystem.Storage); ok {
		return fs.Filesystem().Root(), nil
	}

	root, err := RepositoryRoot(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ".git"), nil
}

// RepoName returns the repository display name: the last segment of the
// origin remote URL without ".git", or the base name of the worktree root
// when there is no origin.
func RepoName(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			if name := nameFromURL(urls[0]); name != "" {
				logDebug("RepoName from origin: %s", name)
				return name, nil
			}
		}
	}

	root, err := RepositoryRoot(path)
	if err != nil {
		return "", err
	}
	return filepath.Base(root), nil
}

// nameFromURL extracts the repository name from a remote URL.
// Handles https://host/owner/repo.git, git@host:owner/repo.git and local paths.
func nameFromURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	return strings.TrimSuffix(url, ".git")
}

// CommitInfo holds the details of a single commit needed to write a
// devlog entry.
type CommitInfo struct {
	Hash    string
	When    time.Time
	Subject string
	Body    string
	Files   []string
}

// ShortHash returns the first 7 characters of the commit hash.
func (c CommitInfo) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// HeadCommit returns the commit HEAD points at, including the sorted list
// of files it changed. Returns ErrNoCommits for an empty repository.
func HeadCommit(path string) (CommitInfo, error) {
	repo, err := openRepo(path)
	if err != nil {
		return CommitInfo{}, err
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return CommitInfo{}, ErrNoCommits
		}
		return CommitInfo{}, fmt.Errorf("getting HEAD reference: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return CommitInfo{}, fmt.Errorf("reading HEAD commit: %w", err)
	}

	files, err := changedFiles(commit)
	if err != nil {
		return CommitInfo{}, err
	}

	subject, body := splitMessage(commit.Message)
	info := CommitInfo{
		Hash:    commit.Hash.String(),
		When:    commit.Committer.When,
		Subject: subject,
		Body:    body,
		Files:   files,
	}
	logDebug("HeadCommit: %s %q (%d files)", info.ShortHash(), info.Subject, len(files))
	return info, nil
}

// changedFiles lists the paths touched by commit relative to its first parent.
func changedFiles(commit *object.Commit) ([]string, error) {
	stats, err := commit.Stats()
	if err != nil {
		return nil, fmt.Errorf("computing commit stats: %w", err)
	}

	files := make([]string, 0, len(stats))
	for _, s := range stats {
		files = append(files, s.Name)
	}
	sort.Strings(files)
	return files, nil
}

// splitMessage separates a commit message into its subject line and the
// trimmed remainder.
func splitMessage(message string) (subject, body string) {
	message = strings.TrimSpace(message)
	subject, body, _ = strings.Cut(message, "\n")
	return strings.TrimSpace(subject), strings.TrimSpace(body)
}

// StageFile adds the file at relPath (relative to the worktree root) to
// the index.
func StageFile(path, relPath string) error {
	repo, err := openRepo(path)
	if err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if _, err := worktree.Add(filepath.ToSlash(relPath)); err != nil {
		return fmt.Errorf("staging %s: %w", relPath, err)
	}

	logDebug("StageFile: %s", relPath)
	return nil
}
