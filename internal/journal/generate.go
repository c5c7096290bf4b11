package journal

import (
	"context"
	"fmt"
	"io"

	"github.com/jmragsdale/git-journal/internal/changelog"
	"github.com/jmragsdale/git-journal/internal/devlog"
	"github.com/jmragsdale/git-journal/internal/fsutil"
	"github.com/jmragsdale/git-journal/internal/git"
	"github.com/jmragsdale/git-journal/internal/gitlog"
)

// Result describes a written document.
type Result struct {
	Repo    string
	Path    string
	Commits int
}

// history resolves the repository and parses its log. An empty log yields
// ErrEmptyHistory.
func (s *Service) history(ctx context.Context, opts git.LogOptions) (repository, []gitlog.Commit, error) {
	repo, err := s.resolve()
	if err != nil {
		return repository{}, nil, err
	}

	text, err := s.source.Log(ctx, repo.root, opts)
	if err != nil {
		return repository{}, nil, fmt.Errorf("reading history of %s: %w", repo.name, err)
	}

	commits := gitlog.Parse(text)
	if len(commits) == 0 {
		return repo, nil, fmt.Errorf("%s: %w", repo.name, ErrEmptyHistory)
	}
	s.logger.WithField("commits", len(commits)).Debug("parsed history")
	return repo, commits, nil
}

// GenerateDevlog renders the most recent max_commits_in_devlog commits to
// output, or to the configured devlog file when output is empty. Relative
// paths are resolved against the repository root.
func (s *Service) GenerateDevlog(ctx context.Context, output string) (Result, error) {
	repo, commits, err := s.history(ctx, git.LogOptions{Limit: s.cfg.MaxCommitsInDevlog})
	if err != nil {
		return Result{}, err
	}

	if output == "" {
		output = s.cfg.DevlogFile
	}
	path := inRepo(repo.root, output)
	now := s.now()

	err = fsutil.WriteAtomic(path, func(w io.Writer) error {
		return devlog.Render(w, repo.name, commits, now)
	})
	if err != nil {
		return Result{}, fmt.Errorf("writing devlog: %w", err)
	}

	s.logger.WithField("path", path).Info("generated devlog")
	return Result{Repo: repo.name, Path: path, Commits: len(commits)}, nil
}

// ChangelogOptions selects the commits and destination of a changelog.
type ChangelogOptions struct {
	// Since limits the changelog to commits after this tag.
	Since string
	// Output overrides the configured changelog file.
	Output string
}

// ChangelogSections classifies the commits selected by opts without
// writing anything. It returns the repository display name and the
// non-empty category sections in display order.
func (s *Service) ChangelogSections(ctx context.Context, opts ChangelogOptions) (string, []changelog.Section, error) {
	repo, commits, err := s.history(ctx, git.LogOptions{SinceTag: opts.Since})
	if err != nil {
		return "", nil, err
	}
	return repo.name, changelog.Group(commits), nil
}

// GenerateChangelog classifies the selected commits and writes the
// changelog document.
func (s *Service) GenerateChangelog(ctx context.Context, opts ChangelogOptions) (Result, error) {
	repo, commits, err := s.history(ctx, git.LogOptions{SinceTag: opts.Since})
	if err != nil {
		return Result{}, err
	}

	output := opts.Output
	if output == "" {
		output = s.cfg.ChangelogFile
	}
	path := inRepo(repo.root, output)
	now := s.now()

	err = fsutil.WriteAtomic(path, func(w io.Writer) error {
		return changelog.RenderMarkdown(w, repo.name, commits, now)
	})
	if err != nil {
		return Result{}, fmt.Errorf("writing changelog: %w", err)
	}

	s.logger.WithField("path", path).Info("generated changelog")
	return Result{Repo: repo.name, Path: path, Commits: len(commits)}, nil
}
