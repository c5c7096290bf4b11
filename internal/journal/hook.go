package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmragsdale/git-journal/internal/devlog"
	"github.com/jmragsdale/git-journal/internal/git"
	"github.com/jmragsdale/git-journal/internal/gitlog"
	"github.com/jmragsdale/git-journal/internal/registry"
)

// hookMarker identifies hook scripts written by gitjournal.
const hookMarker = "# Installed by gitjournal"

// HookResult describes an installed hook.
type HookResult struct {
	Repo string
	Path string
	// BackupPath is set when a foreign post-commit hook was moved aside.
	BackupPath string
}

// HookScript returns the post-commit hook body that runs exe for the
// repository at root. Failures never block the commit.
func HookScript(exe, root string) string {
	return "#!/bin/sh\n" +
		hookMarker + "\n" +
		"# Adds the new commit to the development log.\n" +
		shellQuote(exe) + " hook post-commit --path " + shellQuote(root) + " || true\n"
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// InstallHook writes the post-commit hook and records the repository in
// the registry with hook_installed set. An existing hook that gitjournal
// did not write is renamed to post-commit.backup first, or to
// post-commit.backup.N when earlier backups exist.
func (s *Service) InstallHook(ctx context.Context) (HookResult, error) {
	repo, err := s.resolve()
	if err != nil {
		return HookResult{}, err
	}

	gitDir, err := git.GitDir(repo.root)
	if err != nil {
		return HookResult{}, fmt.Errorf("locating git directory: %w", err)
	}
	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return HookResult{}, fmt.Errorf("creating hooks directory: %w", err)
	}

	exe := s.executable
	if exe == "" {
		if exe, err = os.Executable(); err != nil {
			return HookResult{}, fmt.Errorf("locating gitjournal executable: %w", err)
		}
	}

	result := HookResult{Repo: repo.name, Path: filepath.Join(hooksDir, "post-commit")}
	if existing, err := os.ReadFile(result.Path); err == nil && !strings.Contains(string(existing), hookMarker) {
		if result.BackupPath, err = freeBackupPath(result.Path); err != nil {
			return HookResult{}, err
		}
		if err := os.Rename(result.Path, result.BackupPath); err != nil {
			return HookResult{}, fmt.Errorf("backing up existing hook: %w", err)
		}
		s.logger.WithField("backup", result.BackupPath).Warn("moved existing post-commit hook aside")
	}

	if err := os.WriteFile(result.Path, []byte(HookScript(exe, repo.root)), 0o755); err != nil {
		return HookResult{}, fmt.Errorf("writing hook: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(result.Path, 0o755); err != nil {
		return HookResult{}, fmt.Errorf("making hook executable: %w", err)
	}

	if _, err := s.registry.Track(registry.Entry{
		Name:          repo.name,
		Path:          repo.root,
		Added:         s.now().Format(time.RFC3339),
		HookInstalled: true,
	}); err != nil {
		return HookResult{}, err
	}

	s.logger.WithField("path", result.Path).Info("installed post-commit hook")
	return result, nil
}

// RecordResult describes the outcome of RecordHead.
type RecordResult struct {
	Repo string
	Path string
	Hash string
	// Skipped is set for merge commits, which are never recorded.
	Skipped bool
	// Staged reports whether the devlog was added to the index.
	Staged bool
}

// RecordHead adds the commit at HEAD to the top of the devlog. It is what
// the post-commit hook runs. Merge commits are skipped. When
// auto_stage_devlog is set, the updated devlog is staged; a staging
// failure is logged, not returned.
func (s *Service) RecordHead(ctx context.Context) (RecordResult, error) {
	repo, err := s.resolve()
	if err != nil {
		return RecordResult{}, err
	}

	head, err := git.HeadCommit(repo.root)
	if err != nil {
		if errors.Is(err, git.ErrNoCommits) {
			return RecordResult{}, fmt.Errorf("%s: %w", repo.name, ErrEmptyHistory)
		}
		return RecordResult{}, fmt.Errorf("reading HEAD: %w", err)
	}

	result := RecordResult{
		Repo: repo.name,
		Path: inRepo(repo.root, s.cfg.DevlogFile),
		Hash: head.ShortHash(),
	}
	if strings.HasPrefix(head.Subject, gitlog.MergeMarker) {
		s.logger.WithField("commit", result.Hash).Debug("skipping merge commit")
		result.Skipped = true
		return result, nil
	}

	entry := devlog.Entry{
		Date:    head.When.Format(devlog.TimestampLayout),
		Hash:    head.ShortHash(),
		Subject: head.Subject,
		Body:    head.Body,
		Files:   head.Files,
	}
	if err := devlog.MergeFile(result.Path, entry, repo.name, s.now()); err != nil {
		return RecordResult{}, fmt.Errorf("updating devlog: %w", err)
	}

	if s.cfg.AutoStageDevlog {
		rel, err := filepath.Rel(repo.root, result.Path)
		if err == nil && filepath.IsLocal(rel) {
			if err := git.StageFile(repo.root, rel); err != nil {
				s.logger.WithError(err).Warn("could not stage devlog")
			} else {
				result.Staged = true
			}
		}
	}

	s.logger.WithField("commit", result.Hash).Info("recorded commit in devlog")
	return result, nil
}

// maxBackups bounds the post-commit.backup.N names tried.
const maxBackups = 100

// freeBackupPath returns the first of hook.backup, hook.backup.1, ...
// that does not exist yet.
func freeBackupPath(hook string) (string, error) {
	candidate := hook + ".backup"
	for n := 1; n <= maxBackups; n++ {
		if _, err := os.Lstat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		} else if err != nil {
			return "", fmt.Errorf("checking %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s.backup.%d", hook, n)
	}
	return "", fmt.Errorf("too many hook backups next to %s; remove old post-commit.backup files", hook)
}

// HookPresent reports whether the repository at path has a post-commit
// hook written by gitjournal.
func HookPresent(path string) (bool, error) {
	gitDir, err := git.GitDir(path)
	if err != nil {
		return false, fmt.Errorf("locating git directory: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(gitDir, "hooks", "post-commit"))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading hook: %w", err)
	}
	return strings.Contains(string(data), hookMarker), nil
}
