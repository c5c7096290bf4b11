package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmragsdale/git-journal/internal/git"
	"github.com/jmragsdale/git-journal/internal/watch"
)

// Watch regenerates the devlog whenever HEAD moves until ctx is
// cancelled. onUpdate, when set, is called after each regeneration.
func (s *Service) Watch(ctx context.Context, onUpdate func(Result, error)) error {
	repo, err := s.resolve()
	if err != nil {
		return err
	}

	gitDir, err := git.GitDir(repo.root)
	if err != nil {
		return fmt.Errorf("locating git directory: %w", err)
	}

	w := watch.New(gitDir, s.cfg.Watch.Debounce, func(ctx context.Context) error {
		res, err := s.GenerateDevlog(ctx, "")
		if onUpdate != nil {
			onUpdate(res, err)
		}
		if errors.Is(err, ErrEmptyHistory) {
			return nil
		}
		return err
	}, s.logger)

	s.logger.WithField("path", w.Path()).Info("watching for new commits")
	return w.Run(ctx)
}
