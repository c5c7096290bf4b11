package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmragsdale/git-journal/internal/export"
)

// ExportOptions configures ExportHTML.
type ExportOptions struct {
	// Source is the markdown file (default: the configured devlog).
	Source string
	// Open overrides export.open_browser when non-nil.
	Open *bool
	// Opener replaces the browser launcher.
	Opener func(path string) error
}

// ExportHTML converts the devlog (or opts.Source) to an HTML page next to
// it and returns the written path. A missing source yields
// ErrMissingDocument.
func (s *Service) ExportHTML(ctx context.Context, opts ExportOptions) (string, error) {
	repo, err := s.resolve()
	if err != nil {
		return "", err
	}

	source := opts.Source
	if source == "" {
		source = s.cfg.DevlogFile
	}
	source = inRepo(repo.root, source)

	open := s.cfg.Export.OpenBrowser
	if opts.Open != nil {
		open = *opts.Open
	}

	dest, err := export.Export(source, export.Options{
		Title:  repo.name,
		Open:   open,
		Opener: opts.Opener,
	})
	if errors.Is(err, export.ErrMissingDocument) {
		return "", fmt.Errorf("%s: %w", source, ErrMissingDocument)
	}
	if err != nil {
		if dest != "" {
			// The page was written; only the browser failed.
			s.logger.WithError(err).Warn("could not open browser")
			return dest, nil
		}
		return "", err
	}

	s.logger.WithField("path", dest).Info("exported html")
	return dest, nil
}
