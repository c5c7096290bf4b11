package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jmragsdale/git-journal/internal/devlog"
	"github.com/jmragsdale/git-journal/internal/fsutil"
	"github.com/jmragsdale/git-journal/internal/git"
	"github.com/jmragsdale/git-journal/internal/gitlog"
	"github.com/jmragsdale/git-journal/internal/registry"
)

// Observer receives per-repository progress from batch operations.
// *output.Progress implements it.
type Observer interface {
	Start(label string)
	Succeed(detail string)
	Skip(reason string)
	Fail(err error)
}

type noopObserver struct{}

func (noopObserver) Start(string)   {}
func (noopObserver) Succeed(string) {}
func (noopObserver) Skip(string)    {}
func (noopObserver) Fail(error)     {}

func observerOrNoop(o Observer) Observer {
	if o == nil {
		return noopObserver{}
	}
	return o
}

// BatchFailure records one repository that failed in a batch run.
type BatchFailure struct {
	Name string
	Err  error
}

// BatchResult summarizes a batch run. Each repository is attempted
// regardless of earlier failures.
type BatchResult struct {
	Total     int
	Succeeded int
	Skipped   int
	Failures  []BatchFailure
}

// Failed returns the number of failed repositories.
func (r BatchResult) Failed() int {
	return len(r.Failures)
}

// Err joins the failures, or returns nil when there were none.
func (r BatchResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Name, f.Err))
	}
	return errors.Join(errs...)
}

func (r *BatchResult) fail(obs Observer, name string, err error) {
	r.Failures = append(r.Failures, BatchFailure{Name: name, Err: err})
	obs.Fail(err)
}

// GenerateAllOptions configures GenerateAll.
type GenerateAllOptions struct {
	// Changelog also regenerates each repository's changelog.
	Changelog bool
	Observer  Observer
}

// GenerateAll regenerates the devlog (and optionally the changelog) of
// every repository in snap, in name order. Missing paths and repositories
// without commits are skipped.
func (s *Service) GenerateAll(ctx context.Context, snap registry.Snapshot, opts GenerateAllOptions) (BatchResult, error) {
	if snap.Len() == 0 {
		return BatchResult{}, ErrNoRepositories
	}
	obs := observerOrNoop(opts.Observer)
	result := BatchResult{Total: snap.Len()}

	for _, entry := range snap.Entries() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		obs.Start(entry.Name)

		if !entry.Exists() {
			result.Skipped++
			obs.Skip("path not found: " + entry.Path)
			continue
		}

		svc, err := s.ForRepo(entry.Path)
		if err != nil {
			result.fail(obs, entry.Name, err)
			continue
		}

		dl, err := svc.GenerateDevlog(ctx, "")
		if errors.Is(err, ErrEmptyHistory) {
			result.Skipped++
			obs.Skip("no commits")
			continue
		}
		if err != nil {
			result.fail(obs, entry.Name, err)
			continue
		}

		detail := filepath.Base(dl.Path)
		if opts.Changelog {
			cl, err := svc.GenerateChangelog(ctx, ChangelogOptions{})
			if err != nil {
				result.fail(obs, entry.Name, err)
				continue
			}
			detail += ", " + filepath.Base(cl.Path)
		}

		result.Succeeded++
		obs.Succeed(detail)
	}
	return result, nil
}

// InitAll runs InitRepo for every path, isolating failures.
func (s *Service) InitAll(ctx context.Context, paths []string, obs Observer) (BatchResult, error) {
	obs = observerOrNoop(obs)
	result := BatchResult{Total: len(paths)}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		name := filepath.Base(path)
		obs.Start(name)

		svc, err := s.ForRepo(path)
		if err != nil {
			result.fail(obs, name, err)
			continue
		}

		res, err := svc.InitRepo(ctx)
		if err != nil {
			result.fail(obs, name, err)
			continue
		}

		result.Succeeded++
		if res.Devlog.Path == "" {
			obs.Succeed("hook installed, no commits yet")
		} else {
			obs.Succeed(fmt.Sprintf("%d commits", res.Devlog.Commits))
		}
	}
	return result, nil
}

// AggregateResult describes a written combined log.
type AggregateResult struct {
	Path string
	// Included lists repositories whose history was read.
	Included []string
	// Missing lists tracked repositories whose path no longer exists.
	Missing []string
	// Failures lists repositories whose history could not be read.
	Failures []BatchFailure
}

// Aggregate writes the combined development log for every repository in
// snap to output, or to the configured combined file when output is empty.
// Each repository contributes at most aggregate.commits_per_repo commits;
// the document is capped at aggregate.max_entries. Repositories that are
// missing or unreadable are reported and left out.
func (s *Service) Aggregate(ctx context.Context, snap registry.Snapshot, output string) (AggregateResult, error) {
	if snap.Len() == 0 {
		return AggregateResult{}, ErrNoRepositories
	}

	var result AggregateResult
	byRepo := make(map[string][]gitlog.Commit, snap.Len())

	for _, entry := range snap.Entries() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !entry.Exists() {
			s.logger.WithField("path", entry.Path).Warn("repository not found")
			result.Missing = append(result.Missing, entry.Name)
			continue
		}

		text, err := s.source.Log(ctx, entry.Path, git.LogOptions{Limit: s.cfg.Aggregate.CommitsPerRepo})
		if err != nil {
			s.logger.WithError(err).WithField("repo", entry.Name).Warn("could not read history")
			result.Failures = append(result.Failures, BatchFailure{Name: entry.Name, Err: err})
			continue
		}
		byRepo[entry.Name] = gitlog.Parse(text)
		result.Included = append(result.Included, entry.Name)
	}

	if output == "" {
		output = s.cfg.CombinedPath()
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return result, fmt.Errorf("creating %s: %w", filepath.Dir(output), err)
	}

	now := s.now()
	err := fsutil.WriteAtomic(output, func(w io.Writer) error {
		return devlog.RenderAggregate(w, byRepo, snap.Names(), now, s.cfg.Aggregate.MaxEntries)
	})
	if err != nil {
		return result, fmt.Errorf("writing combined devlog: %w", err)
	}

	result.Path = output
	s.logger.WithField("path", output).Info("generated combined devlog")
	return result, nil
}
