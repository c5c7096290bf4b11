// Package journal implements gitjournal's operations on repositories:
// generating the devlog and changelog, keeping the devlog current from the
// post-commit hook, initializing repositories and batch runs over every
// tracked repository.
//
// A Service is bound to one repository path. Nothing here reads the
// process working directory; callers resolve the path once and pass it in.
package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jmragsdale/git-journal/internal/config"
	"github.com/jmragsdale/git-journal/internal/git"
	"github.com/jmragsdale/git-journal/internal/registry"
)

var (
	// ErrNotARepository is returned when the target path has no git history.
	ErrNotARepository = errors.New("not a git repository")
	// ErrEmptyHistory signals that there were no commits to render.
	// Nothing is written when it is returned.
	ErrEmptyHistory = errors.New("no commits found")
	// ErrMissingDocument is returned when a document to read does not exist.
	ErrMissingDocument = errors.New("document not found")
	// ErrNoRepositories is returned by batch operations on an empty registry.
	ErrNoRepositories = errors.New("no repositories tracked")
)

// LogSource produces commit-log text in the hash|date|subject|body line
// format. git.LogReader is the production implementation.
type LogSource interface {
	Log(ctx context.Context, path string, opts git.LogOptions) (string, error)
}

// ConfigLoader loads the effective configuration for a repository.
type ConfigLoader func(repoPath string) (*config.Configuration, error)

// Options configures a Service. Only RepoPath and Config are required.
type Options struct {
	RepoPath string
	Config   *config.Configuration
	Logger   logrus.FieldLogger
	Source   LogSource
	Registry *registry.Store
	// LoadConfig reloads configuration when a batch operation moves to
	// another repository. When nil, Config is shared by all repositories.
	LoadConfig ConfigLoader
	// Executable is the gitjournal binary invoked by installed hooks.
	Executable string
	// Now returns the generation time. Defaults to time.Now.
	Now func() time.Time
}

// Service runs journal operations for one repository.
type Service struct {
	repoPath   string
	cfg        *config.Configuration
	logger     logrus.FieldLogger
	source     LogSource
	registry   *registry.Store
	loadConfig ConfigLoader
	executable string
	now        func() time.Time
}

// New creates a Service from opts, filling in defaults.
func New(opts Options) *Service {
	s := &Service{
		repoPath:   opts.RepoPath,
		cfg:        opts.Config,
		logger:     opts.Logger,
		source:     opts.Source,
		registry:   opts.Registry,
		loadConfig: opts.LoadConfig,
		executable: opts.Executable,
		now:        opts.Now,
	}
	if s.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.logger = l
	}
	if s.source == nil {
		s.source = git.LogReader{}
	}
	if s.registry == nil {
		s.registry = registry.NewStore(s.cfg.Home)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// RepoPath returns the path the service was created for.
func (s *Service) RepoPath() string {
	return s.repoPath
}

// Config returns the configuration in effect.
func (s *Service) Config() *config.Configuration {
	return s.cfg
}

// Registry returns the repository registry store.
func (s *Service) Registry() *registry.Store {
	return s.registry
}

// ForRepo returns a Service for another repository sharing this service's
// collaborators. Configuration is reloaded when a loader is set.
func (s *Service) ForRepo(path string) (*Service, error) {
	next := *s
	next.repoPath = path
	next.logger = s.logger.WithField("repo", filepath.Base(path))
	if s.loadConfig != nil {
		cfg, err := s.loadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("loading config for %s: %w", path, err)
		}
		next.cfg = cfg
	}
	return &next, nil
}

// repository describes the resolved target repository.
type repository struct {
	root string
	name string
}

// resolve checks that the service path is a repository and returns its
// worktree root and display name.
func (s *Service) resolve() (repository, error) {
	if !git.IsRepository(s.repoPath) {
		return repository{}, fmt.Errorf("%s: %w", s.repoPath, ErrNotARepository)
	}
	root, err := git.RepositoryRoot(s.repoPath)
	if err != nil {
		return repository{}, fmt.Errorf("%s: %w", s.repoPath, ErrNotARepository)
	}
	name, err := git.RepoName(root)
	if err != nil {
		return repository{}, fmt.Errorf("reading repository name: %w", err)
	}
	return repository{root: root, name: name}, nil
}

// inRepo resolves p against the repository root unless it is absolute.
func inRepo(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
