// Package watch regenerates documents when a repository's HEAD moves.
//
// Git appends a line to .git/logs/HEAD for every commit, checkout, reset
// and merge, so watching that file catches history changes made by any
// tool without installing hooks.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called once per burst of HEAD changes.
type Handler func(ctx context.Context) error

// Watcher watches one repository's HEAD reflog.
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	logger   logrus.FieldLogger
}

// HeadLogPath returns the reflog file for HEAD inside gitDir.
func HeadLogPath(gitDir string) string {
	return filepath.Join(gitDir, "logs", "HEAD")
}

// New creates a Watcher for the repository whose .git directory is gitDir.
// A non-positive debounce uses DefaultDebounce.
func New(gitDir string, debounce time.Duration, handler Handler, logger logrus.FieldLogger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		logger = l
	}
	return &Watcher{
		path:     filepath.Clean(HeadLogPath(gitDir)),
		debounce: debounce,
		handler:  handler,
		logger:   logger,
	}
}

// Path returns the file being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks until ctx is cancelled. Changes to the HEAD reflog that
// arrive within the debounce window of each other trigger a single handler
// call. Handler errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	// The logs directory appears with the first commit.
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.logger.WithField("path", w.path).Debug("watching HEAD reflog")

	triggers := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.eventLoop(gctx, fsw, triggers)
	})
	g.Go(func() error {
		return w.debounceLoop(gctx, triggers)
	})
	return g.Wait()
}

// eventLoop forwards relevant fsnotify events to triggers. Sends never
// block: a pending trigger already covers the new event.
func (w *Watcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher, triggers chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			select {
			case triggers <- struct{}{}:
			default:
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("file watcher error")
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context, triggers <-chan struct{}) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-triggers:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.handler(ctx); err != nil {
				w.logger.WithError(err).Error("regenerating after HEAD change")
			}
		}
	}
}
