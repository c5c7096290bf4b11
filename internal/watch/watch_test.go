package watch

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(line + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

// startWatcher runs w until the test ends and returns a channel carrying
// Run's result.
func startWatcher(t *testing.T, w *Watcher) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(cancel)

	// Give fsnotify time to register the directory.
	time.Sleep(100 * time.Millisecond)
	return cancel, done
}

func TestHeadLogPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("repo", ".git", "logs", "HEAD"), HeadLogPath(filepath.Join("repo", ".git")))
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	w := New("/tmp/x/.git", 0, func(context.Context) error { return nil }, nil)
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.NotNil(t, w.logger)
	assert.Equal(t, filepath.Clean("/tmp/x/.git/logs/HEAD"), w.Path())
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	t.Parallel()

	gitDir := filepath.Join(t.TempDir(), ".git")
	var calls atomic.Int32
	w := New(gitDir, 150*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, quietLogger())

	cancel, done := startWatcher(t, w)
	assert.DirExists(t, filepath.Join(gitDir, "logs"))

	for i := 0; i < 5; i++ {
		appendLine(t, w.Path(), "commit")
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	appendLine(t, w.Path(), "another commit")
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	gitDir := filepath.Join(t.TempDir(), ".git")
	var calls atomic.Int32
	w := New(gitDir, 50*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, quietLogger())

	startWatcher(t, w)
	appendLine(t, filepath.Join(gitDir, "logs", "ORIG_HEAD"), "noise")

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcher_HandlerErrorKeepsWatching(t *testing.T) {
	t.Parallel()

	gitDir := filepath.Join(t.TempDir(), ".git")
	var calls atomic.Int32
	w := New(gitDir, 50*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return errors.New("render failed")
	}, quietLogger())

	startWatcher(t, w)

	appendLine(t, w.Path(), "one")
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)

	appendLine(t, w.Path(), "two")
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 3*time.Second, 20*time.Millisecond)
}
