package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmragsdale/git-journal/internal/config"
	"github.com/jmragsdale/git-journal/internal/journal"
	"github.com/jmragsdale/git-journal/internal/registry"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return dir
}

func installHook(t *testing.T, dir string) {
	t.Helper()
	svc := journal.New(journal.Options{
		RepoPath:   dir,
		Config:     &config.Configuration{DevlogFile: "DEVLOG.md", Home: t.TempDir()},
		Executable: "/usr/local/bin/gitjournal",
	})
	_, err := svc.InstallHook(context.Background())
	require.NoError(t, err)
}

func TestCheckRepository(t *testing.T) {
	t.Parallel()

	hooked := initRepo(t)
	installHook(t, hooked)
	bare := initRepo(t)

	tests := map[string]struct {
		entry      registry.Entry
		wantPassed bool
		contains   string
	}{
		"hook installed": {
			entry:      registry.Entry{Name: "api", Path: hooked, HookInstalled: true},
			wantPassed: true,
			contains:   "ok",
		},
		"no hook expected": {
			entry:      registry.Entry{Name: "web", Path: bare},
			wantPassed: true,
			contains:   "no hook",
		},
		"hook missing": {
			entry:    registry.Entry{Name: "web", Path: bare, HookInstalled: true},
			contains: "hook install --path " + bare,
		},
		"path gone": {
			entry:    registry.Entry{Name: "old", Path: filepath.Join(bare, "gone")},
			contains: "path not found",
		},
		"not a repository": {
			entry:    registry.Entry{Name: "plain", Path: t.TempDir()},
			contains: "not a git repository",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := CheckRepository(tt.entry)
			assert.Equal(t, tt.entry.Name, got.Name)
			assert.Equal(t, tt.wantPassed, got.Passed)
			assert.Contains(t, got.Message, tt.contains)
		})
	}
}

func TestCheckHomeDir(t *testing.T) {
	t.Parallel()

	home := filepath.Join(t.TempDir(), "state")
	got := CheckHomeDir(home)
	assert.True(t, got.Passed, got.Message)
	assert.DirExists(t, home)

	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch file is removed")

	assert.False(t, CheckHomeDir("").Passed)
}

func TestCheckRegistry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := registry.NewStore(dir)
	require.NoError(t, store.Save(registry.NewSnapshot(registry.Entry{Name: "api", Path: "/api"})))

	got, snap := CheckRegistry(store)
	assert.True(t, got.Passed)
	assert.Equal(t, "1 tracked repositories", got.Message)
	assert.Equal(t, []string{"api"}, snap.Names())

	require.NoError(t, os.WriteFile(store.Path(), []byte("[broken"), 0o644))
	got, snap = CheckRegistry(store)
	assert.False(t, got.Passed)
	assert.Equal(t, 0, snap.Len())
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	report := &HealthReport{
		Checks: []CheckResult{
			{Name: "Configuration", Passed: true, Message: "valid"},
			{Name: "Registry", Passed: false, Message: "unreadable"},
		},
		RepoChecks: []CheckResult{{Name: "api", Passed: true, Message: "ok"}},
	}

	assert.Equal(t,
		"✓ Configuration: valid\n"+
			"✗ Registry: unreadable\n"+
			"\nRepositories:\n"+
			"  ✓ api: ok\n",
		FormatReport(report))
}
