package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// Commands share the global rootCmd, so tests in this package that execute
// it cannot run in parallel.

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes gitjournal with args against an isolated home directory
// and returns what it printed.
func run(t *testing.T, args ...string) result {
	t.Helper()
	return runWithInput(t, "", args...)
}

func runWithInput(t *testing.T, input string, args ...string) result {
	t.Helper()
	if os.Getenv("GITJOURNAL_HOME") == "" {
		t.Setenv("GITJOURNAL_HOME", t.TempDir())
	}

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// isolateHome points GITJOURNAL_HOME at a fresh directory and returns it.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("GITJOURNAL_HOME", home)
	return home
}

func newRepo(t *testing.T, dir string) *gogit.Repository {
	t.Helper()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return repo
}

func commit(t *testing.T, repo *gogit.Repository, dir, file, message string, when time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(message), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(file)
	require.NoError(t, err)
	_, err = wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: when},
	})
	require.NoError(t, err)
}

// repoWithHistory creates a repository holding a feature and a fix.
func repoWithHistory(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo := newRepo(t, dir)
	commit(t, repo, dir, "a.txt", "feat: add login page", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	commit(t, repo, dir, "b.txt", "fix(auth): reject expired tokens", time.Date(2024, 1, 3, 11, 0, 0, 0, time.UTC))
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
