package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gitjournal", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.Contains(t, rootCmd.Example, "gitjournal changelog --since")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"path", "config", "verbose", "debug"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "flag %s should exist", name)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"devlog":       GroupDocuments,
		"changelog":    GroupDocuments,
		"export":       GroupDocuments,
		"aggregate":    GroupDocuments,
		"generate-all": GroupDocuments,
		"watch":        GroupDocuments,
		"init":         GroupRepositories,
		"hook":         GroupRepositories,
		"list":         GroupRepositories,
		"scan":         GroupRepositories,
		"config":       GroupConfiguration,
		"doctor":       GroupConfiguration,
		"version":      GroupConfiguration,
	}

	for name, group := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
			assert.Equal(t, group, cmd.GroupID)
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":        {err: nil, want: ExitSuccess},
		"plain":      {err: errors.New("boom"), want: ExitFailure},
		"exit error": {err: NewExitError(ExitPartialFailure), want: ExitPartialFailure},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExecute_UnknownFlag(t *testing.T) {
	res := run(t, "devlog", "--no-such-flag")

	assert.Equal(t, ExitInvalidArguments, ExitCode(res.err))
	assert.Contains(t, res.stderr, "Argument Error")
	assert.Contains(t, res.stderr, "no-such-flag")
}

func TestExecute_NotARepository(t *testing.T) {
	dir := t.TempDir()

	res := run(t, "--path", dir)

	assert.Equal(t, ExitNotARepository, ExitCode(res.err))
	assert.Contains(t, res.stderr, "not a git repository")
	assert.Contains(t, res.stderr, "--path")
}

func TestExecute_Version(t *testing.T) {
	res := run(t, "version", "--plain")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "gitjournal dev")
	assert.Contains(t, res.stdout, "platform:")
}
