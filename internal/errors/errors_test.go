package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[ErrorCategory]string{
		Argument:          "Argument Error",
		Configuration:     "Configuration Error",
		Repository:        "Repository Error",
		Filesystem:        "Filesystem Error",
		Runtime:           "Runtime Error",
		ErrorCategory(42): "Error",
	}
	for cat, want := range tests {
		assert.Equal(t, want, cat.String())
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	sentinel := stderrors.New("disk full")

	assert.Nil(t, Wrap(nil, Runtime, "ignored"))

	wrapped := Wrap(sentinel, Filesystem, "cannot write DEVLOG.md", "free space")
	require.NotNil(t, wrapped)
	assert.Equal(t, "cannot write DEVLOG.md: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, sentinel)
	assert.Equal(t, []string{"free space"}, wrapped.Remediation)

	bare := Wrap(sentinel, Runtime, "")
	assert.Equal(t, "disk full", bare.Error())
}

func TestAsCLIError(t *testing.T) {
	t.Parallel()

	cliErr := NotARepository("/tmp/x")
	chained := fmt.Errorf("generating devlog: %w", cliErr)

	assert.Same(t, cliErr, AsCLIError(chained))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
	assert.Nil(t, AsCLIError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  *CLIError
		want string
	}{
		"nil": {
			err:  nil,
			want: "",
		},
		"message only": {
			err:  New(Runtime, "boom"),
			want: "Error [Runtime Error]: boom\n",
		},
		"with usage and remediation": {
			err: InvalidDepth(0),
			want: "Error [Argument Error]: invalid depth 0\n" +
				"\nUsage: gitjournal scan <directory> --depth N\n" +
				"\nTo fix this:\n  • Depth must be between 1 and 20\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatErrorPlain(tt.err))
		})
	}
}

func TestFprint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain failure"))
	assert.Contains(t, buf.String(), "plain failure")
	assert.Contains(t, buf.String(), "Runtime Error")

	buf.Reset()
	Fprint(&buf, fmt.Errorf("ctx: %w", NoTrackedRepositories()))
	assert.Contains(t, buf.String(), "no repositories tracked yet")
	assert.Contains(t, buf.String(), "gitjournal scan")

	buf.Reset()
	Fprint(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestMessages(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("permission denied")

	tests := map[string]struct {
		err      *CLIError
		category ErrorCategory
		contains string
	}{
		"not a repository": {err: NotARepository("/src/x"), category: Repository, contains: "/src/x"},
		"no tracked repos": {err: NoTrackedRepositories(), category: Configuration, contains: "no repositories"},
		"missing document": {err: MissingDocument("DEVLOG.md"), category: Filesystem, contains: "DEVLOG.md"},
		"unwritable":       {err: UnwritableDestination("out.md", cause), category: Filesystem, contains: "permission denied"},
		"invalid config":   {err: InvalidConfig(cause), category: Configuration, contains: "invalid configuration"},
		"registry":         {err: RegistryUnreadable("repos.yml", cause), category: Configuration, contains: "registry"},
		"path not found":   {err: PathNotFound("/nope"), category: Argument, contains: "/nope"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}
