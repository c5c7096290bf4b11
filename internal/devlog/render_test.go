package devlog

import (
	"strings"
	"testing"
	"time"

	"github.com/jmragsdale/git-journal/internal/gitlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 2, 1, 14, 30, 0, 0, time.UTC)

func TestRenderString_Golden(t *testing.T) {
	t.Parallel()

	commits := []gitlog.Commit{
		{Hash: "abc1234", Date: "2024-01-15", Message: "feat(auth): add OAuth login", Body: "Uses PKCE.  "},
		{Hash: "def5678", Date: "2024-01-14", Message: "Merge branch 'main'"},
		{Hash: "1111111", Date: "2024-01-13", Message: "fix: null pointer"},
	}

	want := "# Development Log - demo\n" +
		"\n" +
		"Auto-generated journal of project changes.\n" +
		"Generated: 2024-02-01 14:30\n" +
		"\n" +
		"## 2024-01-15\n" +
		"\n" +
		"**Commit:** `abc1234`\n" +
		"\n" +
		"feat(auth): add OAuth login\n" +
		"\n" +
		"Uses PKCE.\n" +
		"\n" +
		"---\n" +
		"\n" +
		"## 2024-01-13\n" +
		"\n" +
		"**Commit:** `1111111`\n" +
		"\n" +
		"fix: null pointer\n" +
		"\n" +
		"---\n" +
		"\n"

	got, err := RenderString("demo", commits, testNow)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRenderString(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		commits     []gitlog.Commit
		contains    []string
		notContains []string
	}{
		"empty sequence renders header only": {
			commits:     nil,
			contains:    []string{"# Development Log - demo", "Generated: 2024-02-01 14:30"},
			notContains: []string{"## ", "---"},
		},
		"merge commits skipped": {
			commits: []gitlog.Commit{
				{Hash: "def5678", Date: "2024-01-16", Message: "Merge branch 'main'"},
			},
			notContains: []string{"def5678", "Merge branch"},
		},
		"empty body omitted": {
			commits: []gitlog.Commit{
				{Hash: "aaaaaaa", Date: "2024-01-16", Message: "docs: readme", Body: "   "},
			},
			contains: []string{"docs: readme\n\n---\n\n"},
		},
		"input order kept": {
			commits: []gitlog.Commit{
				{Hash: "aaaaaaa", Date: "2024-01-01", Message: "old"},
				{Hash: "bbbbbbb", Date: "2024-01-09", Message: "new"},
			},
			contains: []string{"## 2024-01-01\n\n**Commit:** `aaaaaaa`\n\nold\n\n---\n\n## 2024-01-09"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := RenderString("demo", tt.commits, testNow)
			require.NoError(t, err)

			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestRenderString_Idempotent(t *testing.T) {
	t.Parallel()

	commits := []gitlog.Commit{
		{Hash: "aaaaaaa", Date: "2024-01-01", Message: "feat: a", Body: "b|c"},
	}
	first, err := RenderString("demo", commits, testNow)
	require.NoError(t, err)
	second, err := RenderString("demo", commits, testNow)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	later, err := RenderString("demo", commits, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t,
		strings.Replace(first, "14:30", "15:30", 1), later,
		"only the generation timestamp differs")
}

func TestWriteEntry_Files(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	require.NoError(t, WriteEntry(&b, Entry{
		Date:    "2024-02-02 09:05",
		Hash:    "abc1234",
		Subject: "fix: hook",
		Body:    "line one\nline two\n",
		Files:   []string{"a.go", "dir/b.go"},
	}))

	want := "## 2024-02-02 09:05\n" +
		"\n" +
		"**Commit:** `abc1234`\n" +
		"\n" +
		"fix: hook\n" +
		"\n" +
		"line one\nline two\n" +
		"\n" +
		"**Files:** a.go, dir/b.go\n" +
		"\n" +
		"---\n" +
		"\n"
	assert.Equal(t, want, b.String())
}
