package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/jmragsdale/git-journal/internal/gitlog"
)

var renderTime = time.Date(2024, 2, 1, 9, 15, 0, 0, time.UTC)

func sampleCommits() []gitlog.Commit {
	return []gitlog.Commit{
		{Hash: "abc1234", Date: "2024-01-15", Message: "feat(auth): add OAuth login"},
		{Hash: "def5678", Date: "2024-01-16", Message: "Merge branch 'main'"},
		{Hash: "1111111", Date: "2024-01-14", Message: "fix: null pointer"},
		{Hash: "2222222", Date: "2024-01-13", Message: "docs: readme"},
		{Hash: "3333333", Date: "2024-01-12", Message: "feat: second feature"},
	}
}

func TestRenderMarkdownString_Golden(t *testing.T) {
	want := "# Changelog - demo\n" +
		"\n" +
		"All notable changes to this project will be documented in this file.\n" +
		"Auto-generated from git commits.\n" +
		"\n" +
		"## [Unreleased] - 2024-02-01\n" +
		"\n" +
		"### Added\n" +
		"\n" +
		"- add OAuth login (`abc1234`)\n" +
		"- second feature (`3333333`)\n" +
		"\n" +
		"### Fixed\n" +
		"\n" +
		"- null pointer (`1111111`)\n" +
		"\n" +
		"### Documentation\n" +
		"\n" +
		"- readme (`2222222`)\n" +
		"\n"

	got, err := RenderMarkdownString("demo", sampleCommits(), renderTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("unexpected output:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderMarkdownString(t *testing.T) {
	tests := map[string]struct {
		commits     []gitlog.Commit
		contains    []string
		notContains []string
	}{
		"no commits renders header only": {
			commits:     nil,
			contains:    []string{"# Changelog - demo", "## [Unreleased] - 2024-02-01"},
			notContains: []string{"###"},
		},
		"merge commits are excluded": {
			commits: []gitlog.Commit{
				{Hash: "def5678", Date: "2024-01-16", Message: "Merge branch 'main'"},
				{Hash: "aaaaaaa", Date: "2024-01-16", Message: "Merge pull request #4 from fix/thing"},
			},
			notContains: []string{"def5678", "aaaaaaa", "###"},
		},
		"empty categories omitted": {
			commits: []gitlog.Commit{
				{Hash: "1111111", Date: "2024-01-14", Message: "fix: a"},
			},
			contains: []string{"### Fixed"},
			notContains: []string{
				"### Breaking Changes", "### Added", "### Changed", "### Security",
				"### Deprecated", "### Removed", "### Documentation",
				"### Performance", "### Testing", "### Maintenance",
			},
		},
		"entries keep markdown": {
			commits: []gitlog.Commit{
				{Hash: "1111111", Date: "2024-01-14", Message: "feat: new `command` with **bold**"},
			},
			contains: []string{"- new `command` with **bold** (`1111111`)"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := RenderMarkdownString("demo", tt.commits, renderTime)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("expected output to contain %q, got:\n%s", expected, result)
				}
			}

			for _, notExpected := range tt.notContains {
				if strings.Contains(result, notExpected) {
					t.Errorf("expected output NOT to contain %q, got:\n%s", notExpected, result)
				}
			}
		})
	}
}

func TestRenderMarkdownIdempotent(t *testing.T) {
	result1, err := RenderMarkdownString("demo", sampleCommits(), renderTime)
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}

	result2, err := RenderMarkdownString("demo", sampleCommits(), renderTime)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}

	if result1 != result2 {
		t.Errorf("idempotency check failed:\nFirst:\n%s\nSecond:\n%s", result1, result2)
	}
}

func TestRenderMarkdownCategoryOrder(t *testing.T) {
	// Input deliberately lists categories in reverse display order.
	commits := []gitlog.Commit{
		{Hash: "0000011", Date: "2024-01-11", Message: "chore: m"},
		{Hash: "0000010", Date: "2024-01-10", Message: "test: t"},
		{Hash: "0000009", Date: "2024-01-09", Message: "perf: p"},
		{Hash: "0000008", Date: "2024-01-08", Message: "docs: d"},
		{Hash: "0000007", Date: "2024-01-07", Message: "remove: r"},
		{Hash: "0000006", Date: "2024-01-06", Message: "deprecate: d"},
		{Hash: "0000005", Date: "2024-01-05", Message: "security: s"},
		{Hash: "0000004", Date: "2024-01-04", Message: "fix: f"},
		{Hash: "0000003", Date: "2024-01-03", Message: "refactor: c"},
		{Hash: "0000002", Date: "2024-01-02", Message: "feat: a"},
		{Hash: "0000001", Date: "2024-01-01", Message: "breaking: b"},
	}

	result, err := RenderMarkdownString("demo", commits, renderTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := -1
	for _, cat := range Categories() {
		pos := strings.Index(result, "### "+cat.String()+"\n")
		if pos == -1 {
			t.Fatalf("category %s not found in output", cat)
		}
		if pos < last {
			t.Errorf("category %s is out of order", cat)
		}
		last = pos
	}
}

func TestGroup_PreservesInputOrderWithinCategory(t *testing.T) {
	commits := []gitlog.Commit{
		{Hash: "ccccccc", Date: "2024-01-03", Message: "feat: third"},
		{Hash: "aaaaaaa", Date: "2024-01-01", Message: "feat: first"},
		{Hash: "bbbbbbb", Date: "2024-01-02", Message: "feat: second"},
	}

	sections := Group(commits)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}

	var got []string
	for _, item := range sections[0].Items {
		got = append(got, item.Hash)
	}
	want := []string{"ccccccc", "aaaaaaa", "bbbbbbb"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got order %v, want %v", got, want)
	}
}
