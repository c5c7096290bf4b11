package journal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmragsdale/git-journal/internal/changelog"
	"github.com/jmragsdale/git-journal/internal/config"
	"github.com/jmragsdale/git-journal/internal/git"
	"github.com/jmragsdale/git-journal/internal/registry"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// testRepo is a go-git repository in a temp dir.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo}
}

func (r *testRepo) withOrigin(url string) *testRepo {
	r.t.Helper()
	_, err := r.repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{url}})
	require.NoError(r.t, err)
	return r
}

func (r *testRepo) commit(file, content, message string, when time.Time) string {
	r.t.Helper()
	path := filepath.Join(r.dir, file)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))

	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)
	_, err = wt.Add(file)
	require.NoError(r.t, err)

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: when},
	})
	require.NoError(r.t, err)
	return hash.String()
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 14, 5, 0, 0, time.UTC)
}

// fakeSource returns canned log text. byPath wins over text.
type fakeSource struct {
	text   string
	byPath map[string]string
	errs   map[string]error
	calls  []git.LogOptions
}

func (f *fakeSource) Log(_ context.Context, path string, opts git.LogOptions) (string, error) {
	f.calls = append(f.calls, opts)
	if err := f.errs[path]; err != nil {
		return "", err
	}
	if text, ok := f.byPath[path]; ok {
		return text, nil
	}
	return f.text, nil
}

func testConfig(home string) *config.Configuration {
	return &config.Configuration{
		DevlogFile:         "DEVLOG.md",
		ChangelogFile:      "CHANGELOG.md",
		MaxCommitsInDevlog: 50,
		AutoStageDevlog:    true,
		Aggregate:          config.AggregateConfig{CommitsPerRepo: 20, MaxEntries: 100},
		Scan:               config.ScanConfig{MaxDepth: 3},
		Export:             config.ExportConfig{OpenBrowser: false},
		Watch:              config.WatchConfig{Debounce: 50 * time.Millisecond},
		Home:               home,
	}
}

func newService(t *testing.T, repoPath string, source LogSource) *Service {
	t.Helper()
	return New(Options{
		RepoPath:   repoPath,
		Config:     testConfig(t.TempDir()),
		Source:     source,
		Executable: "/usr/local/bin/gitjournal",
		Now:        func() time.Time { return fixedNow },
	})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerateDevlog(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t).withOrigin("https://github.com/acme/api.git")
	first := r.commit("a.go", "1", "feat: add login", day(1))
	r.commit("b.go", "2", "Merge branch 'main'", day(2))
	third := r.commit("c.go", "3", "fix: handle timeouts\n\nDetails | here", day(3))

	svc := newService(t, r.dir, nil)
	res, err := svc.GenerateDevlog(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "api", res.Repo)
	assert.Equal(t, 3, res.Commits)
	assert.Equal(t, filepath.Join(r.dir, "DEVLOG.md"), res.Path)

	got := readFile(t, res.Path)
	assert.True(t, strings.HasPrefix(got, "# Development Log - api\n\nAuto-generated journal of project changes.\nGenerated: 2024-03-01 09:30\n\n"))
	assert.Contains(t, got, "**Commit:** `"+third[:7]+"`\n\nfix: handle timeouts\n\nDetails | here\n\n---\n\n")
	assert.Contains(t, got, "**Commit:** `"+first[:7]+"`")
	assert.NotContains(t, got, "Merge branch")
	assert.Less(t, strings.Index(got, third[:7]), strings.Index(got, first[:7]), "newest first")
}

func TestGenerateDevlog_OutputAndLimit(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	src := &fakeSource{text: "aaaaaaaaaa|2024-01-01|feat: one|\n"}
	svc := newService(t, r.dir, src)
	svc.cfg.MaxCommitsInDevlog = 7

	res, err := svc.GenerateDevlog(context.Background(), filepath.Join("docs", "..", "JOURNAL.md"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.dir, "JOURNAL.md"), res.Path)
	assert.FileExists(t, res.Path)
	require.Len(t, src.calls, 1)
	assert.Equal(t, git.LogOptions{Limit: 7}, src.calls[0])
}

func TestGenerateDevlog_Errors(t *testing.T) {
	t.Parallel()

	t.Run("not a repository", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, t.TempDir(), &fakeSource{})
		_, err := svc.GenerateDevlog(context.Background(), "")
		assert.ErrorIs(t, err, ErrNotARepository)
	})

	t.Run("empty history writes nothing", func(t *testing.T) {
		t.Parallel()
		r := newTestRepo(t)
		svc := newService(t, r.dir, nil)
		_, err := svc.GenerateDevlog(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmptyHistory)
		assert.NoFileExists(t, filepath.Join(r.dir, "DEVLOG.md"))
	})

	t.Run("source failure", func(t *testing.T) {
		t.Parallel()
		r := newTestRepo(t)
		root, err := git.RepositoryRoot(r.dir)
		require.NoError(t, err)
		boom := errors.New("log failed")
		svc := newService(t, r.dir, &fakeSource{errs: map[string]error{root: boom}})
		_, err = svc.GenerateDevlog(context.Background(), "")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unwritable destination", func(t *testing.T) {
		t.Parallel()
		r := newTestRepo(t)
		svc := newService(t, r.dir, &fakeSource{text: "abcdefg|2024-01-01|feat: x|\n"})
		_, err := svc.GenerateDevlog(context.Background(), filepath.Join("missing", "DEVLOG.md"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "writing devlog")
	})
}

func TestGenerateChangelog(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	src := &fakeSource{text: strings.Join([]string{
		"1111111aaaa|2024-01-04|fix(api): handle timeout|",
		"2222222bbbb|2024-01-03|Merge branch 'dev'|",
		"3333333cccc|2024-01-02|feat: add export|",
		"4444444dddd|2024-01-01|docs: update readme|",
	}, "\n")}
	svc := newService(t, r.dir, src)

	res, err := svc.GenerateChangelog(context.Background(), ChangelogOptions{Since: "v1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.dir, "CHANGELOG.md"), res.Path)
	assert.Equal(t, git.LogOptions{SinceTag: "v1.0.0"}, src.calls[0])

	got := readFile(t, res.Path)
	name := filepath.Base(r.dir)
	assert.True(t, strings.HasPrefix(got, "# Changelog - "+name+"\n"))
	assert.Contains(t, got, "## [Unreleased] - 2024-03-01")
	added := strings.Index(got, "### Added")
	fixed := strings.Index(got, "### Fixed")
	docs := strings.Index(got, "### Documentation")
	assert.True(t, added >= 0 && added < fixed && fixed < docs, "categories in display order")
	assert.Contains(t, got, "- handle timeout (`1111111`)")
	assert.NotContains(t, got, "Merge branch")
	assert.NotContains(t, got, "### Changed")
}

func TestChangelogSections(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := newService(t, r.dir, &fakeSource{text: "abcdef12|2024-01-01|feat(ui): dark mode|\n"})

	name, sections, err := svc.ChangelogSections(context.Background(), ChangelogOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(r.dir), name)
	require.Len(t, sections, 1)
	assert.Equal(t, changelog.Added, sections[0].Category)
	assert.NoFileExists(t, filepath.Join(r.dir, "CHANGELOG.md"))
}

func TestForRepo(t *testing.T) {
	t.Parallel()

	base := newService(t, "/a", &fakeSource{})
	other, err := base.ForRepo("/b")
	require.NoError(t, err)
	assert.Equal(t, "/b", other.RepoPath())
	assert.Same(t, base.Config(), other.Config())
	assert.Equal(t, "/a", base.RepoPath())

	reloaded := testConfig(t.TempDir())
	base.loadConfig = func(path string) (*config.Configuration, error) {
		assert.Equal(t, "/c", path)
		return reloaded, nil
	}
	third, err := base.ForRepo("/c")
	require.NoError(t, err)
	assert.Same(t, reloaded, third.Config())

	base.loadConfig = func(string) (*config.Configuration, error) { return nil, errors.New("bad yaml") }
	_, err = base.ForRepo("/d")
	assert.ErrorContains(t, err, "bad yaml")
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	svc := New(Options{RepoPath: "/x", Config: testConfig(home)})
	assert.IsType(t, git.LogReader{}, svc.source)
	assert.Equal(t, registry.NewStore(home), svc.Registry())
	assert.NotNil(t, svc.now)
	assert.NotNil(t, svc.logger)
}
