package devlog

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jmragsdale/git-journal/internal/gitlog"
)

// DefaultAggregateMax caps the number of commits considered for the
// combined log.
const DefaultAggregateMax = 100

// Combine stamps every commit with its repository name and merges the
// sets into one sequence sorted by date, newest first. Repositories are
// visited in name order and ties keep per-repository order, so the result
// is deterministic. Merge commits are kept.
func Combine(byRepo map[string][]gitlog.Commit) []gitlog.Commit {
	names := make([]string, 0, len(byRepo))
	for name := range byRepo {
		names = append(names, name)
	}
	sort.Strings(names)

	var all []gitlog.Commit
	for _, name := range names {
		for _, c := range byRepo[name] {
			all = append(all, c.WithRepo(name))
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date > all[j].Date
	})
	return all
}

// RenderAggregate writes the combined development log. The merged
// sequence is truncated to maxEntries before merge commits are skipped,
// so fewer than maxEntries lines may appear. maxEntries <= 0 means
// DefaultAggregateMax.
func RenderAggregate(w io.Writer, byRepo map[string][]gitlog.Commit, repoNames []string, now time.Time, maxEntries int) error {
	if maxEntries <= 0 {
		maxEntries = DefaultAggregateMax
	}

	header := "# Combined Development Log\n" +
		"\n" +
		"Activity across all tracked repositories.\n" +
		"Generated: " + now.Format(TimestampLayout) + "\n" +
		"Repositories: " + strings.Join(repoNames, ", ") + "\n" +
		"\n"
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("writing aggregate header: %w", err)
	}

	all := Combine(byRepo)
	if len(all) > maxEntries {
		all = all[:maxEntries]
	}

	currentDate := ""
	for _, c := range all {
		if c.IsMerge() {
			continue
		}
		if c.Date != currentDate {
			currentDate = c.Date
			if _, err := fmt.Fprintf(w, "\n## %s\n\n", currentDate); err != nil {
				return fmt.Errorf("writing date heading: %w", err)
			}
		}
		if _, err := fmt.Fprintf(w, "**[%s]** %s (`%s`)\n\n", c.Repo, c.Message, c.Hash); err != nil {
			return fmt.Errorf("writing entry %s: %w", c.Hash, err)
		}
	}
	return nil
}

// RenderAggregateString is a convenience function that renders to a string.
func RenderAggregateString(byRepo map[string][]gitlog.Commit, repoNames []string, now time.Time, maxEntries int) (string, error) {
	var b strings.Builder
	if err := RenderAggregate(&b, byRepo, repoNames, now, maxEntries); err != nil {
		return "", err
	}
	return b.String(), nil
}
