package changelog

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmragsdale/git-journal/internal/gitlog"
)

// Group classifies every non-merge commit and returns one Section per
// non-empty category, in display order. Commits keep their input order
// within a section.
func Group(commits []gitlog.Commit) []Section {
	var buckets [numCategories][]ClassifiedCommit

	for _, c := range commits {
		if c.IsMerge() {
			continue
		}
		cat, desc := Classify(c.Message)
		buckets[cat] = append(buckets[cat], ClassifiedCommit{
			Category:    cat,
			Description: desc,
			Hash:        c.Hash,
			Date:        c.Date,
		})
	}

	var sections []Section
	for _, cat := range Categories() {
		if len(buckets[cat]) == 0 {
			continue
		}
		sections = append(sections, Section{Category: cat, Items: buckets[cat]})
	}
	return sections
}

// RenderMarkdown writes the changelog document for repoName. All commits
// land under a single "Unreleased" heading dated with now.
//
// Output depends only on the inputs, so rendering twice with the same
// now yields identical bytes.
func RenderMarkdown(w io.Writer, repoName string, commits []gitlog.Commit, now time.Time) error {
	if err := renderHeader(w, repoName, now); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}

	for _, s := range Group(commits) {
		if err := renderSection(w, s); err != nil {
			return fmt.Errorf("rendering %s: %w", s.Category, err)
		}
	}

	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(repoName string, commits []gitlog.Commit, now time.Time) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(&b, repoName, commits, now); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderHeader(w io.Writer, repoName string, now time.Time) error {
	header := `# Changelog - ` + repoName + `

All notable changes to this project will be documented in this file.
Auto-generated from git commits.

## [Unreleased] - ` + now.Format("2006-01-02") + `

`
	_, err := io.WriteString(w, header)
	return err
}

func renderSection(w io.Writer, s Section) error {
	if _, err := fmt.Fprintf(w, "### %s\n\n", s.Category); err != nil {
		return err
	}

	for _, item := range s.Items {
		if _, err := fmt.Fprintf(w, "- %s (`%s`)\n", item.Description, item.Hash); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n")
	return err
}
