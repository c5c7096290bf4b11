// Package devlog renders the chronological development log, the combined
// multi-repository log, and merges single entries into an existing log.
package devlog

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmragsdale/git-journal/internal/gitlog"
)

// TimestampLayout is the layout of the "Generated:" line.
const TimestampLayout = "2006-01-02 15:04"

// Entry is one block of the development log. Date is either a calendar
// date (full generation) or a date with minutes (post-commit hook).
type Entry struct {
	Date    string
	Hash    string
	Subject string
	Body    string
	Files   []string
}

// EntryFromCommit converts a parsed commit into a log entry.
func EntryFromCommit(c gitlog.Commit) Entry {
	return Entry{
		Date:    c.Date,
		Hash:    c.Hash,
		Subject: c.Message,
		Body:    c.Body,
	}
}

// Render writes the development log for repoName. Commits are written in
// input order; merge commits are skipped.
func Render(w io.Writer, repoName string, commits []gitlog.Commit, now time.Time) error {
	if err := writeHeader(w, repoName, now); err != nil {
		return fmt.Errorf("writing devlog header: %w", err)
	}

	for _, c := range commits {
		if c.IsMerge() {
			continue
		}
		if err := WriteEntry(w, EntryFromCommit(c)); err != nil {
			return fmt.Errorf("writing entry %s: %w", c.Hash, err)
		}
	}
	return nil
}

// RenderString is a convenience function that renders to a string.
func RenderString(repoName string, commits []gitlog.Commit, now time.Time) (string, error) {
	var b strings.Builder
	if err := Render(&b, repoName, commits, now); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Header returns the title block that opens every development log.
func Header(repoName string, now time.Time) string {
	return "# Development Log - " + repoName + "\n" +
		"\n" +
		"Auto-generated journal of project changes.\n" +
		"Generated: " + now.Format(TimestampLayout) + "\n" +
		"\n"
}

func writeHeader(w io.Writer, repoName string, now time.Time) error {
	_, err := io.WriteString(w, Header(repoName, now))
	return err
}

// WriteEntry writes a single entry block terminated by a horizontal rule.
func WriteEntry(w io.Writer, e Entry) error {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", e.Date)
	fmt.Fprintf(&b, "**Commit:** `%s`\n\n", e.Hash)
	fmt.Fprintf(&b, "%s\n\n", e.Subject)
	if body := strings.TrimSpace(e.Body); body != "" {
		fmt.Fprintf(&b, "%s\n\n", body)
	}
	if len(e.Files) > 0 {
		fmt.Fprintf(&b, "**Files:** %s\n\n", strings.Join(e.Files, ", "))
	}
	b.WriteString("---\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}
