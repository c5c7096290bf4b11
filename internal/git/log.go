package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// LogOptions bounds a history walk.
type LogOptions struct {
	// Limit caps the number of commits (0 = unlimited).
	Limit int
	// SinceTag excludes commits reachable from this tag (tag..HEAD).
	SinceTag string
}

// LogReader produces commit-log text in the hash|date|subject|body line
// format read by gitlog.Parse.
type LogReader struct{}

// Log implements the journal's log source on top of the package-level Log.
func (LogReader) Log(ctx context.Context, path string, opts LogOptions) (string, error) {
	return Log(ctx, path, opts)
}

// Log walks history from HEAD newest first and renders one line per commit:
//
//	<full-hash>|<author date YYYY-MM-DD>|<subject>|<body>
//
// Multi-line bodies are folded onto one line with single spaces.
// A repository without commits yields empty text and no error.
func Log(ctx context.Context, path string, opts LogOptions) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			logDebug("Log: %s has no commits", path)
			return "", nil
		}
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	exclude, err := ancestorsOfTag(repo, opts.SinceTag)
	if err != nil {
		return "", err
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	var b strings.Builder
	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if exclude[c.Hash] {
			return nil
		}
		if opts.Limit > 0 && count >= opts.Limit {
			return storer.ErrStop
		}
		writeLogLine(&b, c)
		count++
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading history: %w", err)
	}

	logDebug("Log: %d commits from %s", count, path)
	return b.String(), nil
}

// ancestorsOfTag returns the set of commits reachable from tag.
// An empty tag yields an empty set.
func ancestorsOfTag(repo *git.Repository, tag string) (map[plumbing.Hash]bool, error) {
	set := make(map[plumbing.Hash]bool)
	if tag == "" {
		return set, nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(tag))
	if err != nil {
		return nil, fmt.Errorf("resolving tag %q: %w", tag, err)
	}

	iter, err := repo.Log(&git.LogOptions{From: *hash})
	if err != nil {
		return nil, fmt.Errorf("walking history of %q: %w", tag, err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		set[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading history of %q: %w", tag, err)
	}
	return set, nil
}

func writeLogLine(b *strings.Builder, c *object.Commit) {
	subject, body := splitMessage(c.Message)
	b.WriteString(c.Hash.String())
	b.WriteString("|")
	b.WriteString(c.Author.When.Format("2006-01-02"))
	b.WriteString("|")
	b.WriteString(subject)
	b.WriteString("|")
	b.WriteString(foldLines(body))
	b.WriteString("\n")
}

// foldLines joins the non-empty trimmed lines of s with single spaces.
func foldLines(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
