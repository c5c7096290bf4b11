// Package gitlog turns raw commit-log text into Commit records.
//
// The wire format is one commit per line:
//
//	<hash>|<YYYY-MM-DD>|<subject>|<body>
//
// Only the first three pipes are delimiters, so bodies may contain '|'.
package gitlog

import "strings"

// ShortHashLen is the number of hash characters kept on a parsed Commit.
const ShortHashLen = 7

// MergeMarker prefixes the subject of merge commits. Renderers skip such
// commits; the parser keeps them.
const MergeMarker = "Merge"

// fieldSep separates the fields of a log line.
const fieldSep = "|"

// Commit is one parsed commit. Date is an ISO calendar date so that string
// ordering equals chronological ordering.
type Commit struct {
	Hash    string
	Date    string
	Message string
	Body    string
	// Repo is set only when commits from several repositories are combined.
	Repo string
}

// IsMerge reports whether the commit subject starts with MergeMarker.
func (c Commit) IsMerge() bool {
	return strings.HasPrefix(c.Message, MergeMarker)
}

// WithRepo returns a copy of c stamped with the repository name.
func (c Commit) WithRepo(name string) Commit {
	c.Repo = name
	return c
}

// Parse converts log text into commits, preserving input order.
// Lines without a delimiter are noise and are skipped, as are lines
// missing a hash, date field or subject. Empty input yields nil.
func Parse(text string) []Commit {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var commits []Commit
	for _, line := range strings.Split(text, "\n") {
		c, ok := ParseLine(strings.TrimRight(line, "\r"))
		if !ok {
			continue
		}
		commits = append(commits, c)
	}
	return commits
}

// ParseLine parses a single log line. It returns false for lines that do
// not encode a commit.
func ParseLine(line string) (Commit, bool) {
	if !strings.Contains(line, fieldSep) {
		return Commit{}, false
	}

	parts := strings.SplitN(line, fieldSep, 4)
	if len(parts) < 3 {
		return Commit{}, false
	}

	c := Commit{
		Hash:    shortHash(parts[0]),
		Date:    parts[1],
		Message: parts[2],
	}
	if len(parts) == 4 {
		c.Body = parts[3]
	}
	if c.Hash == "" || c.Message == "" {
		return Commit{}, false
	}
	return c, true
}

func shortHash(hash string) string {
	if len(hash) > ShortHashLen {
		return hash[:ShortHashLen]
	}
	return hash
}

// WithoutMerges returns the commits that are not merge commits, in order.
func WithoutMerges(commits []Commit) []Commit {
	out := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if c.IsMerge() {
			continue
		}
		out = append(out, c)
	}
	return out
}
