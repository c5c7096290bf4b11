package devlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/jmragsdale/git-journal/internal/fsutil"
)

// entryPrefix starts every entry heading. Everything above the first such
// line is the document header.
const entryPrefix = "## "

// Merge writes existing with e inserted directly after its header block.
// The header is every line before the first entry heading; a document
// without entries is all header. A nil existing produces a fresh document
// identical to Render with a single commit.
//
// existing is streamed: only the header is buffered.
func Merge(w io.Writer, existing io.Reader, e Entry, repoName string, now time.Time) error {
	if existing == nil {
		if err := writeHeader(w, repoName, now); err != nil {
			return fmt.Errorf("writing devlog header: %w", err)
		}
		return WriteEntry(w, e)
	}

	r := bufio.NewReader(existing)
	boundary, err := copyHeader(w, r)
	if err != nil {
		return err
	}

	if err := WriteEntry(w, e); err != nil {
		return fmt.Errorf("writing entry %s: %w", e.Hash, err)
	}
	if _, err := io.WriteString(w, boundary); err != nil {
		return fmt.Errorf("writing document body: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying document body: %w", err)
	}
	return nil
}

// copyHeader copies lines from r to w until the first entry heading and
// returns that heading line unwritten. At EOF it returns "".
func copyHeader(w io.Writer, r *bufio.Reader) (string, error) {
	for {
		line, err := r.ReadString('\n')
		if strings.HasPrefix(line, entryPrefix) {
			return line, nil
		}
		if line != "" {
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			if _, werr := io.WriteString(w, line); werr != nil {
				return "", fmt.Errorf("writing devlog header: %w", werr)
			}
		}
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("reading devlog header: %w", err)
		}
	}
}

// MergeFile inserts e into the development log at path, creating the file
// if it does not exist. The result replaces path atomically.
func MergeFile(path string, e Entry, repoName string, now time.Time) error {
	src, err := os.Open(path)
	switch {
	case err == nil:
		defer src.Close()
	case errors.Is(err, fs.ErrNotExist):
		// Merge starts a fresh document.
	default:
		return fmt.Errorf("opening %s: %w", path, err)
	}

	return fsutil.WriteAtomic(path, func(w io.Writer) error {
		var existing io.Reader
		if src != nil {
			existing = src
		}
		return Merge(w, existing, e, repoName, now)
	})
}
