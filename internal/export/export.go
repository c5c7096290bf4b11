// Package export renders gitjournal markdown documents as standalone HTML
// pages that paste cleanly into note-taking apps.
package export

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"

	"github.com/jmragsdale/git-journal/internal/fsutil"
)

// Suffix replaces the source extension in the exported file name.
const Suffix = "_onenote.html"

// GitignorePattern matches exported files.
const GitignorePattern = "*" + Suffix

// ErrMissingDocument is returned when the markdown source does not exist.
var ErrMissingDocument = errors.New("document not found")

//go:embed page.html.tmpl
var pageFS embed.FS

var pageTemplate = template.Must(template.ParseFS(pageFS, "page.html.tmpl"))

type pageData struct {
	Title string
	Body  template.HTML
}

// Options controls an export.
type Options struct {
	// Title names the page, usually the repository display name.
	Title string
	// Output overrides the destination (default: OutputPath(source)).
	Output string
	// Open shows the result in the default browser.
	Open bool
	// Opener replaces the browser launcher. Defaults to browser.OpenFile.
	Opener func(path string) error
}

// OutputPath returns the default export destination for source:
// DEVLOG.md becomes DEVLOG_onenote.html in the same directory.
func OutputPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + Suffix
}

// Render writes the full HTML page for markdown.
func Render(title, markdown string) ([]byte, error) {
	body, err := MarkdownToHTML(markdown)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	data := pageData{
		Title: title,
		Body:  template.HTML(body), // raw HTML in the source is dropped by the converter
	}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return buf.Bytes(), nil
}

// Export converts the markdown file at source to HTML and returns the
// written path. A missing source yields ErrMissingDocument. When
// opts.Open is set, a failure to launch the browser is returned after the
// file has been written.
func Export(source string, opts Options) (string, error) {
	content, err := os.ReadFile(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", source, ErrMissingDocument)
		}
		return "", fmt.Errorf("reading %s: %w", source, err)
	}

	page, err := Render(opts.Title, string(content))
	if err != nil {
		return "", err
	}

	dest := opts.Output
	if dest == "" {
		dest = OutputPath(source)
	}
	if err := fsutil.WriteFileAtomic(dest, page); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}

	if opts.Open {
		open := opts.Opener
		if open == nil {
			open = browser.OpenFile
		}
		if err := open(dest); err != nil {
			return dest, fmt.Errorf("opening %s: %w", dest, err)
		}
	}
	return dest, nil
}
