package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// sectionStyle is the color and marker a category gets in the preview.
type sectionStyle struct {
	color  *color.Color
	marker string
}

var sectionStyles = map[Category]sectionStyle{
	BreakingChanges: {color.New(color.FgRed, color.Bold), "!"},
	Added:           {color.New(color.FgGreen), "✓"},
	Changed:         {color.New(color.FgBlue), "~"},
	Fixed:           {color.New(color.FgYellow), "⚡"},
	Security:        {color.New(color.FgMagenta), "🔒"},
	Deprecated:      {color.New(color.FgRed), "⚠"},
	Removed:         {color.New(color.FgRed), "✗"},
	Documentation:   {color.New(color.FgCyan), "✎"},
	Performance:     {color.New(color.FgGreen, color.Bold), "»"},
	Testing:         {color.New(color.FgWhite), "?"},
	Maintenance:     {color.New(color.Faint), "·"},
}

// FormatOptions controls FormatTerminal.
type FormatOptions struct {
	// Plain drops colors and markers and never wraps.
	Plain bool
	// MaxWidth is the line width to wrap at. Zero means 80.
	MaxWidth int
}

// FormatTerminal writes sections as a colored preview for the terminal.
func FormatTerminal(sections []Section, w io.Writer, opts FormatOptions) error {
	width := opts.MaxWidth
	if width <= 0 {
		width = defaultWidth
	}
	for _, s := range sections {
		if err := previewSection(w, s, opts.Plain, width); err != nil {
			return fmt.Errorf("formatting %s: %w", s.Category, err)
		}
	}
	return nil
}

const (
	defaultWidth = 80
	entryPrefix  = "  - "
	entryIndent  = "    "
)

var faint = color.New(color.Faint).SprintFunc()

func previewSection(w io.Writer, s Section, plain bool, width int) error {
	if plain {
		if _, err := fmt.Fprintf(w, "\n### %s (%d)\n", s.Category, len(s.Items)); err != nil {
			return err
		}
		for _, item := range s.Items {
			if _, err := fmt.Fprintf(w, "%s%s (%s)\n", entryPrefix, item.Description, item.Hash); err != nil {
				return err
			}
		}
		return nil
	}

	style := sectionStyles[s.Category]
	paint := style.color.SprintFunc()
	if _, err := fmt.Fprintf(w, "\n%s %s (%d)\n", paint(style.marker), paint(s.Category.String()), len(s.Items)); err != nil {
		return err
	}
	for _, item := range s.Items {
		suffix := " (" + item.Hash + ")"
		text := wrapText(item.Description, width-len(entryPrefix)-len(suffix), entryIndent)
		if _, err := fmt.Fprintf(w, "%s%s%s\n", entryPrefix, paint(text), faint(suffix)); err != nil {
			return err
		}
	}
	return nil
}

// wrapText fills words greedily into lines of at most width bytes and joins
// them with a newline plus indent. Words longer than width are split.
func wrapText(text string, width int, indent string) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var lines []string
	var line strings.Builder
	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()
		}
	}

	for _, word := range strings.Fields(text) {
		for len(word) > width {
			flush()
			lines = append(lines, word[:width])
			word = word[width:]
		}
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			flush()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	flush()

	return strings.Join(lines, "\n"+indent)
}
