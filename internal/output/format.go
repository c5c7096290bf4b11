// Package output provides terminal output helpers for the gitjournal CLI:
// colored status lines, a per-repository progress display and prompts.
// It has no dependencies on other gitjournal packages.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintRule prints a horizontal separator, capped at 60 columns.
func PrintRule(out io.Writer) {
	width := GetTerminalWidth()
	if width > 60 {
		width = 60
	}
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintln(out, dim(strings.Repeat("=", width)))
}

// PrintHeading prints a bold heading line.
func PrintHeading(out io.Writer, format string, args ...interface{}) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(out, "\n%s\n\n", bold(fmt.Sprintf(format, args...)))
}

// PrintSuccess prints a green checkmark followed by the message.
func PrintSuccess(out io.Writer, format string, args ...interface{}) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green(symbols().Checkmark), fmt.Sprintf(format, args...))
}

// PrintWarning prints a yellow warning marker followed by the message.
func PrintWarning(out io.Writer, format string, args ...interface{}) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow(symbols().Warning), fmt.Sprintf(format, args...))
}

// PrintFailure prints a red failure marker followed by the message.
func PrintFailure(out io.Writer, format string, args ...interface{}) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", red(symbols().Failure), fmt.Sprintf(format, args...))
}

// PrintPath prints an indented, cyan path line.
func PrintPath(out io.Writer, path string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "     %s\n", cyan(path))
}

func symbols() ProgressSymbols {
	return SelectSymbols(DetectTerminalCapabilities())
}
