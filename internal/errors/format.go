package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// painter applies a color function, or nothing in plain mode.
type painter func(fn func(a ...interface{}) string, s string) string

func colored(fn func(a ...interface{}) string, s string) string { return fn(s) }

func plain(_ func(a ...interface{}) string, s string) string { return s }

// FormatError formats a CLIError for the terminal. fatih/color disables
// itself when stdout is not a terminal or NO_COLOR is set.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plain)
}

func formatError(err *CLIError, paint painter) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n",
		paint(errorLabel, "Error"),
		paint(categoryFmt, err.Category.String()),
		paint(errorMsg, err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", paint(usageLabel, "Usage: "), paint(usageText, err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", paint(fixLabel, "To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", paint(bullet, "•"), step)
		}
	}

	return sb.String()
}

// Fprint writes err to w. CLIErrors anywhere in the chain get the
// structured format; other errors are shown as runtime errors.
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = &CLIError{Category: Runtime, Message: err.Error()}
	}
	fmt.Fprint(w, FormatError(cliErr))
}
