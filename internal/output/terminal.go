package output

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes what the attached terminal can render.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols holds the status markers and spinner style for a terminal.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	Warning    string
	SpinnerSet int
}

// DetectTerminalCapabilities inspects stdout and the environment.
// Checks: stdout isatty, NO_COLOR env, GITJOURNAL_ASCII env, terminal width.
func DetectTerminalCapabilities() TerminalCapabilities {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("GITJOURNAL_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// SelectSymbols returns the symbol set for caps.
// Unicode: ✓/✗/! with braille spinner (set 14). ASCII: [OK]/[FAIL]/[WARN] with |/-\ spinner (set 9).
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{
			Checkmark:  "✓",
			Failure:    "✗",
			Warning:    "!",
			SpinnerSet: 14,
		}
	}

	return ProgressSymbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		Warning:    "[WARN]",
		SpinnerSet: 9,
	}
}

// IsInteractive reports whether stdin is a terminal, so prompts can be shown.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
