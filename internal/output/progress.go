package output

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Progress shows one line per processed item with a spinner while the item
// runs. Without a terminal the spinner is skipped and only result lines are
// written. A nil *Progress is valid and prints nothing.
type Progress struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
	label   string
}

// NewProgress creates a progress display writing to out.
func NewProgress(out io.Writer, caps TerminalCapabilities) *Progress {
	return &Progress{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// Start begins an item. Any running spinner is stopped first.
func (p *Progress) Start(label string) {
	if p == nil {
		return
	}
	p.Stop()
	p.label = label

	if !p.caps.IsTTY {
		return
	}
	p.spin = spinner.New(spinner.CharSets[p.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(p.out))
	p.spin.Suffix = " " + label
	p.spin.Start()
}

// Succeed ends the current item with a success line.
func (p *Progress) Succeed(detail string) {
	if p == nil {
		return
	}
	p.Stop()
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	p.line(green(p.symbols.Checkmark), detail)
}

// Skip ends the current item with a warning line.
func (p *Progress) Skip(reason string) {
	if p == nil {
		return
	}
	p.Stop()
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	p.line(yellow(p.symbols.Warning), reason)
}

// Fail ends the current item with a failure line.
func (p *Progress) Fail(err error) {
	if p == nil {
		return
	}
	p.Stop()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	p.line(red(p.symbols.Failure), err.Error())
}

// Stop halts the spinner without printing a result.
func (p *Progress) Stop() {
	if p == nil || p.spin == nil {
		return
	}
	p.spin.Stop()
	p.spin = nil
}

func (p *Progress) line(marker, detail string) {
	if detail == "" {
		fmt.Fprintf(p.out, "%s %s\n", marker, p.label)
		return
	}
	fmt.Fprintf(p.out, "%s %s: %s\n", marker, p.label, detail)
}
