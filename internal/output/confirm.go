package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm writes prompt followed by " [y/N]: " and reads one answer line.
// Only "y" and "yes" (any case) confirm; EOF counts as no.
func Confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
