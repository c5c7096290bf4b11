// Package errors provides user-facing errors for the gitjournal CLI.
// A CLIError pairs a message with a category and remediation steps; the
// underlying cause stays reachable through errors.Is and errors.As.
package errors

import stderrors "errors"

// ErrorCategory groups errors for display and for the process exit code.
type ErrorCategory int

const (
	// Argument covers bad flags, arguments and flag values.
	Argument ErrorCategory = iota
	// Configuration covers config files and the repository registry.
	Configuration
	// Repository covers paths that are not usable git repositories.
	Repository
	// Filesystem covers documents that cannot be read or written.
	Filesystem
	// Runtime is everything else.
	Runtime
)

var categoryLabels = [...]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Repository:    "Repository Error",
	Filesystem:    "Filesystem Error",
	Runtime:       "Runtime Error",
}

func (c ErrorCategory) String() string {
	if c < 0 || int(c) >= len(categoryLabels) {
		return "Error"
	}
	return categoryLabels[c]
}

// CLIError is what a command returns when it can tell the user how to
// recover. Fprint renders it.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Remediation lists steps shown under "To fix this:".
	Remediation []string
	// Usage is the expected command line, shown for argument errors.
	Usage string
	Cause error
}

func (e *CLIError) Error() string { return e.Message }

func (e *CLIError) Unwrap() error { return e.Cause }

// New returns a CLIError without a cause.
func New(category ErrorCategory, message string, remediation ...string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentErrorWithUsage returns an Argument error that prints usage.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	e := New(Argument, message, remediation...)
	e.Usage = usage
	return e
}

// Wrap wraps err in a CLIError whose message is "message: err".
// A nil err returns nil.
func Wrap(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	if message != "" {
		message += ": "
	}
	e := New(category, message+err.Error(), remediation...)
	e.Cause = err
	return e
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var target *CLIError
	if !stderrors.As(err, &target) {
		return nil
	}
	return target
}
