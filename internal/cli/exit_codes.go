package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the gitjournal CLI
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a general failure, including unwritable output
	ExitFailure = 1

	// ExitPartialFailure indicates a batch run where some repositories failed
	ExitPartialFailure = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitNotARepository indicates the target path is not a git repository
	ExitNotARepository = 4
)

// ExitError carries an exit code for errors that were already reported
// to the user.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
