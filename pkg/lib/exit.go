package lib

import (
	"errors"
	"fmt"
	"os"
)

// Exit prints the error and exits the program with ExitCode(err)
func Exit(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(ExitCode(err))
}

// ExitCode maps a command error to a process exit code: 0 for nil, 2 for a
// usage error, 1 for anything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsUsageError(err):
		return 2
	default:
		return 1
	}
}

// UsageError marks an error caused by how the command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
