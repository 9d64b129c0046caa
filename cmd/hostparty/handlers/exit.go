package handlers

import (
	"errors"

	"github.com/hostparty/hostparty/internal/provisioning"
)

// Process exit codes.
const (
	ExitOK                    = 0
	ExitError                 = 1
	ExitInstanceCreationError = 2
)

// ReportedError wraps an error the handler already logged through the
// observer, so main does not print it a second time.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// IsReported reports whether err was already logged by a handler.
func IsReported(err error) bool {
	var reported *ReportedError
	return errors.As(err, &reported)
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ice *provisioning.InstanceCreationError
	if errors.As(err, &ice) {
		return ExitInstanceCreationError
	}
	return ExitError
}
