package cmd

import (
	"errors"

	"autotube/internal/app"
)

const (
	ExitOK           = 0
	ExitUsage        = 1
	ExitNoCredential = 2
	ExitNoMetadata   = 3
	ExitUploadFailed = 4
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps a command error to a process exit code. Errors without an
// explicit code are usage or configuration errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

func outcomeExitCode(o app.Outcome) int {
	switch o {
	case app.OutcomeUploaded:
		return ExitOK
	case app.OutcomeNoCredential:
		return ExitNoCredential
	case app.OutcomeNoMetadata:
		return ExitNoMetadata
	default:
		return ExitUploadFailed
	}
}
