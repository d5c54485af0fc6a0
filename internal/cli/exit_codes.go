package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the opencode-notify CLI
const (
	ExitSuccess           = 0
	ExitFailure           = 1
	ExitInvalidArguments  = 3
	ExitMissingDependency = 4
)

// exitError is an error that carries an exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitFailure
}
