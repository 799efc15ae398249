package cli

import (
	"errors"
	"fmt"
)

// Exit codes of the gokoans command
const (
	ExitEnlightened  = 0
	ExitKoansRemain  = 1
	ExitCompileError = 2
	ExitConfigError  = 3
)

// ExitError carries the exit code a command finished with
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exit returns an ExitError with code. A nil err makes a silent exit.
func Exit(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode returns the exit code for an error returned by a command.
// Errors without an explicit code exit with 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitEnlightened
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Silent reports whether err only carries an exit code and has nothing to print
func Silent(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Err == nil
}
