package root

import (
	"errors"

	"github.com/flarebyte/manna/internal/display"
)

const (
	exitCodeNoVerse = 1
	exitCodeSetup   = 2
	exitCodeOutput  = 3
)

type runExitError struct {
	code int
	err  error
}

func (e runExitError) Error() string { return e.err.Error() }
func (e runExitError) ExitCode() int { return e.code }
func (e runExitError) Unwrap() error { return e.err }

// setupError marks failures before the pipeline starts: config, logger,
// data tables, renderer.
func setupError(err error) error {
	if err == nil {
		return nil
	}
	return runExitError{code: exitCodeSetup, err: err}
}

// evaluateRunExit maps a pipeline result to the process exit code.
func evaluateRunExit(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, display.ErrNoVerse) {
		return runExitError{code: exitCodeNoVerse, err: err}
	}
	return runExitError{code: exitCodeOutput, err: err}
}
