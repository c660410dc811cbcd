package annotate

import (
	"fmt"
	"time"
)

// The failure kinds below form a closed set so callers can branch with
// errors.As instead of string matching.

// ValidationError reports a bad or missing argument. No process is launched
// once one is raised.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// EnvironmentError reports that the external R environment is unavailable or
// misconfigured. It is fatal at startup.
type EnvironmentError struct {
	Msg string
	Err error
}

func (e *EnvironmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// ProcessError reports a job that ran to completion with a non-zero exit.
// Stderr carries the pipeline's diagnostic text verbatim.
type ProcessError struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("annotation pipeline failed with exit code %d:\n%s", e.ExitCode, e.Stderr)
}

// TimeoutError reports a job that was killed at its wall-clock deadline.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("annotation pipeline timed out after %s", e.Timeout)
}

// LaunchError reports a job whose process never started.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string { return fmt.Sprintf("launch annotation pipeline: %v", e.Err) }

func (e *LaunchError) Unwrap() error { return e.Err }
