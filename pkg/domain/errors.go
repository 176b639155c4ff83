package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingContext is returned when a required context value is absent or mistyped.
var ErrMissingContext = errors.New("missing required context value")

// ErrUnknownStep is returned when a step id has no registered factory.
var ErrUnknownStep = errors.New("unknown step")

// ErrDanglingTransition is returned when a transition references an unregistered step.
var ErrDanglingTransition = errors.New("transition references unknown step")

// ErrDuplicateStep is returned when the same step id is registered twice.
var ErrDuplicateStep = errors.New("duplicate step id")

// ErrDuplicateAction is returned when a pipeline contains the same action id twice.
var ErrDuplicateAction = errors.New("duplicate action id")

// ErrChecksumMismatch is returned when a downloaded file does not match its digest.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ErrArchiveNotFound is returned when an archive expected on disk is missing.
var ErrArchiveNotFound = errors.New("archive not found")

// ErrUnsupportedVersion is returned when no compatible upstream version exists.
var ErrUnsupportedVersion = errors.New("unsupported version")

// ErrCatalogUnavailable is returned when the version catalog cannot be queried.
var ErrCatalogUnavailable = errors.New("version catalog unavailable")

// ErrProjectNotFound is returned when a project record cannot be found in the store.
var ErrProjectNotFound = errors.New("project not found")

// ErrWizardCancelled is returned when the user leaves the wizard before completion.
var ErrWizardCancelled = errors.New("wizard cancelled")

// ActionError reports the pipeline action that failed. Err is the action's own error.
type ActionError struct {
	ActionID string
	Err      error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s failed: %v", e.ActionID, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// ValidationError collects every problem found while building a flow graph.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}
	return "invalid flow graph: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}
