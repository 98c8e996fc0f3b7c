package core

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks across package boundaries.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPrecondition      = errors.New("precondition failed")
	ErrNotFound          = errors.New("not found")
)

// ValidationError reports malformed input such as negative quantities or
// non-positive payment amounts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InvalidTransitionError reports a target status that is not reachable from
// the document's current status.
type InvalidTransitionError struct {
	Document DocumentKind
	ID       string
	From     string
	To       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %s cannot move from %s to %s", e.Document, e.ID, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// PreconditionError reports an operation attempted on a document that is not
// in the required source state, e.g. deriving a job from a quote that was
// never accepted.
type PreconditionError struct {
	Document DocumentKind
	ID       string
	Reason   string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Document, e.ID, e.Reason)
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// NotFoundError reports a referenced id that is absent from the store.
type NotFoundError struct {
	Document DocumentKind
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Document, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
