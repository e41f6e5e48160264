// Package apperrors defines the closed error taxonomy shared by the core
// services. Every operation failure falls into one of three classes:
//
//   - ValidationError: malformed or out-of-range input, rejected before any
//     mutation. The caller can fix the input and retry.
//   - ConflictError: a state invariant would be violated (stale read, terminal
//     status, outstanding pending work). The caller must refresh and retry.
//   - DependencyError: a collaborator (store, identity, index) failed. The
//     call is retryable as-is.
package apperrors

import "errors"

// ValidationError reports input rejected before any mutation took place.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports an operation that would violate a state invariant.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// DependencyError reports a failed collaborator call. Cause is preserved for
// logging; the message alone crosses the API boundary.
type DependencyError struct {
	Msg   string
	Cause error
}

func (e *DependencyError) Error() string { return e.Msg }

func (e *DependencyError) Unwrap() error { return e.Cause }

// NotFoundError reports a missing entity addressed by id.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NewValidation(msg string) error { return &ValidationError{Msg: msg} }

func NewConflict(msg string) error { return &ConflictError{Msg: msg} }

func NewDependency(msg string, cause error) error {
	return &DependencyError{Msg: msg, Cause: cause}
}

func NewNotFound(msg string) error { return &NotFoundError{Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsDependency(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
