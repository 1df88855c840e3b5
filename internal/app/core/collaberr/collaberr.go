// internal/app/core/collaberr/collaberr.go

// Package collaberr defines the error taxonomy shared by the collaboration
// engine. Controllers map these categories onto HTTP statuses (400, 403, 404,
// 409, 502); the engine itself never retries.
package collaberr

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed input: missing objectType/id, empty domain
// list, invalid tuple. Surfaced immediately, no retry.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidation builds a ValidationError with a formatted message.
func NewValidation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// NotFoundError marks a referenced collaboration or user that does not exist.
// No partial mutation has occurred when it is returned.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// NewNotFound builds a NotFoundError with a formatted message.
func NewNotFound(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// AuthorizationError marks an actor lacking the required relationship
// (not a manager, not the target) for a transition. Distinct from validation
// so callers can render 403 vs 400.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// NewAuthorization builds an AuthorizationError with a formatted message.
func NewAuthorization(format string, args ...any) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

// IsAuthorization reports whether err is (or wraps) an AuthorizationError.
func IsAuthorization(err error) bool {
	var e *AuthorizationError
	return errors.As(err, &e)
}

// ConflictError marks a transition that violates a state invariant: adding a
// member who is already present, approving an absent request, a sole creator
// leaving. Declining or cancelling an absent request is NOT a conflict; that
// path is an idempotent no-op success.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// NewConflict builds a ConflictError with a formatted message.
func NewConflict(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// StorageError wraps a storage-provider failure. Never swallowed, always
// propagated to the caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// WrapStorage wraps err as a StorageError for the named operation.
// Returns nil when err is nil.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var e *StorageError
	return errors.As(err, &e)
}

// SearchError wraps a search-provider failure.
type SearchError struct {
	Op  string
	Err error
}

func (e *SearchError) Error() string { return fmt.Sprintf("search: %s: %v", e.Op, e.Err) }

func (e *SearchError) Unwrap() error { return e.Err }

// WrapSearch wraps err as a SearchError for the named operation.
// Returns nil when err is nil.
func WrapSearch(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SearchError{Op: op, Err: err}
}

// IsSearch reports whether err is (or wraps) a SearchError.
func IsSearch(err error) bool {
	var e *SearchError
	return errors.As(err, &e)
}
