// Package apperr defines the error kinds the services raise. The HTTP
// layer maps them to status codes; anything outside this taxonomy is
// surfaced as an internal error.
package apperr

import "errors"

// ValidationError reports a malformed, missing, or out-of-range input
// field. It is raised before any database access and carries a
// user-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation returns a new ValidationError.
func Validation(message string) error {
	return &ValidationError{Message: message}
}

// NotFoundError reports a missing entity. Cross-household references
// fail with this same kind so that the existence of other households'
// data is never confirmed.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NotFound returns a new NotFoundError.
func NotFound(message string) error {
	return &NotFoundError{Message: message}
}

// ConflictError reports a domain-specific uniqueness or dependency
// violation detected by query before mutating.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// Conflict returns a new ConflictError.
func Conflict(message string) error {
	return &ConflictError{Message: message}
}

// AuditError reports a broken audit context: a missing API call or
// acting user, or malformed arguments to the change tracker.
type AuditError struct {
	Message string
}

func (e *AuditError) Error() string { return e.Message }

// Audit returns a new AuditError.
func Audit(message string) error {
	return &AuditError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsAudit reports whether err is an AuditError.
func IsAudit(err error) bool {
	var target *AuditError
	return errors.As(err, &target)
}
