// Package apperrors defines the error taxonomy shared by the registry, the
// order field store and the REST gateway. Handlers translate these into HTTP
// statuses; everything else wraps and propagates them unchanged.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidationError reports every violated rule from a schema or submission
// check at once, never just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, ", ")
}

// NewValidation builds a ValidationError from the collected violations.
// Callers must pass at least one.
func NewValidation(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// NotFoundError identifies a missing field definition, order or value record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError for the named resource.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// PersistenceError wraps a failed write or read against the underlying store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistence wraps err with the failing operation name.
func NewPersistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError and, when
// it is, exposes it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// HTTPStatus maps the taxonomy onto response codes. Unknown errors are
// treated as internal failures.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case isValidationErr(err):
		return http.StatusUnprocessableEntity
	case IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func isValidationErr(err error) bool {
	_, ok := IsValidation(err)
	return ok
}
