// Package apperr defines the error taxonomy shared by every service.
//
// Services return these types (possibly wrapped); the HTTP layer maps them to
// status codes with StatusCode.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports bad caller input. It is raised before any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NotFoundError reports a referenced id that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Kind + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// AlreadyMemberError is returned by group joins for an existing member.
type AlreadyMemberError struct {
	GroupID string
	UserID  string
}

func (e *AlreadyMemberError) Error() string {
	return "user is already a member of this group"
}

// AuthError carries a translated identity-provider failure.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// ForbiddenError reports an authenticated caller acting outside their rights.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return "not allowed to " + e.Action
}

// TransientStoreError wraps a network or store failure. Callers may retry.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error { return e.Err }

func Validation(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func Forbidden(action string) error {
	return &ForbiddenError{Action: action}
}

// Store wraps err as a TransientStoreError unless it already belongs to the
// taxonomy. A nil err stays nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if Classified(err) {
		return err
	}
	return &TransientStoreError{Op: op, Err: err}
}

// Classified reports whether err already carries one of the taxonomy types.
func Classified(err error) bool {
	return IsValidation(err) || IsNotFound(err) || IsAlreadyMember(err) ||
		IsAuth(err) || IsForbidden(err) || IsTransient(err)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsAlreadyMember(err error) bool {
	var e *AlreadyMemberError
	return errors.As(err, &e)
}

func IsAuth(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

func IsForbidden(err error) bool {
	var e *ForbiddenError
	return errors.As(err, &e)
}

func IsTransient(err error) bool {
	var e *TransientStoreError
	if errors.As(err, &e) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// StatusCode maps err onto an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case IsAuth(err):
		return http.StatusUnauthorized
	case IsForbidden(err):
		return http.StatusForbidden
	case IsNotFound(err):
		return http.StatusNotFound
	case IsAlreadyMember(err):
		return http.StatusConflict
	case IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
