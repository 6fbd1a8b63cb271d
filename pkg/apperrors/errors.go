package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors for auth and context plumbing. Everything the business
// layer produces goes through the typed constructors below instead.
var (
	ErrInvalidSigningMethod = errors.New("unexpected token signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrTokenIsNotRefresh    = errors.New("token is not a refresh token")
	ErrTokenIsNotAccess     = errors.New("token is not an access token")

	ErrEmptyAuthHeader    = errors.New("authorization header is missing")
	ErrInvalidAuthHeader  = errors.New("malformed authorization header")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	ErrUserIDNotFoundInContext = errors.New("user id not found in request context")
)

// AppError is the error kind the service layer returns. Code carries the
// HTTP status the single translation point in utils.ErrorResponse maps the
// error to.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NewNotFoundError(what string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: what + " not found"}
}

func NewForbiddenError(requiredRole string) *AppError {
	// No detail leak beyond what role would have been required.
	return &AppError{Code: http.StatusForbidden, Message: "forbidden: requires " + requiredRole}
}

func NewInactiveEquipmentError(equipmentID uint64) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("equipment %d is scrapped/inactive; new requests cannot be attached to it", equipmentID),
	}
}

func NewInvalidTransitionError(from, to string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("invalid stage transition from %q to %q", from, to),
	}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: err}
}

// ValidationError collects every violated field, not just the first one.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// CascadeError marks the case where the equipment-deactivation write and the
// request-stage write diverged. Callers must be able to tell this apart from
// an ordinary internal error so they can reconcile the two records.
type CascadeError struct {
	RequestID   uint64
	EquipmentID uint64
	Err         error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("scrap cascade failed for request %d (equipment %d): %v", e.RequestID, e.EquipmentID, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

func NewCascadeError(requestID, equipmentID uint64, err error) *CascadeError {
	return &CascadeError{RequestID: requestID, EquipmentID: equipmentID, Err: err}
}
