// Package apierror provides the error taxonomy and the standardized response
// envelopes for the API. All errors returned to clients go through this package
// to ensure consistency and to prevent leaking internal details (stack traces,
// DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable machine-readable classification of an error.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindInvalidState      Kind = "invalid_state"
	KindInsufficientStock Kind = "insufficient_stock"
	KindPaymentIncomplete Kind = "payment_incomplete"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindInternal          Kind = "internal"
)

// Error is the domain error type carried from services up to handlers.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return newf(KindInvalidState, format, args...)
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return newf(KindInsufficientStock, format, args...)
}

func PaymentIncomplete(format string, args ...interface{}) *Error {
	return newf(KindPaymentIncomplete, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newf(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newf(KindForbidden, format, args...)
}

func Internal(format string, args ...interface{}) *Error {
	return newf(KindInternal, format, args...)
}

// KindOf extracts the Kind from any error; unwrapped or unknown errors are
// classified as internal so they are never surfaced verbatim to clients.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

// StatusOf maps an error kind to its HTTP status code.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindInsufficientStock:
		return http.StatusConflict
	case KindPaymentIncomplete:
		return http.StatusPaymentRequired
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Kind   string `json:"kind,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// FromError builds the response envelope for a classified error.
func FromError(err error) *APIError {
	return &APIError{Detail: err.Error(), Kind: string(KindOf(err))}
}

// FieldErrors wraps multiple field-level validation errors.
type FieldErrors struct {
	Detail string            `json:"detail"`
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields"`
}

func NewFieldErrors(fields map[string]string) *FieldErrors {
	return &FieldErrors{Detail: "validation failed", Kind: string(KindValidation), Fields: fields}
}
