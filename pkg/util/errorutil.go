package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes exposed to API callers.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeDuplicateReview    = "DUPLICATE_REVIEW"
	CodeDuplicate          = "DUPLICATE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewDuplicateEmail() error {
	return NewDomainError(CodeDuplicateEmail, "email already in use", http.StatusConflict, nil)
}

func NewDuplicateReview() error {
	return NewDomainError(CodeDuplicateReview, "you have already reviewed this garage", http.StatusConflict, nil)
}

func NewDuplicate(message string, details map[string]any) error {
	return NewDomainError(CodeDuplicate, message, http.StatusConflict, details)
}

// NewInvalidCredentials is deliberately detail-free: unknown email and wrong
// password must render identically.
func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid credentials", http.StatusUnauthorized, nil)
}

func NewUnauthenticated(message string) error {
	return NewDomainError(CodeUnauthenticated, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewStorageUnavailable(err error) error {
	return &DomainError{
		Code:       CodeStorageUnavailable,
		Message:    "storage unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewRateLimited() error {
	return NewDomainError(CodeRateLimited, "too many requests", http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// IsKind reports whether err carries the given error code.
func IsKind(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}

// FromStatus builds a DomainError for a bare HTTP status raised by the transport.
func FromStatus(status int, message string) *DomainError {
	code := CodeInternal
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = CodeValidation
	case http.StatusUnauthorized:
		code = CodeUnauthenticated
	case http.StatusForbidden:
		code = CodeForbidden
	case http.StatusNotFound:
		code = CodeNotFound
	case http.StatusConflict:
		code = CodeDuplicate
	case http.StatusTooManyRequests:
		code = CodeRateLimited
	case http.StatusServiceUnavailable:
		code = CodeStorageUnavailable
	}
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}
