package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. The set is closed: every failure the service reports is one
// of these, and each maps to exactly one HTTP status.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeTokenMalformed        = "TOKEN_MALFORMED"
	CodeTokenExpired          = "TOKEN_EXPIRED"
	CodeTokenInvalid          = "TOKEN_INVALID"
	CodeForbidden             = "FORBIDDEN"
	CodeMarketplaceUnresolved = "MARKETPLACE_UNRESOLVED"
	CodeNotFound              = "NOT_FOUND"
	CodeAccountMissing        = "ACCOUNT_MISSING"
	CodeConflict              = "CONFLICT"
	CodeTooManyRequests       = "TOO_MANY_REQUESTS"
	CodeUpstreamFailure       = "UPSTREAM_FAILURE"
)

var statusByCode = map[string]int{
	CodeValidation:            http.StatusBadRequest,
	CodeUnauthenticated:       http.StatusUnauthorized,
	CodeTokenMalformed:        http.StatusUnauthorized,
	CodeTokenExpired:          http.StatusUnauthorized,
	CodeTokenInvalid:          http.StatusUnauthorized,
	CodeForbidden:             http.StatusForbidden,
	CodeMarketplaceUnresolved: http.StatusForbidden,
	CodeNotFound:              http.StatusNotFound,
	CodeAccountMissing:        http.StatusNotFound,
	CodeConflict:              http.StatusConflict,
	CodeTooManyRequests:       http.StatusTooManyRequests,
	CodeUpstreamFailure:       http.StatusInternalServerError,
}

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError for one of the known codes. Unknown codes are
// reported as upstream failures.
func New(code string, message string, err error) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		code = CodeUpstreamFailure
		status = http.StatusInternalServerError
	}
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func Validation(message string) *AppError {
	return New(CodeValidation, message, nil)
}

func BadRequest(message string, err error) *AppError {
	return New(CodeValidation, message, err)
}

func Unauthenticated(message string, err error) *AppError {
	return New(CodeUnauthenticated, message, err)
}

func TokenMalformed(message string) *AppError {
	return New(CodeTokenMalformed, message, nil)
}

func TokenExpired(err error) *AppError {
	return New(CodeTokenExpired, "Token has expired", err)
}

func TokenInvalid(err error) *AppError {
	return New(CodeTokenInvalid, "Token is invalid", err)
}

func Forbidden(message string, err error) *AppError {
	return New(CodeForbidden, message, err)
}

func MarketplaceUnresolved(err error) *AppError {
	return New(CodeMarketplaceUnresolved,
		"User marketplace information is missing. Please contact support or try re-logging.", err)
}

func NotFound(resource string, err error) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), err)
}

func AccountMissing(err error) *AppError {
	return New(CodeAccountMissing, "User account record not found", err)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequests, message, nil)
}

func Upstream(message string, err error) *AppError {
	return New(CodeUpstreamFailure, message, err)
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code string) bool {
	return KindOf(err) == code
}

// KindOf returns the code of the first AppError in err's chain, or
// CodeUpstreamFailure for errors that were never classified. A nil error
// has no kind.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUpstreamFailure
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
