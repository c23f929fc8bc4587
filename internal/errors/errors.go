package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeSessionInvalid indicates a missing, expired, or unparseable
	// credential. Always resolved as "no session", never surfaced to users.
	ErrCodeSessionInvalid ErrorCode = "session_invalid"
	// ErrCodeExchangeFailed indicates a one-time code exchange was rejected.
	ErrCodeExchangeFailed ErrorCode = "exchange_failed"
	// ErrCodeSubscriptionDropped indicates a notification stream was
	// interrupted. Resolved by resync; the cache is never cleared.
	ErrCodeSubscriptionDropped ErrorCode = "subscription_dropped"
	// ErrCodeBackendUnavailable indicates the data/identity backend is
	// unreachable. Protected routes fail closed on this code.
	ErrCodeBackendUnavailable ErrorCode = "backend_unavailable"
)

// AppError represents a structured application error with a code, message,
// and optional cause. It supports error wrapping and unwrapping for use
// with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// SessionInvalid creates a new SessionInvalid error.
func SessionInvalid(message string) *AppError {
	return &AppError{Code: ErrCodeSessionInvalid, Message: message}
}

// ExchangeFailed wraps a failed one-time code exchange.
func ExchangeFailed(cause error) *AppError {
	return &AppError{Code: ErrCodeExchangeFailed, Message: "code exchange failed", Cause: cause}
}

// SubscriptionDropped wraps a notification stream interruption.
func SubscriptionDropped(cause error) *AppError {
	return &AppError{Code: ErrCodeSubscriptionDropped, Message: "notification stream dropped", Cause: cause}
}

// BackendUnavailable wraps an unreachable-backend failure.
func BackendUnavailable(cause error) *AppError {
	return &AppError{Code: ErrCodeBackendUnavailable, Message: "backend unavailable", Cause: cause}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsSessionInvalid checks if an error is a SessionInvalid error.
func IsSessionInvalid(err error) bool {
	return isCode(err, ErrCodeSessionInvalid)
}

// IsExchangeFailed checks if an error is an ExchangeFailed error.
func IsExchangeFailed(err error) bool {
	return isCode(err, ErrCodeExchangeFailed)
}

// IsSubscriptionDropped checks if an error is a SubscriptionDropped error.
func IsSubscriptionDropped(err error) bool {
	return isCode(err, ErrCodeSubscriptionDropped)
}

// IsBackendUnavailable checks if an error is a BackendUnavailable error.
func IsBackendUnavailable(err error) bool {
	return isCode(err, ErrCodeBackendUnavailable)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
