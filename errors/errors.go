package errors

import (
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// InvalidArgument creates an AppError for a missing required argument.
func InvalidArgument(name string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("argument %q must not be nil", name),
		Details: map[string]any{"argument": name},
	}
}

// InvalidConfig creates an AppError for a configuration value that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message}
}

// NoElements creates an AppError for an operation over an empty sequence.
func NoElements(operation string) *AppError {
	return &AppError{
		Code: ErrCodeNoElements, Message: "sequence contains no elements",
		Details: map[string]any{"operation": operation},
	}
}

// DuplicateKey creates an AppError for a key that was already present.
func DuplicateKey(key any) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateKey, Message: fmt.Sprintf("an element with key %v has already been added", key),
		Details: map[string]any{"key": key},
	}
}

// Overflow creates an AppError for an index counter that ran past the int range.
func Overflow(operation string) *AppError {
	return &AppError{
		Code: ErrCodeOverflow, Message: "arithmetic operation resulted in an overflow",
		Details: map[string]any{"operation": operation},
	}
}

// Canceled wraps a context error observed at the start of an advance.
func Canceled(cause error) *AppError {
	return &AppError{Code: ErrCodeCanceled, Message: "enumeration canceled", Cause: cause}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: "an unexpected error occurred", Cause: cause}
}
