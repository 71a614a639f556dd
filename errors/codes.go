package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Argument errors, raised at call time.
const (
	// ErrCodeInvalidArgument indicates a required argument was nil.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidConfig indicates a configuration value failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInvalidInput indicates a malformed input record.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Sequence errors, raised while enumerating.
const (
	// ErrCodeNoElements indicates an operation needed at least one element.
	ErrCodeNoElements ErrorCode = "NO_ELEMENTS"
	// ErrCodeDuplicateKey indicates two elements produced the same unique key.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
	// ErrCodeOverflow indicates an element index exceeded the int range.
	ErrCodeOverflow ErrorCode = "OVERFLOW"
	// ErrCodeCanceled indicates enumeration observed a cancelled context.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. AppError compares by code, so any error with the
// same code matches regardless of message or details.
var (
	ErrInvalidArgument = &AppError{Code: ErrCodeInvalidArgument, Message: "invalid argument"}
	ErrInvalidConfig   = &AppError{Code: ErrCodeInvalidConfig, Message: "invalid configuration"}
	ErrInvalidInput    = &AppError{Code: ErrCodeInvalidInput, Message: "invalid input"}
	ErrNoElements      = &AppError{Code: ErrCodeNoElements, Message: "sequence contains no elements"}
	ErrDuplicateKey    = &AppError{Code: ErrCodeDuplicateKey, Message: "duplicate key"}
	ErrOverflow        = &AppError{Code: ErrCodeOverflow, Message: "arithmetic overflow"}
	ErrCanceled        = &AppError{Code: ErrCodeCanceled, Message: "enumeration canceled"}
)
