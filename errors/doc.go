// Package errors provides the structured error type used across asyncq.
//
// Every fault the library raises itself is an *AppError carrying a
// machine-readable ErrorCode: invalid arguments, empty sequences, duplicate
// keys, cancellation and index overflow. Errors from user selectors and
// upstream sources are passed through untouched.
//
// AppError matches by code, so callers test with the standard library:
//
//	if errors.Is(err, apperrors.ErrNoElements) { ... }
package errors
