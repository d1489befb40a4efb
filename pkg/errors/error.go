// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters and configuration
//   - Data/Resource errors (200-299): Market data that cannot be produced
//   - Strategy errors (400-499): Strategy configuration and runtime errors
//   - Trading errors (500-599): Broker and trade log errors
//   - Backtest errors (600-699): Execution loop and accountant errors
//   - Market data errors (700-799): Market data fetching and parsing errors
//   - Callback errors (800-899): Callback execution failures
//   - Ledger errors (900-999): Metric preconditions and ledger store IO
//   - Sweep errors (1000-1099): Sweep configuration and worker failures
//   - Notification errors (1100-1199): Operator channel and chart rendering
//   - Lifecycle errors (1200-1299): Run state machine misuse
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeDomainError, "initial money must be positive, got %f", money)
//
//	if errors.IsDomainError(err) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// HasCodeInChain reports whether any *Error in err's chain carries code.
// HasCode only inspects the outermost *Error.
func HasCodeInChain(err error, code ErrorCode) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}

		if e.Code == code {
			return true
		}

		err = e.Cause
	}

	return false
}

// IsDataUnavailable reports whether err means market data or broker state could not be produced.
func IsDataUnavailable(err error) bool {
	for _, code := range []ErrorCode{
		ErrCodeDataNotFound,
		ErrCodeDataSourceUnavailable,
		ErrCodeHistoricalDataFailed,
		ErrCodeNoDataFound,
		ErrCodeRealTimeDataFailed,
		ErrCodeBrokerUnavailable,
	} {
		if HasCodeInChain(err, code) {
			return true
		}
	}

	return false
}

// IsDomainError reports whether err is an invalid numeric precondition.
func IsDomainError(err error) bool {
	return HasCodeInChain(err, ErrCodeDomainError)
}

// IsNotificationDelivery reports whether err is a failed operator notification.
func IsNotificationDelivery(err error) bool {
	return HasCodeInChain(err, ErrCodeNotificationDelivery)
}

// EmptyStoreError is returned when a summary is requested over a ledger
// that holds no row with a usable tae value.
type EmptyStoreError struct {
	Path      string // Ledger file that was read
	TotalRows int    // Rows present, including rows with a missing tae
}

// NewEmptyStoreError creates a new EmptyStoreError.
func NewEmptyStoreError(path string, totalRows int) *EmptyStoreError {
	return &EmptyStoreError{
		Path:      path,
		TotalRows: totalRows,
	}
}

// Error implements the error interface.
func (e *EmptyStoreError) Error() string {
	return fmt.Sprintf("[%d] ledger %s has no valid rows (%d rows read)", ErrCodeEmptyStore, e.Path, e.TotalRows)
}

// IsEmptyStore checks if an error is an EmptyStoreError.
// It uses errors.As to check the error chain.
func IsEmptyStore(err error) bool {
	var emptyErr *EmptyStoreError

	return errors.As(err, &emptyErr)
}
