// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99)
//   - Validation errors (100-199): bad periods, prices, bars, date ranges, configs
//   - Data errors (200-299): insufficient history, missing dates, unavailable data
//   - Strategy errors (400-499): strategy registry lookups
//   - Backtest errors (600-699)
//   - Market data errors (700-799): provider fetch, parse and write failures
//   - Scan errors (800-899)
//
// Two data conditions have dedicated types because callers branch on them:
// InsufficientDataError (skip the instrument) and MissingDateError (abort the
// computation that hit the gap).
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeInvalidPeriod, "period must be positive, got %d", period)
//
//	if errors.IsSkippable(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"time"
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
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode of the outermost coded error in the chain.
// Typed data errors report their own code. Anything else is ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	if IsInsufficientDataError(err) {
		return ErrCodeInsufficientData
	}

	if IsMissingDateError(err) {
		return ErrCodeMissingDate
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError is returned when fewer data points are available than
// a calculation requires.
type InsufficientDataError struct {
	Required int    // Minimum data points required
	Actual   int    // Actual data points available
	Symbol   string // Optional: symbol context
	Message  string // Human-readable message
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(required, actual int, symbol, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  message,
	}
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks the error chain for an InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}

// MissingDateError is returned when a calendar date inside a look-back window
// has no recorded close.
type MissingDateError struct {
	Symbol string
	Date   time.Time
}

// NewMissingDateError creates a new MissingDateError.
func NewMissingDateError(symbol string, date time.Time) *MissingDateError {
	return &MissingDateError{
		Symbol: symbol,
		Date:   date,
	}
}

// Error implements the error interface.
func (e *MissingDateError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("no close recorded on %s", e.Date.Format("2006-01-02"))
	}

	return fmt.Sprintf("no close recorded for %s on %s", e.Symbol, e.Date.Format("2006-01-02"))
}

// IsMissingDateError checks the error chain for a MissingDateError.
func IsMissingDateError(err error) bool {
	var missingErr *MissingDateError

	return errors.As(err, &missingErr)
}

// IsSkippable reports whether a batch run over many instruments should skip
// the instrument that produced err and carry on. Insufficient history and
// unavailable data are skippable; everything else is not.
func IsSkippable(err error) bool {
	if err == nil {
		return false
	}

	if IsInsufficientDataError(err) || IsMissingDateError(err) {
		return true
	}

	switch GetCode(err) {
	case ErrCodeDataUnavailable, ErrCodeNoDataFound, ErrCodeMarketDataFetchFailed, ErrCodeMarketDataParseFailed, ErrCodeInvalidBar:
		return true
	default:
		return false
	}
}
