package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidAmount    = new(ErrCodeInvalidAmount, "amount must be non negative")
	ErrAmountMismatch   = new(ErrCodeAmountMismatch, "stated and computed totals do not reconcile")
	ErrUnparseableTerms = new(ErrCodeUnparseableTerms, "payment terms label could not be parsed")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrSystem           = new(ErrCodeSystemError, "system error")
)

const (
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidAmount    = "invalid_amount"
	ErrCodeAmountMismatch   = "amount_mismatch"
	ErrCodeUnparseableTerms = "unparseable_payment_terms"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodeNotFound         = "not_found"
	ErrCodeSystemError      = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// new creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidAmount checks if an error is an invalid amount error
func IsInvalidAmount(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

// IsAmountMismatch checks if an error is an amount mismatch error
func IsAmountMismatch(err error) bool {
	return errors.Is(err, ErrAmountMismatch)
}

// IsUnparseableTerms checks if an error is an unparseable payment terms error
func IsUnparseableTerms(err error) bool {
	return errors.Is(err, ErrUnparseableTerms)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Code returns the machine-readable code for a marked error, or
// ErrCodeSystemError when the error carries no known mark.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, sentinel := range []*InternalError{
		ErrValidation,
		ErrInvalidAmount,
		ErrAmountMismatch,
		ErrUnparseableTerms,
		ErrInvalidOperation,
		ErrNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Code
		}
	}
	return ErrCodeSystemError
}

// Hint returns the user-facing hint attached to an error via the builder.
func Hint(err error) string {
	if err == nil {
		return ""
	}
	return errors.FlattenHints(err)
}
