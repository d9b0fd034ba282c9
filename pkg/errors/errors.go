package errors

import (
	"fmt"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRateLimited   ErrorCode = "RATE_LIMITED"

	// Submission workflow rule violations
	ErrCodeInactive              ErrorCode = "INACTIVE"
	ErrCodeExpired               ErrorCode = "EXPIRED"
	ErrCodeCapacityExceeded      ErrorCode = "CAPACITY_EXCEEDED"
	ErrCodeDuplicateRegistration ErrorCode = "DUPLICATE_REGISTRATION"
	ErrCodeEmailRequired         ErrorCode = "EMAIL_REQUIRED"
	ErrCodeMissingResume         ErrorCode = "MISSING_RESUME"
)

// FieldError describes a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents an application error
type AppError struct {
	Code    ErrorCode
	Message string
	Details []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidation creates a VALIDATION_ERROR carrying every violated field.
func NewValidation(details []FieldError) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "Validation failed",
		Details: details,
	}
}

// Code extracts the ErrorCode from err, or INTERNAL_ERROR for plain errors.
func Code(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// IsNotFound checks if error is NotFound
func IsNotFound(err error) bool {
	return Code(err) == ErrCodeNotFound
}

// IsValidation checks if error is a validation failure
func IsValidation(err error) bool {
	return Code(err) == ErrCodeValidation
}

// IsRateLimited checks if error is a rate-limit rejection
func IsRateLimited(err error) bool {
	return Code(err) == ErrCodeRateLimited
}
