package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	err := New(ErrCodeNotFound, "Job not found")
	assert.Equal(t, "NOT_FOUND: Job not found", err.Error())
	assert.Nil(t, err.Unwrap())

	cause := errors.New("row scan failed")
	wrapped := Wrap(ErrCodeInternalError, "database error", cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "row scan failed")
}

func TestNewValidation(t *testing.T) {
	err := NewValidation([]FieldError{
		{Field: "name", Message: "Name must be at least 2 characters"},
		{Field: "email", Message: "Invalid email address"},
	})
	assert.Equal(t, ErrCodeValidation, err.Code)
	assert.Equal(t, "Validation failed", err.Message)
	assert.Len(t, err.Details, 2)
	assert.True(t, IsValidation(err))
}

func TestCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, Code(New(ErrCodeNotFound, "missing")))
	assert.Equal(t, ErrCodeRateLimited, Code(New(ErrCodeRateLimited, "slow down")))
	assert.Equal(t, ErrCodeInternalError, Code(fmt.Errorf("plain error")))

	assert.True(t, IsNotFound(New(ErrCodeNotFound, "missing")))
	assert.False(t, IsNotFound(fmt.Errorf("plain error")))
	assert.True(t, IsRateLimited(New(ErrCodeRateLimited, "slow down")))
}
