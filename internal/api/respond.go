package api

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "ethidata/pkg/errors"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string                 `json:"message"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &errorBody{Message: "Something went wrong. Please try again."}

	if appErr, ok := err.(*apperrors.AppError); ok {
		status = statusForCode(appErr.Code)
		body.Message = appErr.Message
		body.Details = appErr.Details
	}

	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(envelope{Success: false, Error: body}); encErr != nil {
		log.Printf("[API] Failed to encode error response: %v", encErr)
	}
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeBadRequest,
		apperrors.ErrCodeInactive,
		apperrors.ErrCodeExpired,
		apperrors.ErrCodeCapacityExceeded,
		apperrors.ErrCodeDuplicateRegistration,
		apperrors.ErrCodeEmailRequired,
		apperrors.ErrCodeMissingResume:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
