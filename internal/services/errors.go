package services

import (
	"errors"
	"fmt"

	apperrors "github.com/edusync/task-automation-service/internal/errors"
	"github.com/edusync/task-automation-service/internal/upstream"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrInternalError    = errors.New("internal server error")

	// Request-shape errors, rejected before any work begins
	ErrMissingToken = errors.New("auth token is required")
	ErrMissingTask  = errors.New("task payload is required")
	ErrMissingTasks = errors.New("task list is required")

	// Synthesis errors
	ErrInvalidStructure = errors.New("task structure has no questions")

	// Processing errors
	ErrMissingTaskID = errors.New("task reference has no id")

	// Auth errors
	ErrLoginFailed = errors.New("upstream login failed")
	ErrNoAuthToken = errors.New("upstream login returned no token")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// SynthesisError marks a per-question synthesis failure. It is always
// absorbed by the reducer and replaced with an empty answer; it never crosses
// the synthesizer boundary.
type SynthesisError struct {
	QuestionID string
	Reason     string
	Err        error
}

func (se *SynthesisError) Error() string {
	if se.Err != nil {
		return fmt.Sprintf("synthesis failed for question %s: %s: %v", se.QuestionID, se.Reason, se.Err)
	}
	return fmt.Sprintf("synthesis failed for question %s: %s", se.QuestionID, se.Reason)
}

func (se *SynthesisError) Unwrap() error { return se.Err }

func newSynthesisError(questionID, reason string, err error) *SynthesisError {
	return &SynthesisError{QuestionID: questionID, Reason: reason, Err: err}
}

// ===== ERROR HELPERS =====

// IsRequestError reports whether err is a structurally invalid request that
// should map to a client error before any processing happens.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrMissingTask) ||
		errors.Is(err, ErrMissingTasks) ||
		errors.Is(err, ErrBadRequest)
}

// IsValidation checks if err represents a validation failure.
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsUpstream reports whether err came back from the platform API as a
// non-2xx status.
func IsUpstream(err error) bool {
	return upstream.IsUpstreamError(err)
}
