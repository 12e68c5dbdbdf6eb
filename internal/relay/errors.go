package relay

import (
	"fmt"
	"net/http"

	"crptrelay/internal/models"
)

// ServiceError represents errors from the relay service with HTTP context
type ServiceError struct {
	Code       string
	Message    string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Error constructors for common service errors

func NewValidationError(message string, err error) *ServiceError {
	return &ServiceError{
		Code:       models.ErrorCodeValidation,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

func NewRequestCanceledError(message string, err error) *ServiceError {
	return &ServiceError{
		Code:       models.ErrorCodeRequestCanceled,
		Message:    message,
		StatusCode: http.StatusRequestTimeout,
		Err:        err,
	}
}

func NewShuttingDownError(err error) *ServiceError {
	return &ServiceError{
		Code:       models.ErrorCodeShuttingDown,
		Message:    "service is shutting down",
		StatusCode: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewUpstreamError(message string, err error) *ServiceError {
	return &ServiceError{
		Code:       models.ErrorCodeUpstreamError,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

func NewSubmissionNotFoundError(id string) *ServiceError {
	return &ServiceError{
		Code:       models.ErrorCodeSubmissionNotFound,
		Message:    fmt.Sprintf("submission '%s' not found", id),
		StatusCode: http.StatusNotFound,
	}
}

func NewInternalError(message string, err error) *ServiceError {
	return &ServiceError{
		Code:       models.ErrorCodeInternalError,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}
