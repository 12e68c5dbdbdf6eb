package models

import "time"

// SubmitDocumentResponse is returned once the document has been relayed.
// Response carries the raw CRPT response body for the caller to interpret.
type SubmitDocumentResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Response    string    `json:"response,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ListSubmissionsResponse pages through the submission journal.
type ListSubmissionsResponse struct {
	Submissions []*Submission `json:"submissions"`
	TotalCount  int           `json:"total_count"`
	Limit       int           `json:"limit"`
	Offset      int           `json:"offset"`
}

// ErrorResponse is the error envelope of every relay API error.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Code      string            `json:"code,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	RequestID string            `json:"request_id,omitempty"`
}

// HealthCheckResponse reports service and component health.
type HealthCheckResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health status constants.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// Machine-readable error codes returned by the relay API.
const (
	ErrorCodeBadRequest         = "BAD_REQUEST"          // 400: malformed request
	ErrorCodeValidation         = "VALIDATION_ERROR"     // 422: document failed validation
	ErrorCodeUnauthorized       = "UNAUTHORIZED"         // 401: missing or invalid token
	ErrorCodeNotFound           = "NOT_FOUND"            // 404: unknown route or submission
	ErrorCodeRequestCanceled    = "REQUEST_CANCELED"     // 408: caller gave up while queued
	ErrorCodeUpstreamError      = "UPSTREAM_ERROR"       // 502: CRPT rejected or unreachable
	ErrorCodeShuttingDown       = "SHUTTING_DOWN"        // 503: limiter already shut down
	ErrorCodeInternalError      = "INTERNAL_ERROR"       // 500: anything else
	ErrorCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"   // 405
	ErrorCodeSubmissionNotFound = "SUBMISSION_NOT_FOUND" // 404: journal lookup miss
)

// NewErrorResponse builds the standard error envelope.
func NewErrorResponse(message, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:     "error",
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	}
}

// NewHealthCheckResponse builds a health envelope with no components yet.
func NewHealthCheckResponse(status string) *HealthCheckResponse {
	return &HealthCheckResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]ComponentHealth),
	}
}

// AddComponent records the health of one dependency.
func (h *HealthCheckResponse) AddComponent(name, status, message string) {
	h.Components[name] = ComponentHealth{Status: status, Message: message}
}
