package models

import "time"

// Submission status constants.
const (
	SubmissionStatusAccepted = "accepted" // CRPT returned a 2xx response
	SubmissionStatusFailed   = "failed"   // transport error or non-2xx response
	SubmissionStatusCanceled = "canceled" // caller gave up before CRPT answered
)

// Submission is the journal record of one relayed document: what was sent,
// when, and how the CRPT endpoint answered. The journal exists for auditing
// and operator debugging; it is not consulted by the rate limiter.
type Submission struct {
	ID          string        `json:"id"`
	DocID       string        `json:"doc_id"`
	DocType     string        `json:"doc_type"`
	Status      string        `json:"status"`
	Response    string        `json:"response,omitempty"`
	Error       string        `json:"error,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
	Duration    time.Duration `json:"duration"`
}
