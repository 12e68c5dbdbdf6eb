package models

import "errors"

// SubmitDocumentRequest is the body of POST /api/v1/documents: the document
// to relay plus its detached signature. The relay forwards the signature in
// the Signature header unchanged; it never inspects or verifies it.
type SubmitDocumentRequest struct {
	Document  *Document `json:"document"`
	Signature string    `json:"signature"`
}

// Validate checks the request before it reaches the relay service.
func (r *SubmitDocumentRequest) Validate() error {
	if r.Document == nil {
		return errors.New("document is required")
	}
	if r.Signature == "" {
		return errors.New("signature is required")
	}
	return r.Document.Validate()
}

// ListSubmissionsRequest carries the pagination parameters of
// GET /api/v1/submissions.
type ListSubmissionsRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
