package relay

import (
	"context"

	"crptrelay/internal/models"
)

// ServiceInterface defines the interface for relay service operations
type ServiceInterface interface {
	// Submit relays one signed document to the CRPT endpoint, blocking until
	// the rate limiter admits it or the context is done
	Submit(ctx context.Context, req *models.SubmitDocumentRequest) (*models.SubmitDocumentResponse, error)

	// GetSubmission retrieves one journal record by ID
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)

	// ListSubmissions returns a paginated view of the submission journal
	ListSubmissions(ctx context.Context, req *models.ListSubmissionsRequest) (*models.ListSubmissionsResponse, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
