// Package relay implements the document relay business logic: admission
// through the shared rate limiter, forwarding to the CRPT endpoint, and
// journaling the outcome.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"crptrelay/internal/crpt"
	"crptrelay/internal/models"
	"crptrelay/internal/ratelimit"
	"crptrelay/internal/storage"

	"github.com/google/uuid"
)

// Service coordinates the limiter, the CRPT client, and the journal. One
// instance guards one remote endpoint; all callers share its limiter.
type Service struct {
	limiter ratelimit.Limiter
	client  crpt.DocumentCreator
	store   storage.Storage
	logger  *slog.Logger
}

// NewService creates a new relay service
func NewService(limiter ratelimit.Limiter, client crpt.DocumentCreator, store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		limiter: limiter,
		client:  client,
		store:   store,
		logger:  logger,
	}
}

// Submit relays one signed document to the CRPT endpoint. The call blocks
// until the rate limiter admits it; admission is spent even if the upstream
// call then fails. Every admitted attempt is journaled.
func (s *Service) Submit(ctx context.Context, req *models.SubmitDocumentRequest) (*models.SubmitDocumentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, NewValidationError("invalid submit request", err)
	}

	// Admission and the upstream call are mapped separately: a context error
	// during the wait means no slot was spent, while an upstream failure after
	// admission is journaled like any other attempt.
	if err := s.limiter.Acquire(ctx); err != nil {
		if errors.Is(err, ratelimit.ErrShutdown) {
			return nil, NewShuttingDownError(err)
		}
		return nil, NewRequestCanceledError("request canceled while waiting for a rate limit slot", err)
	}

	start := time.Now()
	respBody, err := s.client.CreateDocument(ctx, req.Document, req.Signature)

	sub := &models.Submission{
		ID:          uuid.New().String(),
		DocID:       req.Document.DocID,
		DocType:     req.Document.DocType,
		SubmittedAt: time.Now().UTC(),
		Duration:    time.Since(start),
	}

	if err != nil {
		// A caller hanging up mid-call is not an upstream failure: journal
		// it as canceled so operators can tell the two apart.
		if ctx.Err() != nil {
			sub.Status = models.SubmissionStatusCanceled
			sub.Error = err.Error()
			s.journal(ctx, sub)
			return nil, NewRequestCanceledError("request canceled during the upstream call", err)
		}
		sub.Status = models.SubmissionStatusFailed
		sub.Error = err.Error()
		s.journal(ctx, sub)
		return nil, NewUpstreamError("document submission failed", err)
	}

	sub.Status = models.SubmissionStatusAccepted
	sub.Response = respBody
	s.journal(ctx, sub)

	s.logger.Info("document relayed",
		"submission_id", sub.ID,
		"doc_id", sub.DocID,
		"doc_type", sub.DocType)

	return &models.SubmitDocumentResponse{
		ID:          sub.ID,
		Status:      sub.Status,
		Response:    sub.Response,
		SubmittedAt: sub.SubmittedAt,
	}, nil
}

// GetSubmission retrieves one journal record by ID
func (s *Service) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.store.GetSubmission(ctx, id)
	if errors.Is(err, storage.ErrSubmissionNotFound) {
		return nil, NewSubmissionNotFoundError(id)
	}
	if err != nil {
		return nil, NewInternalError("failed to load submission", err)
	}
	return sub, nil
}

// ListSubmissions returns a paginated view of the submission journal
func (s *Service) ListSubmissions(ctx context.Context, req *models.ListSubmissionsRequest) (*models.ListSubmissionsResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	subs, total, err := s.store.Submissions(ctx, limit, offset)
	if err != nil {
		return nil, NewInternalError("failed to list submissions", err)
	}

	return &models.ListSubmissionsResponse{
		Submissions: subs,
		TotalCount:  total,
		Limit:       limit,
		Offset:      offset,
	}, nil
}

// journal records the attempt best-effort: a journal write failure must not
// turn a relayed document into a client-visible error, and the write must
// survive the caller's context being canceled.
func (s *Service) journal(ctx context.Context, sub *models.Submission) {
	if err := s.store.SaveSubmission(context.WithoutCancel(ctx), sub); err != nil {
		s.logger.Warn("failed to journal submission",
			"submission_id", sub.ID,
			"doc_id", sub.DocID,
			"error", err)
	}
}
