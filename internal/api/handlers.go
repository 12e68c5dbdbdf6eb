package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"crptrelay/internal/models"
	"crptrelay/internal/relay"
	"crptrelay/internal/storage"
	"crptrelay/internal/version"

	"github.com/gorilla/mux"
)

// Handlers contains HTTP handlers for the relay API
type Handlers struct {
	relayService relay.ServiceInterface
	store        storage.Storage
}

// NewHandlers creates a new handlers instance
func NewHandlers(relayService relay.ServiceInterface, store storage.Storage) *Handlers {
	return &Handlers{
		relayService: relayService,
		store:        store,
	}
}

// SubmitDocument handles document submission requests
// POST /api/v1/documents
//
// The call blocks until the rate limiter admits the document or the client
// gives up, so slow responses under load are expected behavior.
func (h *Handlers) SubmitDocument(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}

	response, err := h.relayService.Submit(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, response)
}

// ListSubmissions handles journal list requests
// GET /api/v1/submissions
func (h *Handlers) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	req := &models.ListSubmissionsRequest{}

	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if limit, err := strconv.Atoi(limitParam); err == nil {
			req.Limit = limit
		}
	}

	if offsetParam := r.URL.Query().Get("offset"); offsetParam != "" {
		if offset, err := strconv.Atoi(offsetParam); err == nil {
			req.Offset = offset
		}
	}

	response, err := h.relayService.ListSubmissions(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// GetSubmission handles single journal record requests
// GET /api/v1/submissions/{id}
func (h *Handlers) GetSubmission(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	response, err := h.relayService.GetSubmission(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// HealthCheck handles health check requests
// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.NewHealthCheckResponse(models.StatusHealthy)
	response.Version = version.GetInfo().Version

	if err := h.store.Ping(r.Context()); err != nil {
		response.Status = models.StatusDegraded
		response.AddComponent("storage", models.StatusUnhealthy, err.Error())
	} else {
		response.AddComponent("storage", models.StatusHealthy, "Journal is operational")
	}
	response.AddComponent("api", models.StatusHealthy, "API is operational")

	h.writeJSONResponse(w, http.StatusOK, response)
}

// writeServiceError maps a relay service error onto the HTTP response,
// preserving its status code and machine-readable error code.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *relay.ServiceError
	if errors.As(err, &svcErr) {
		h.writeErrorResponse(w, r, svcErr.StatusCode, svcErr.Code, svcErr.Message)
		return
	}
	h.writeErrorResponse(w, r, http.StatusInternalServerError, models.ErrorCodeInternalError, "Internal server error")
}

// writeJSONResponse writes a JSON response
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing more to send
		return
	}
}

// writeErrorResponse writes an error response
func (h *Handlers) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	errorResp := models.NewErrorResponse(message, errorCode)
	errorResp.RequestID = RequestIDFromContext(r.Context())

	h.writeJSONResponse(w, statusCode, errorResp)
}
