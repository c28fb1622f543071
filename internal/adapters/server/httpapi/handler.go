// Package httpapi provides the REST HTTP adapter for the tasks function.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/evanschultz/kanfocus/internal/adapters/server/common"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// greeting is the plain-text body served at the function root.
const greeting = "Hello Hono!"

// Handler serves the tasks function subrouter.
type Handler struct {
	router   chi.Router
	queue    common.TaskQueue
	validate *validator.Validate
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs the tasks router. A nil queue disables the queue routes.
func NewHandler(queue common.TaskQueue) *Handler {
	h := &Handler{
		queue:    queue,
		validate: validator.New(),
	}
	r := chi.NewRouter()
	r.Get("/", h.handleGreeting)
	r.Route("/queues/{queue}", func(r chi.Router) {
		r.Post("/messages", h.handleEnqueue)
		r.Post("/read", h.handleDrain)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, APIError{Code: "not_found", Message: "endpoint not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, APIError{Code: "method_not_allowed", Message: "method not allowed"})
	})
	h.router = r
	return h
}

// ServeHTTP routes one request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// handleGreeting serves GET `/`.
func (h *Handler) handleGreeting(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, greeting)
}

// handleEnqueue serves POST `/queues/{queue}/messages`.
func (h *Handler) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeQueueUnavailable(w)
		return
	}
	var req common.EnqueueRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorFrom(w, fmt.Errorf("validate request: %w", errors.Join(common.ErrInvalidRequest, err)))
		return
	}
	if strings.TrimSpace(string(req.Message)) == "null" {
		writeErrorFrom(w, fmt.Errorf("message must not be null: %w", common.ErrInvalidRequest))
		return
	}
	res, err := h.queue.Enqueue(r.Context(), chi.URLParam(r, "queue"), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleDrain serves POST `/queues/{queue}/read`.
func (h *Handler) handleDrain(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeQueueUnavailable(w)
		return
	}
	res, err := h.queue.Drain(r.Context(), chi.URLParam(r, "queue"))
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeQueueUnavailable reports a server started without a database.
func writeQueueUnavailable(w http.ResponseWriter) {
	writeJSONError(w, http.StatusServiceUnavailable, APIError{
		Code:    "service_unavailable",
		Message: "queue is not configured",
		Hint:    "Set queue.database_url or KANFOCUS_DATABASE_URL.",
	})
}

// writeErrorFrom maps adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, common.ErrInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, common.ErrQueueUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "service_unavailable",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(common.ErrInvalidRequest, err))
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", common.ErrInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}
