package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"tmsbot/internal/contextutil"
	"tmsbot/internal/llm"
	"tmsbot/internal/service"
)

// UnexpectedErrorDetail is returned for faults that carry no user-facing message.
const UnexpectedErrorDetail = "Internal Server Error: An unexpected issue occurred during processing."

// QueryHandler handles HTTP requests for natural-language queries.
type QueryHandler struct {
	queryService service.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queryService service.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

// QueryRequest represents the HTTP request payload for a query.
type QueryRequest struct {
	History []llm.Message `json:"history"`
}

// QueryResponse represents the HTTP response payload for a query.
type QueryResponse struct {
	Summary     string           `json:"summary"`
	SQLQuery    string           `json:"sql_query"`
	QueryResult []map[string]any `json:"query_result"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ServeHTTP handles POST /query.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.queryService.ProcessQuery(ctx, service.QueryRequest{History: req.History})
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	out := QueryResponse{
		Summary:     resp.Summary,
		SQLQuery:    resp.SQLQuery,
		QueryResult: resp.QueryResult,
	}
	if out.QueryResult == nil {
		out.QueryResult = []map[string]any{}
	}

	body, err := json.Marshal(out)
	if err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
		WriteError(w, http.StatusInternalServerError, UnexpectedErrorDetail)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(body, '\n'))
}

// handleServiceError maps service errors to HTTP status codes.
func (h *QueryHandler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	var generationErr *service.GenerationError
	var unsafeErr *service.UnsafeQueryError
	var executionErr *service.ExecutionError

	switch {
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &generationErr):
		logger.WarnContext(ctx, "sql generation failed", "error", err)
		WriteError(w, http.StatusBadRequest, generationErr.Detail())
	case errors.As(err, &unsafeErr):
		WriteError(w, http.StatusForbidden, unsafeErr.Error())
	case errors.As(err, &executionErr):
		WriteError(w, http.StatusInternalServerError, executionErr.Error())
	default:
		logger.ErrorContext(ctx, "query failed", "error", err)
		WriteError(w, http.StatusInternalServerError, UnexpectedErrorDetail)
	}
}

// WriteError writes a {"detail": ...} error response.
func WriteError(w http.ResponseWriter, statusCode int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: detail})
}
