package response

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"certidigital/internal/contextutils"
	"certidigital/internal/responseutil"
	"certidigital/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse is the standardized envelope of every JSON endpoint.
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Meta      *Meta        `json:"meta,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
}

// ErrorDetail carries error information in API responses.
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Meta carries response metadata.
type Meta struct {
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// PaginationMeta describes the page window of a list response.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder constructs and writes standardized responses.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a response builder.
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Middleware injects the builder into the request context so deep layers
// (panic recovery in particular) can produce consistent error bodies.
func (b *Builder) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := responseutil.SetBuilder(r.Context(), b)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (b *Builder) envelope(ctx context.Context, data interface{}) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: contextutils.GetRequestID(ctx),
		Timestamp: time.Now().Unix(),
	}
}

// WriteSuccess writes a 200 response.
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.WriteJSON(w, r, b.envelope(r.Context(), data), http.StatusOK)
}

// WriteCreated writes a 201 response.
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.WriteJSON(w, r, b.envelope(r.Context(), data), http.StatusCreated)
}

// WriteNoContent writes a 204 response.
func (b *Builder) WriteNoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// WritePaginated writes a list response with pagination metadata.
func (b *Builder) WritePaginated(w http.ResponseWriter, r *http.Request, items interface{}, page, pageSize int, total int64) {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	resp := b.envelope(r.Context(), items)
	resp.Meta = &Meta{
		Pagination: &PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
	b.WriteJSON(w, r, resp, http.StatusOK)
}

// WriteError maps a service error onto its HTTP status and writes the
// error envelope.
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := services.GetServiceError(err)

	resp := &APIResponse{
		Success: false,
		Error: &ErrorDetail{
			Type:    serviceErr.Type,
			Message: serviceErr.Message,
			Code:    serviceErr.Code,
			Details: serviceErr.Details,
		},
		RequestID: contextutils.GetRequestID(r.Context()),
		Timestamp: time.Now().Unix(),
	}

	status := serviceErr.GetStatusCode()
	if status >= http.StatusInternalServerError {
		b.logger.Error("request failed",
			zap.String("request_id", resp.RequestID),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	b.WriteJSON(w, r, resp, status)
}

// WriteJSON serializes a response with the given status code.
func (b *Builder) WriteJSON(w http.ResponseWriter, r *http.Request, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		b.logger.Error("failed to encode response",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}
