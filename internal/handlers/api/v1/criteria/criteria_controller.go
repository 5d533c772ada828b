// ===============================
// FILE: internal/handlers/api/v1/criteria/criteria_controller.go
// ===============================

package criteria

import (
	"encoding/json"
	"net/http"

	"certidigital/internal/response"
	"certidigital/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CriterionController handles badge criteria endpoints.
type CriterionController struct {
	criteria        services.CriterionService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewCriterionController creates a criterion controller.
func NewCriterionController(criteria services.CriterionService, logger *zap.Logger, responseBuilder *response.Builder) *CriterionController {
	return &CriterionController{
		criteria:        criteria,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Create handles POST /api/v1/criteria
func (c *CriterionController) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCriterionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode create criterion request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	criterion, err := c.criteria.Create(r.Context(), &req)
	if err != nil {
		c.handleServiceError(w, r, err, "create criterion")
		return
	}

	c.logger.Info("criterion created via API",
		zap.String("criterion_id", criterion.ID),
		zap.String("badge_id", criterion.BadgeID),
	)
	c.responseBuilder.WriteCreated(w, r, criterion)
}

// Get handles GET /api/v1/criteria/{id}
func (c *CriterionController) Get(w http.ResponseWriter, r *http.Request) {
	criterion, err := c.criteria.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleServiceError(w, r, err, "get criterion")
		return
	}
	c.responseBuilder.WriteSuccess(w, r, criterion)
}

// List handles GET /api/v1/criteria
//
// A badge_id query parameter narrows the listing to one badge.
func (c *CriterionController) List(w http.ResponseWriter, r *http.Request) {
	if badgeID := r.URL.Query().Get("badge_id"); badgeID != "" {
		criteria, err := c.criteria.ListByBadge(r.Context(), badgeID)
		if err != nil {
			c.handleServiceError(w, r, err, "list criteria by badge")
			return
		}
		c.responseBuilder.WriteSuccess(w, r, criteria)
		return
	}

	criteria, err := c.criteria.List(r.Context())
	if err != nil {
		c.handleServiceError(w, r, err, "list criteria")
		return
	}
	c.responseBuilder.WriteSuccess(w, r, criteria)
}

// Update handles PUT /api/v1/criteria/{id}
func (c *CriterionController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req services.UpdateCriterionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode update criterion request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	criterion, err := c.criteria.Update(r.Context(), id, &req)
	if err != nil {
		c.handleServiceError(w, r, err, "update criterion")
		return
	}

	c.logger.Info("criterion updated via API", zap.String("criterion_id", id))
	c.responseBuilder.WriteSuccess(w, r, criterion)
}

// Delete handles DELETE /api/v1/criteria/{id}
func (c *CriterionController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.criteria.Delete(r.Context(), id); err != nil {
		c.handleServiceError(w, r, err, "delete criterion")
		return
	}

	c.logger.Info("criterion deleted via API", zap.String("criterion_id", id))
	c.responseBuilder.WriteNoContent(w, r)
}

func (c *CriterionController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if !services.IsNotFoundError(err) && !services.IsValidationError(err) {
		c.logger.Error("criterion service error",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)
	}
	c.responseBuilder.WriteError(w, r, err)
}
