// ===============================
// FILE: internal/handlers/api/v1/templates/templates_controller.go
// ===============================

package templates

import (
	"encoding/json"
	"net/http"

	"certidigital/internal/response"
	"certidigital/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TemplateController handles certificate template API endpoints.
type TemplateController struct {
	templates       services.TemplateService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewTemplateController creates a template controller.
func NewTemplateController(templates services.TemplateService, logger *zap.Logger, responseBuilder *response.Builder) *TemplateController {
	return &TemplateController{
		templates:       templates,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Create handles POST /api/v1/templates
func (c *TemplateController) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode create template request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	tpl, err := c.templates.Create(r.Context(), &req)
	if err != nil {
		c.handleServiceError(w, r, err, "create template")
		return
	}

	c.logger.Info("template created via API",
		zap.String("template_id", tpl.ID),
		zap.String("badge_id", tpl.BadgeID),
		zap.Bool("is_default", tpl.IsDefault),
	)

	c.responseBuilder.WriteCreated(w, r, tpl)
}

// Get handles GET /api/v1/templates/{id}
func (c *TemplateController) Get(w http.ResponseWriter, r *http.Request) {
	tpl, err := c.templates.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleServiceError(w, r, err, "get template")
		return
	}
	c.responseBuilder.WriteSuccess(w, r, tpl)
}

// List handles GET /api/v1/templates
//
// A badge_id query parameter narrows the listing to one badge's
// templates without pagination.
func (c *TemplateController) List(w http.ResponseWriter, r *http.Request) {
	if badgeID := r.URL.Query().Get("badge_id"); badgeID != "" {
		tpls, err := c.templates.ListByBadge(r.Context(), badgeID)
		if err != nil {
			c.handleServiceError(w, r, err, "list templates by badge")
			return
		}
		c.responseBuilder.WriteSuccess(w, r, tpls)
		return
	}

	req, err := response.ParseListRequest(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError(err.Error(), nil))
		return
	}

	tpls, total, err := c.templates.List(r.Context(), req)
	if err != nil {
		c.handleServiceError(w, r, err, "list templates")
		return
	}

	c.responseBuilder.WritePaginated(w, r, tpls, req.Page, req.PageSize, total)
}

// Update handles PUT /api/v1/templates/{id}
func (c *TemplateController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req services.UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode update template request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	tpl, err := c.templates.Update(r.Context(), id, &req)
	if err != nil {
		c.handleServiceError(w, r, err, "update template")
		return
	}

	c.logger.Info("template updated via API", zap.String("template_id", id))
	c.responseBuilder.WriteSuccess(w, r, tpl)
}

// Delete handles DELETE /api/v1/templates/{id}
func (c *TemplateController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.templates.Delete(r.Context(), id); err != nil {
		c.handleServiceError(w, r, err, "delete template")
		return
	}

	c.logger.Info("template deleted via API", zap.String("template_id", id))
	c.responseBuilder.WriteNoContent(w, r)
}

func (c *TemplateController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if !services.IsNotFoundError(err) && !services.IsValidationError(err) && !services.IsConflictError(err) {
		c.logger.Error("template service error",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)
	}
	c.responseBuilder.WriteError(w, r, err)
}
