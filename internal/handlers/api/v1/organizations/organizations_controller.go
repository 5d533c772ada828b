// ===============================
// FILE: internal/handlers/api/v1/organizations/organizations_controller.go
// ===============================

package organizations

import (
	"encoding/json"
	"net/http"

	"certidigital/internal/response"
	"certidigital/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrganizationController handles issuing organization API endpoints.
// The get endpoint is public: assertions reference issuers by URL.
type OrganizationController struct {
	organizations   services.OrganizationService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewOrganizationController creates an organization controller.
func NewOrganizationController(organizations services.OrganizationService, logger *zap.Logger, responseBuilder *response.Builder) *OrganizationController {
	return &OrganizationController{
		organizations:   organizations,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Create handles POST /api/v1/organizations
func (c *OrganizationController) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode create organization request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	org, err := c.organizations.Create(r.Context(), &req)
	if err != nil {
		c.handleServiceError(w, r, err, "create organization")
		return
	}

	c.logger.Info("organization created via API", zap.String("organization_id", org.ID))
	c.responseBuilder.WriteCreated(w, r, org)
}

// Get handles GET /api/v1/organizations/{id}
func (c *OrganizationController) Get(w http.ResponseWriter, r *http.Request) {
	org, err := c.organizations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleServiceError(w, r, err, "get organization")
		return
	}
	c.responseBuilder.WriteSuccess(w, r, org)
}

// List handles GET /api/v1/organizations
func (c *OrganizationController) List(w http.ResponseWriter, r *http.Request) {
	req, err := response.ParseListRequest(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError(err.Error(), nil))
		return
	}

	orgs, total, err := c.organizations.List(r.Context(), req)
	if err != nil {
		c.handleServiceError(w, r, err, "list organizations")
		return
	}

	c.responseBuilder.WritePaginated(w, r, orgs, req.Page, req.PageSize, total)
}

// Update handles PUT /api/v1/organizations/{id}
func (c *OrganizationController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req services.UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode update organization request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	org, err := c.organizations.Update(r.Context(), id, &req)
	if err != nil {
		c.handleServiceError(w, r, err, "update organization")
		return
	}

	c.logger.Info("organization updated via API", zap.String("organization_id", id))
	c.responseBuilder.WriteSuccess(w, r, org)
}

// Delete handles DELETE /api/v1/organizations/{id}
func (c *OrganizationController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.organizations.Delete(r.Context(), id); err != nil {
		c.handleServiceError(w, r, err, "delete organization")
		return
	}

	c.logger.Info("organization deleted via API", zap.String("organization_id", id))
	c.responseBuilder.WriteNoContent(w, r)
}

func (c *OrganizationController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if !services.IsNotFoundError(err) && !services.IsValidationError(err) && !services.IsConflictError(err) {
		c.logger.Error("organization service error",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)
	}
	c.responseBuilder.WriteError(w, r, err)
}
