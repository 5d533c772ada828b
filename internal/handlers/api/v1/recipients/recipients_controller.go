// ===============================
// FILE: internal/handlers/api/v1/recipients/recipients_controller.go
// ===============================

package recipients

import (
	"encoding/json"
	"net/http"

	"certidigital/internal/response"
	"certidigital/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RecipientController handles recipient API endpoints, including the
// public password-reset redemption.
type RecipientController struct {
	recipients      services.RecipientService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewRecipientController creates a recipient controller.
func NewRecipientController(recipients services.RecipientService, logger *zap.Logger, responseBuilder *response.Builder) *RecipientController {
	return &RecipientController{
		recipients:      recipients,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Create handles POST /api/v1/recipients
func (c *RecipientController) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode create recipient request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	recipient, err := c.recipients.Create(r.Context(), &req)
	if err != nil {
		c.handleServiceError(w, r, err, "create recipient")
		return
	}

	c.logger.Info("recipient created via API", zap.String("recipient_id", recipient.ID))
	c.responseBuilder.WriteCreated(w, r, recipient)
}

// Get handles GET /api/v1/recipients/{id}
func (c *RecipientController) Get(w http.ResponseWriter, r *http.Request) {
	recipient, err := c.recipients.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleServiceError(w, r, err, "get recipient")
		return
	}
	c.responseBuilder.WriteSuccess(w, r, recipient)
}

// List handles GET /api/v1/recipients
func (c *RecipientController) List(w http.ResponseWriter, r *http.Request) {
	req, err := response.ParseListRequest(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError(err.Error(), nil))
		return
	}

	recipients, total, err := c.recipients.List(r.Context(), req)
	if err != nil {
		c.handleServiceError(w, r, err, "list recipients")
		return
	}

	c.responseBuilder.WritePaginated(w, r, recipients, req.Page, req.PageSize, total)
}

// Update handles PUT /api/v1/recipients/{id}
func (c *RecipientController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req services.UpdateRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode update recipient request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	recipient, err := c.recipients.Update(r.Context(), id, &req)
	if err != nil {
		c.handleServiceError(w, r, err, "update recipient")
		return
	}

	c.logger.Info("recipient updated via API", zap.String("recipient_id", id))
	c.responseBuilder.WriteSuccess(w, r, recipient)
}

// Delete handles DELETE /api/v1/recipients/{id}
func (c *RecipientController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.recipients.Delete(r.Context(), id); err != nil {
		c.handleServiceError(w, r, err, "delete recipient")
		return
	}

	c.logger.Info("recipient deleted via API", zap.String("recipient_id", id))
	c.responseBuilder.WriteNoContent(w, r)
}

// ResetPassword handles POST /api/v1/recipients/reset-password
//
// This endpoint is public: the token from the welcome email is the only
// credential the caller holds.
func (c *RecipientController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req services.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode reset password request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	if err := c.recipients.ResetPassword(r.Context(), &req); err != nil {
		// Invalid tokens are expected traffic, keep them out of the error log.
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"message": "password updated successfully",
	})
}

func (c *RecipientController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if !services.IsNotFoundError(err) && !services.IsValidationError(err) && !services.IsConflictError(err) {
		c.logger.Error("recipient service error",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)
	}
	c.responseBuilder.WriteError(w, r, err)
}
