// ===============================
// FILE: internal/handlers/api/v1/badges/badges_controller.go
// ===============================

package badges

import (
	"encoding/json"
	"net/http"
	"strings"

	"certidigital/internal/response"
	"certidigital/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BadgeController handles badge class API endpoints, including the
// public hosted OpenBadge class document.
type BadgeController struct {
	badges          services.BadgeService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewBadgeController creates a badge controller.
func NewBadgeController(badges services.BadgeService, logger *zap.Logger, responseBuilder *response.Builder) *BadgeController {
	return &BadgeController{
		badges:          badges,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// ===============================
// CORE CRUD OPERATIONS
// ===============================

// Create handles POST /api/v1/badges
func (c *BadgeController) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode create badge request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	badge, err := c.badges.Create(r.Context(), &req)
	if err != nil {
		c.handleServiceError(w, r, err, "create badge")
		return
	}

	c.logger.Info("badge created via API",
		zap.String("badge_id", badge.ID),
		zap.String("issuer_id", badge.IssuerID),
	)

	c.responseBuilder.WriteCreated(w, r, badge)
}

// Get handles GET /api/v1/badges/{id}
func (c *BadgeController) Get(w http.ResponseWriter, r *http.Request) {
	badge, err := c.badges.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.handleServiceError(w, r, err, "get badge")
		return
	}
	c.responseBuilder.WriteSuccess(w, r, badge)
}

// List handles GET /api/v1/badges
func (c *BadgeController) List(w http.ResponseWriter, r *http.Request) {
	req, err := response.ParseListRequest(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError(err.Error(), nil))
		return
	}

	badges, total, err := c.badges.List(r.Context(), req)
	if err != nil {
		c.handleServiceError(w, r, err, "list badges")
		return
	}

	c.responseBuilder.WritePaginated(w, r, badges, req.Page, req.PageSize, total)
}

// Update handles PUT /api/v1/badges/{id}
func (c *BadgeController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req services.UpdateBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode update badge request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	badge, err := c.badges.Update(r.Context(), id, &req)
	if err != nil {
		c.handleServiceError(w, r, err, "update badge")
		return
	}

	c.logger.Info("badge updated via API", zap.String("badge_id", id))
	c.responseBuilder.WriteSuccess(w, r, badge)
}

// Delete handles DELETE /api/v1/badges/{id}
func (c *BadgeController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.badges.Delete(r.Context(), id); err != nil {
		c.handleServiceError(w, r, err, "delete badge")
		return
	}

	c.logger.Info("badge deleted via API", zap.String("badge_id", id))
	c.responseBuilder.WriteNoContent(w, r)
}

// SetSkills handles PUT /api/v1/badges/{id}/skills
//
// The supplied set replaces the badge's skill links entirely.
func (c *BadgeController) SetSkills(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req services.SetBadgeSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode set badge skills request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	badge, err := c.badges.SetSkills(r.Context(), id, &req)
	if err != nil {
		c.handleServiceError(w, r, err, "set badge skills")
		return
	}

	c.logger.Info("badge skills replaced via API",
		zap.String("badge_id", id),
		zap.Int("skill_count", len(req.SkillIDs)),
	)
	c.responseBuilder.WriteSuccess(w, r, badge)
}

// ===============================
// PUBLIC BADGE CLASS
// ===============================

// GetOpenBadge handles GET /api/v1/badges/openbadge/{file}
//
// The route serves "<badge id>.json": assertions reference badge classes
// by this URL, so the document is served bare for third-party verifiers.
func (c *BadgeController) GetOpenBadge(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	id := strings.TrimSuffix(file, ".json")
	if id == "" || id == file {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("badge class path must end in .json", nil))
		return
	}

	class, err := c.badges.BadgeClass(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err, "get badge class")
		return
	}

	c.responseBuilder.WriteJSON(w, r, class, http.StatusOK)
}

// ===============================
// HELPER METHODS
// ===============================

func (c *BadgeController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if !services.IsNotFoundError(err) && !services.IsValidationError(err) {
		c.logger.Error("badge service error",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)
	}
	c.responseBuilder.WriteError(w, r, err)
}
