// ===============================
// FILE: internal/handlers/api/v1/skills/skills_controller.go
// ===============================

package skills

import (
	"encoding/json"
	"net/http"

	"certidigital/internal/response"
	"certidigital/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SkillController handles the shared skill catalog endpoints.
type SkillController struct {
	skills          services.SkillService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewSkillController creates a skill controller.
func NewSkillController(skills services.SkillService, logger *zap.Logger, responseBuilder *response.Builder) *SkillController {
	return &SkillController{
		skills:          skills,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Create handles POST /api/v1/skills
//
// Skill names are shared across badges; posting an existing name
// returns the existing skill rather than a conflict.
func (c *SkillController) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode create skill request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	skill, err := c.skills.Create(r.Context(), &req)
	if err != nil {
		c.handleServiceError(w, r, err, "create skill")
		return
	}

	c.logger.Info("skill created via API",
		zap.String("skill_id", skill.ID),
		zap.String("name", skill.Name),
	)
	c.responseBuilder.WriteCreated(w, r, skill)
}

// List handles GET /api/v1/skills
func (c *SkillController) List(w http.ResponseWriter, r *http.Request) {
	skills, err := c.skills.List(r.Context())
	if err != nil {
		c.handleServiceError(w, r, err, "list skills")
		return
	}
	c.responseBuilder.WriteSuccess(w, r, skills)
}

// Delete handles DELETE /api/v1/skills/{id}
func (c *SkillController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.skills.Delete(r.Context(), id); err != nil {
		c.handleServiceError(w, r, err, "delete skill")
		return
	}

	c.logger.Info("skill deleted via API", zap.String("skill_id", id))
	c.responseBuilder.WriteNoContent(w, r)
}

func (c *SkillController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if !services.IsNotFoundError(err) && !services.IsValidationError(err) {
		c.logger.Error("skill service error",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)
	}
	c.responseBuilder.WriteError(w, r, err)
}
