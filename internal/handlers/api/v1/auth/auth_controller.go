// ===============================
// FILE: internal/handlers/api/v1/auth/auth_controller.go
// ===============================

package auth

import (
	"encoding/json"
	"net/http"

	"certidigital/internal/response"
	"certidigital/internal/services"

	"go.uber.org/zap"
)

// AuthController handles recipient authentication endpoints.
type AuthController struct {
	auth            services.AuthService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewAuthController creates an auth controller.
func NewAuthController(auth services.AuthService, logger *zap.Logger, responseBuilder *response.Builder) *AuthController {
	return &AuthController{
		auth:            auth,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// Login handles POST /api/v1/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode login request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	resp, err := c.auth.Login(r.Context(), &req)
	if err != nil {
		// Failed logins are expected traffic, keep them out of the error log.
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("recipient logged in",
		zap.String("recipient_id", resp.Recipient.ID),
	)

	c.responseBuilder.WriteSuccess(w, r, resp)
}
