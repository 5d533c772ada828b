// Package router wires the HTTP surface: the public verification
// endpoints, the authenticated administration API and static uploads.
package router

import (
	"context"
	"net/http"
	"time"

	"certidigital/internal/config"
	"certidigital/internal/database"
	"certidigital/internal/handlers/api/v1/auth"
	"certidigital/internal/handlers/api/v1/badges"
	"certidigital/internal/handlers/api/v1/certificates"
	"certidigital/internal/handlers/api/v1/criteria"
	"certidigital/internal/handlers/api/v1/organizations"
	"certidigital/internal/handlers/api/v1/recipients"
	"certidigital/internal/handlers/api/v1/skills"
	"certidigital/internal/handlers/api/v1/templates"
	"certidigital/internal/handlers/api/v1/uploads"
	"certidigital/internal/middleware"
	"certidigital/internal/response"
	"certidigital/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// New builds the HTTP handler with the full middleware stack applied.
//
// Public and protected handlers share path prefixes (a certificate's
// assertion is public while its administration is not), so routes are
// registered flat with per-route auth instead of nested subrouters.
func New(
	cfg *config.Config,
	svcs *services.Collection,
	db *database.Manager,
	responseBuilder *response.Builder,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(logger))
	r.Use(responseBuilder.Middleware())
	r.Use(middleware.StructuredLogging())
	r.Use(middleware.Recovery(logger))

	authController := auth.NewAuthController(svcs.Auth, logger, responseBuilder)
	certController := certificates.NewCertificateController(svcs.Certificates, svcs.Assertions, logger, responseBuilder)
	badgeController := badges.NewBadgeController(svcs.Badges, logger, responseBuilder)
	templateController := templates.NewTemplateController(svcs.Templates, logger, responseBuilder)
	skillController := skills.NewSkillController(svcs.Skills, logger, responseBuilder)
	criterionController := criteria.NewCriterionController(svcs.Criteria, logger, responseBuilder)
	orgController := organizations.NewOrganizationController(svcs.Organizations, logger, responseBuilder)
	recipientController := recipients.NewRecipientController(svcs.Recipients, logger, responseBuilder)
	uploadController := uploads.NewUploadController(svcs.Files, logger, responseBuilder)

	requireAuth := middleware.RequireAuth(svcs.Auth, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authController.Login)

		// Public verification surface. Baked badges and third-party
		// verifiers dereference these URLs without credentials.
		r.Get("/certificates/assertions/{id}", certController.GetAssertion)
		r.Get("/certificates/{id}/jsonld", certController.GetJSONLD)
		r.Get("/badges/openbadge/{file}", badgeController.GetOpenBadge)
		r.Get("/organizations/{id}", orgController.Get)

		r.Post("/recipients/reset-password", recipientController.ResetPassword)

		protected := r.With(requireAuth)

		protected.Post("/certificates", certController.Issue)
		protected.Get("/certificates", certController.List)
		protected.Get("/certificates/recipient/{id}", certController.ListByRecipient)
		protected.Get("/certificates/{id}", certController.Get)
		protected.Get("/certificates/{id}/pdf", certController.DownloadPDF)
		protected.Get("/certificates/{id}/badge", certController.DownloadBakedImage)
		protected.Put("/certificates/{id}", certController.Update)
		protected.Delete("/certificates/{id}", certController.Delete)

		protected.Post("/badges", badgeController.Create)
		protected.Get("/badges", badgeController.List)
		protected.Get("/badges/{id}", badgeController.Get)
		protected.Put("/badges/{id}", badgeController.Update)
		protected.Delete("/badges/{id}", badgeController.Delete)
		protected.Put("/badges/{id}/skills", badgeController.SetSkills)

		protected.Post("/skills", skillController.Create)
		protected.Get("/skills", skillController.List)
		protected.Delete("/skills/{id}", skillController.Delete)

		protected.Post("/criteria", criterionController.Create)
		protected.Get("/criteria", criterionController.List)
		protected.Get("/criteria/{id}", criterionController.Get)
		protected.Put("/criteria/{id}", criterionController.Update)
		protected.Delete("/criteria/{id}", criterionController.Delete)

		protected.Post("/templates", templateController.Create)
		protected.Get("/templates", templateController.List)
		protected.Get("/templates/{id}", templateController.Get)
		protected.Put("/templates/{id}", templateController.Update)
		protected.Delete("/templates/{id}", templateController.Delete)

		protected.Post("/organizations", orgController.Create)
		protected.Get("/organizations", orgController.List)
		protected.Put("/organizations/{id}", orgController.Update)
		protected.Delete("/organizations/{id}", orgController.Delete)

		protected.Post("/recipients", recipientController.Create)
		protected.Get("/recipients", recipientController.List)
		protected.Get("/recipients/{id}", recipientController.Get)
		protected.Put("/recipients/{id}", recipientController.Update)
		protected.Delete("/recipients/{id}", recipientController.Delete)

		protected.Post("/uploads", uploadController.Upload)
	})

	// Uploaded assets (badge images, template backgrounds, baked badges).
	uploadsServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Storage.UploadsDir)))
	r.Get("/uploads/*", uploadsServer.ServeHTTP)

	r.Get("/health", healthHandler(db, responseBuilder))

	return r
}

// healthHandler reports database connectivity and pool statistics.
func healthHandler(db *database.Manager, responseBuilder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}

		stats := db.Stats()
		responseBuilder.WriteJSON(w, r, map[string]interface{}{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database": map[string]interface{}{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
			},
		}, httpStatus)
	}
}
