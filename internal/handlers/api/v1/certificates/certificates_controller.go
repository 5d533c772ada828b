// ===============================
// FILE: internal/handlers/api/v1/certificates/certificates_controller.go
// ===============================

package certificates

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"certidigital/internal/contextutils"
	"certidigital/internal/response"
	"certidigital/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CertificateController handles certificate API endpoints, including the
// public verification documents.
type CertificateController struct {
	certificates    services.CertificateService
	assertions      services.AssertionService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewCertificateController creates a certificate controller.
func NewCertificateController(
	certificates services.CertificateService,
	assertions services.AssertionService,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *CertificateController {
	return &CertificateController{
		certificates:    certificates,
		assertions:      assertions,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// ===============================
// ISSUANCE
// ===============================

// Issue handles POST /api/v1/certificates
func (c *CertificateController) Issue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.IssueCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode issue certificate request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	cert, err := c.certificates.Issue(ctx, &req)
	if err != nil {
		c.handleServiceError(w, r, err, "issue certificate")
		return
	}

	c.logger.Info("certificate issued via API",
		zap.String("certificate_id", cert.ID),
		zap.String("badge_id", cert.BadgeID),
		zap.String("recipient_id", cert.RecipientID),
		zap.String("issued_by", contextutils.GetUserID(ctx)),
	)

	c.responseBuilder.WriteCreated(w, r, cert)
}

// ===============================
// READ OPERATIONS
// ===============================

// List handles GET /api/v1/certificates
func (c *CertificateController) List(w http.ResponseWriter, r *http.Request) {
	listReq, err := response.ParseListRequest(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError(err.Error(), nil))
		return
	}

	req := &services.ListCertificatesRequest{
		ListRequest:    *listReq,
		BadgeID:        r.URL.Query().Get("badge_id"),
		OrganizationID: r.URL.Query().Get("organization_id"),
	}

	certs, total, err := c.certificates.List(r.Context(), req)
	if err != nil {
		c.handleServiceError(w, r, err, "list certificates")
		return
	}

	c.responseBuilder.WritePaginated(w, r, certs, req.Page, req.PageSize, total)
}

// Get handles GET /api/v1/certificates/{id}
func (c *CertificateController) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cert, err := c.certificates.GetByID(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err, "get certificate")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, cert)
}

// ListByRecipient handles GET /api/v1/certificates/recipient/{id}
func (c *CertificateController) ListByRecipient(w http.ResponseWriter, r *http.Request) {
	recipientID := chi.URLParam(r, "id")

	certs, err := c.certificates.ListByRecipient(r.Context(), recipientID)
	if err != nil {
		c.handleServiceError(w, r, err, "list certificates by recipient")
		return
	}

	c.responseBuilder.WriteSuccess(w, r, certs)
}

// ===============================
// DOCUMENT DOWNLOADS
// ===============================

// DownloadPDF handles GET /api/v1/certificates/{id}/pdf
func (c *CertificateController) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pdf, err := c.certificates.RenderPDF(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err, "render certificate pdf")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="certificado-%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		c.logger.Warn("failed to write pdf response",
			zap.String("certificate_id", id),
			zap.Error(err),
		)
	}
}

// DownloadBakedImage handles GET /api/v1/certificates/{id}/badge
func (c *CertificateController) DownloadBakedImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	path, err := c.certificates.BakedImagePath(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err, "resolve baked badge image")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// ===============================
// VERIFICATION DOCUMENTS
// ===============================

// GetAssertion handles GET /api/v1/certificates/assertions/{id}
//
// This endpoint is public: baked badges embed its URL and third-party
// verifiers dereference it.
func (c *CertificateController) GetAssertion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	assertion, err := c.assertions.Assertion(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err, "get assertion")
		return
	}

	// Assertions are served bare, without the API envelope, so badge
	// viewers can consume them directly.
	c.responseBuilder.WriteJSON(w, r, assertion, http.StatusOK)
}

// GetJSONLD handles GET /api/v1/certificates/{id}/jsonld
func (c *CertificateController) GetJSONLD(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := c.assertions.JSONLD(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, r, err, "get jsonld document")
		return
	}

	c.responseBuilder.WriteJSON(w, r, doc, http.StatusOK)
}

// ===============================
// ADMINISTRATION
// ===============================

// Update handles PUT /api/v1/certificates/{id}
func (c *CertificateController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req services.UpdateCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("failed to decode update certificate request", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return
	}

	cert, err := c.certificates.Update(r.Context(), id, &req)
	if err != nil {
		c.handleServiceError(w, r, err, "update certificate")
		return
	}

	c.logger.Info("certificate updated via API", zap.String("certificate_id", id))
	c.responseBuilder.WriteSuccess(w, r, cert)
}

// Delete handles DELETE /api/v1/certificates/{id}
func (c *CertificateController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.certificates.Delete(r.Context(), id); err != nil {
		c.handleServiceError(w, r, err, "delete certificate")
		return
	}

	c.logger.Info("certificate deleted via API", zap.String("certificate_id", id))
	c.responseBuilder.WriteNoContent(w, r)
}

// ===============================
// HELPER METHODS
// ===============================

// handleServiceError logs a service failure and writes the error envelope.
func (c *CertificateController) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if !services.IsNotFoundError(err) && !services.IsValidationError(err) {
		c.logger.Error("certificate service error",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)
	}
	c.responseBuilder.WriteError(w, r, err)
}
