package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"certidigital/internal/baker"
	"certidigital/internal/database"
	"certidigital/internal/models"
	"certidigital/internal/render"
	"certidigital/internal/repositories"
	"certidigital/internal/validation"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type certificateService struct {
	db         *database.Manager
	repos      *repositories.Collection
	assertions AssertionService
	renderer   *render.Renderer
	baker      *baker.Baker
	mail       MailService
	uploadsDir string
	logger     *zap.Logger
}

// NewCertificateService creates the issuance orchestrator.
func NewCertificateService(
	db *database.Manager,
	repos *repositories.Collection,
	assertions AssertionService,
	renderer *render.Renderer,
	imageBaker *baker.Baker,
	mail MailService,
	uploadsDir string,
	logger *zap.Logger,
) CertificateService {
	return &certificateService{
		db:         db,
		repos:      repos,
		assertions: assertions,
		renderer:   renderer,
		baker:      imageBaker,
		mail:       mail,
		uploadsDir: uploadsDir,
		logger:     logger,
	}
}

// newResetToken mints the credential-reset token handed to recipients
// created during issuance.
func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Issue runs the issuance pipeline. Recipient reconciliation, badge and
// template resolution and the certificate insert share one transaction;
// any failure among them rolls everything back. Baking runs inside the
// same scope but its failure only skips the baked-image update.
// Notifications go out after commit and never affect the outcome.
func (s *certificateService) Issue(ctx context.Context, req *IssueCertificateRequest) (*models.Certificate, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	var (
		cert         *models.Certificate
		recipient    *models.Recipient
		recipientNew bool
		resetToken   string
	)

	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		recipients := s.repos.Recipients.WithTx(tx)
		organizations := s.repos.Organizations.WithTx(tx)
		badges := s.repos.Badges.WithTx(tx)
		templates := s.repos.Templates.WithTx(tx)
		certificates := s.repos.Certificates.WithTx(tx)

		var err error
		recipient, recipientNew, resetToken, err = s.reconcileRecipient(ctx, recipients, organizations, &req.Recipient)
		if err != nil {
			return err
		}

		badge, err := badges.GetWithRelations(ctx, req.BadgeID)
		if err != nil {
			return NewInternalError("failed to load badge", err)
		}
		if badge == nil {
			return EntityNotFoundError("badge", req.BadgeID)
		}

		template, err := s.resolveTemplate(ctx, templates, req.BadgeID, req.TemplateID)
		if err != nil {
			return err
		}

		id, err := uuid.NewV4()
		if err != nil {
			return NewInternalError("failed to generate certificate id", err)
		}

		cert = &models.Certificate{
			ID:          id.String(),
			RecipientID: recipient.ID,
			BadgeID:     badge.ID,
			TemplateID:  &template.ID,
			Status:      models.CertificateAccepted,
			Snapshot: models.RecipientSnapshot{
				Name:  recipient.FullName(),
				Email: recipient.Email,
			},
			IssuedAt:  time.Now(),
			ExpiresAt: req.ExpiresAt,
		}
		if err := certificates.Create(ctx, cert); err != nil {
			return NewInternalError("failed to create certificate", err)
		}

		cert.Owner = recipient
		cert.Badge = badge
		cert.Template = template

		s.bakeBadgeImage(ctx, certificates, cert)
		return nil
	})
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, NewConflictError("recipient identity already registered with different details", "DUPLICATE_IDENTITY")
		}
		return nil, GetServiceError(err)
	}

	s.notify(ctx, recipient, recipientNew, resetToken, cert)
	return cert, nil
}

// reconcileRecipient matches the supplied identity facts to an existing
// recipient by national id or email, creating a new account when neither
// matches. An organization reference must resolve or the whole issuance
// fails.
func (s *certificateService) reconcileRecipient(
	ctx context.Context,
	recipients repositories.RecipientRepository,
	organizations repositories.OrganizationRepository,
	facts *RecipientFacts,
) (*models.Recipient, bool, string, error) {
	recipient, err := recipients.FindByIdentity(ctx, facts.NationalID, facts.Email)
	if err != nil {
		return nil, false, "", NewInternalError("failed to look up recipient", err)
	}

	var (
		isNew      bool
		resetToken string
	)
	if recipient == nil {
		resetToken, err = newResetToken()
		if err != nil {
			return nil, false, "", NewInternalError("failed to provision recipient account", err)
		}
		recipient = &models.Recipient{
			FirstName:  facts.FirstName,
			LastName:   facts.LastName,
			Email:      facts.Email,
			NationalID: facts.NationalID,
			Phone:      facts.Phone,
			BirthDate:  facts.BirthDate,
			ResetToken: &resetToken,
		}
		if err := recipients.Create(ctx, recipient); err != nil {
			return nil, false, "", err
		}
		isNew = true
	}

	if facts.OrganizationID != nil && *facts.OrganizationID != "" {
		org, err := organizations.GetByID(ctx, *facts.OrganizationID)
		if err != nil {
			return nil, false, "", NewInternalError("failed to look up organization", err)
		}
		if org == nil {
			return nil, false, "", EntityNotFoundError("organization", *facts.OrganizationID)
		}
		if err := recipients.LinkOrganization(ctx, recipient.ID, org.ID); err != nil {
			return nil, false, "", NewInternalError("failed to link recipient to organization", err)
		}
		if recipient.OrganizationID == nil {
			if err := recipients.SetOrganization(ctx, recipient.ID, org.ID); err != nil {
				return nil, false, "", NewInternalError("failed to set recipient organization", err)
			}
			recipient.OrganizationID = &org.ID
		}
	}

	return recipient, isNew, resetToken, nil
}

// resolveTemplate picks the explicitly requested template or falls back
// to the badge's default. A badge without a usable template cannot issue.
func (s *certificateService) resolveTemplate(
	ctx context.Context,
	templates repositories.TemplateRepository,
	badgeID string,
	templateID *string,
) (*models.CertificateTemplate, error) {
	if templateID != nil && *templateID != "" {
		template, err := templates.GetByID(ctx, *templateID)
		if err != nil {
			return nil, NewInternalError("failed to load template", err)
		}
		if template == nil {
			return nil, EntityNotFoundError("template", *templateID)
		}
		if template.BadgeID != badgeID {
			return nil, NewValidationError("template does not belong to the requested badge", nil)
		}
		return template, nil
	}

	template, err := templates.GetDefaultForBadge(ctx, badgeID)
	if err != nil {
		return nil, NewInternalError("failed to resolve default template", err)
	}
	if template == nil {
		return nil, NewValidationError("badge has no default certificate template", nil)
	}
	return template, nil
}

// bakeBadgeImage embeds the assertion into the badge master image and
// records the result. Failures here are logged and swallowed so a broken
// or missing image never voids the already-persisted certificate.
func (s *certificateService) bakeBadgeImage(ctx context.Context, certificates repositories.CertificateRepository, cert *models.Certificate) {
	badge := cert.Badge
	if badge == nil || badge.ImagePath == "" {
		s.logger.Warn("skipping badge bake, badge has no master image",
			zap.String("certificate_id", cert.ID))
		return
	}

	assertion, err := s.assertions.Build(cert)
	if err != nil {
		s.logger.Warn("skipping badge bake, assertion could not be built",
			zap.String("certificate_id", cert.ID), zap.Error(err))
		return
	}
	payload, err := json.Marshal(assertion)
	if err != nil {
		s.logger.Warn("skipping badge bake, assertion could not be serialized",
			zap.String("certificate_id", cert.ID), zap.Error(err))
		return
	}

	sourcePath, err := s.localImagePath(badge.ImagePath)
	if err != nil {
		s.logger.Warn("skipping badge bake, badge image path is unusable",
			zap.String("certificate_id", cert.ID),
			zap.String("image_path", badge.ImagePath), zap.Error(err))
		return
	}

	bakedPath, err := s.baker.Bake(sourcePath, payload, cert.ID)
	if err != nil {
		s.logger.Warn("badge bake failed, certificate issued without baked image",
			zap.String("certificate_id", cert.ID), zap.Error(err))
		return
	}

	metadata := buildMetadataSnapshot(cert)
	if err := certificates.SetBakedImage(ctx, cert.ID, bakedPath, metadata); err != nil {
		s.logger.Warn("failed to record baked image",
			zap.String("certificate_id", cert.ID), zap.Error(err))
		return
	}
	cert.BakedImagePath = &bakedPath
	cert.Metadata = metadata
}

// localImagePath maps a badge image reference onto the uploads directory.
// Remote URLs resolve by filename, matching how uploads are stored.
func (s *certificateService) localImagePath(ref string) (string, error) {
	if !strings.HasPrefix(ref, "http") {
		return ref, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse image url %q: %w", ref, err)
	}
	return filepath.Join(s.uploadsDir, path.Base(u.Path)), nil
}

func buildMetadataSnapshot(cert *models.Certificate) *models.MetadataSnapshot {
	snapshot := &models.MetadataSnapshot{
		Recipient: models.MetadataRecipient{
			ID:         cert.Owner.ID,
			FirstName:  cert.Owner.FirstName,
			LastName:   cert.Owner.LastName,
			Email:      cert.Owner.Email,
			NationalID: cert.Owner.NationalID,
		},
		Badge: models.MetadataBadge{
			ID:          cert.Badge.ID,
			Name:        cert.Badge.Name,
			Description: cert.Badge.Description,
			ImagePath:   cert.Badge.ImagePath,
		},
	}
	if cert.Template != nil {
		snapshot.Template = models.MetadataTemplate{
			ID:             cert.Template.ID,
			Name:           cert.Template.Name,
			BackgroundPath: cert.Template.BackgroundPath,
		}
	}
	return snapshot
}

// notify sends the post-commit emails. Delivery problems are logged and
// never surfaced to the caller.
func (s *certificateService) notify(ctx context.Context, recipient *models.Recipient, recipientNew bool, resetToken string, cert *models.Certificate) {
	if recipientNew {
		if err := s.mail.SendWelcome(ctx, recipient, resetToken); err != nil {
			s.logger.Warn("welcome email failed",
				zap.String("recipient_id", recipient.ID), zap.Error(err))
		}
	}
	if err := s.mail.SendCertificateReady(ctx, recipient, cert); err != nil {
		s.logger.Warn("certificate-ready email failed",
			zap.String("recipient_id", recipient.ID),
			zap.String("certificate_id", cert.ID), zap.Error(err))
	}
}

func (s *certificateService) GetByID(ctx context.Context, id string) (*models.Certificate, error) {
	cert, err := s.repos.Certificates.GetWithRelations(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load certificate", err)
	}
	if cert == nil {
		return nil, EntityNotFoundError("certificate", id)
	}
	return cert, nil
}

func (s *certificateService) List(ctx context.Context, req *ListCertificatesRequest) ([]models.Certificate, int64, error) {
	req.Normalize()
	certs, total, err := s.repos.Certificates.List(ctx, repositories.CertificateFilter{
		ListParams: repositories.ListParams{
			Limit:  req.PageSize,
			Offset: req.Offset(),
			Search: req.Search,
		},
		BadgeID:        req.BadgeID,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		return nil, 0, NewInternalError("failed to list certificates", err)
	}
	return certs, total, nil
}

func (s *certificateService) ListByRecipient(ctx context.Context, recipientID string) ([]models.Certificate, error) {
	certs, err := s.repos.Certificates.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, NewInternalError("failed to list certificates", err)
	}
	return certs, nil
}

// RenderPDF composes the printable document on demand from live badge
// and template state plus the immutable recipient snapshot.
func (s *certificateService) RenderPDF(ctx context.Context, id string) ([]byte, error) {
	cert, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.Render(cert)
	if err != nil {
		switch {
		case isRenderInputError(err):
			return nil, NewValidationError(err.Error(), err)
		default:
			return nil, NewInternalError("failed to render certificate", err)
		}
	}
	return pdf, nil
}

func isRenderInputError(err error) bool {
	for _, sentinel := range []error{
		render.ErrNoTemplate,
		render.ErrNoOwner,
		render.ErrBackgroundNotFound,
		render.ErrInvalidIssuanceDate,
		render.ErrUnsupportedImage,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func (s *certificateService) BakedImagePath(ctx context.Context, id string) (string, error) {
	cert, err := s.repos.Certificates.GetByID(ctx, id)
	if err != nil {
		return "", NewInternalError("failed to load certificate", err)
	}
	if cert == nil {
		return "", EntityNotFoundError("certificate", id)
	}
	if cert.BakedImagePath == nil || *cert.BakedImagePath == "" {
		return "", NewNotFoundError("certificate has no baked badge image")
	}
	return *cert.BakedImagePath, nil
}

func (s *certificateService) Update(ctx context.Context, id string, req *UpdateCertificateRequest) (*models.Certificate, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	cert, err := s.repos.Certificates.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load certificate", err)
	}
	if cert == nil {
		return nil, EntityNotFoundError("certificate", id)
	}

	if req.RecipientID != nil {
		cert.RecipientID = *req.RecipientID
	}
	if req.TemplateID != nil {
		cert.TemplateID = req.TemplateID
	}
	if req.Status != nil {
		cert.Status = *req.Status
	}
	if req.ExpiresAt != nil {
		cert.ExpiresAt = req.ExpiresAt
	}

	if err := s.repos.Certificates.Update(ctx, cert); err != nil {
		if repositories.IsNotFound(err) {
			return nil, EntityNotFoundError("certificate", id)
		}
		return nil, NewInternalError("failed to update certificate", err)
	}
	return cert, nil
}

func (s *certificateService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Certificates.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return EntityNotFoundError("certificate", id)
		}
		return NewInternalError("failed to delete certificate", err)
	}
	return nil
}
