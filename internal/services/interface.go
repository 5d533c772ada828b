package services

import (
	"context"
	"io"

	"certidigital/internal/models"
)

// CertificateService orchestrates issuance and the certificate lifecycle.
type CertificateService interface {
	// Issue runs the transactional issuance pipeline: recipient
	// reconciliation, badge and template resolution, certificate
	// persistence and badge baking, followed by post-commit notifications.
	Issue(ctx context.Context, req *IssueCertificateRequest) (*models.Certificate, error)
	GetByID(ctx context.Context, id string) (*models.Certificate, error)
	List(ctx context.Context, req *ListCertificatesRequest) ([]models.Certificate, int64, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]models.Certificate, error)
	// RenderPDF produces the printable certificate document on demand.
	RenderPDF(ctx context.Context, id string) ([]byte, error)
	// BakedImagePath resolves the on-disk baked badge image for download.
	BakedImagePath(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, id string, req *UpdateCertificateRequest) (*models.Certificate, error)
	Delete(ctx context.Context, id string) error
}

// AssertionService produces the verification documents for issued
// certificates.
type AssertionService interface {
	// Assertion builds the compact OpenBadge document for a certificate.
	Assertion(ctx context.Context, certificateID string) (*Assertion, error)
	// Build composes the assertion from an already-hydrated certificate,
	// for callers holding uncommitted state the repositories cannot see.
	Build(cert *models.Certificate) (*Assertion, error)
	// JSONLD builds the expanded document with the badge, issuer, skills
	// and criteria embedded.
	JSONLD(ctx context.Context, certificateID string) (*JSONLDDocument, error)
	// BadgeClassFor projects a hydrated badge into its hosted class
	// document.
	BadgeClassFor(badge *models.Badge) BadgeClass
}

// TemplateService manages certificate templates and the per-badge
// default invariant.
type TemplateService interface {
	Create(ctx context.Context, req *CreateTemplateRequest) (*models.CertificateTemplate, error)
	GetByID(ctx context.Context, id string) (*models.CertificateTemplate, error)
	List(ctx context.Context, req *ListRequest) ([]models.CertificateTemplate, int64, error)
	ListByBadge(ctx context.Context, badgeID string) ([]models.CertificateTemplate, error)
	// ResolveDefault returns the default template of a badge, or nil when
	// the badge has none.
	ResolveDefault(ctx context.Context, badgeID string) (*models.CertificateTemplate, error)
	Update(ctx context.Context, id string, req *UpdateTemplateRequest) (*models.CertificateTemplate, error)
	Delete(ctx context.Context, id string) error
}

// RecipientService manages recipient identities and credentials.
type RecipientService interface {
	Create(ctx context.Context, req *CreateRecipientRequest) (*models.Recipient, error)
	GetByID(ctx context.Context, id string) (*models.Recipient, error)
	List(ctx context.Context, req *ListRequest) ([]models.Recipient, int64, error)
	Update(ctx context.Context, id string, req *UpdateRecipientRequest) (*models.Recipient, error)
	Delete(ctx context.Context, id string) error
	// ResetPassword redeems a reset token and stores the new credential.
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
}

// BadgeService manages badge classes and their public metadata.
type BadgeService interface {
	Create(ctx context.Context, req *CreateBadgeRequest) (*models.Badge, error)
	GetByID(ctx context.Context, id string) (*models.Badge, error)
	List(ctx context.Context, req *ListRequest) ([]models.Badge, int64, error)
	Update(ctx context.Context, id string, req *UpdateBadgeRequest) (*models.Badge, error)
	Delete(ctx context.Context, id string) error
	// BadgeClass builds the hosted OpenBadge class document for a badge.
	BadgeClass(ctx context.Context, id string) (*BadgeClass, error)
	// SetSkills replaces the badge's skill links with the given set.
	SetSkills(ctx context.Context, badgeID string, req *SetBadgeSkillsRequest) (*models.Badge, error)
}

// SkillService manages the shared skill catalog.
type SkillService interface {
	// Create adds a skill, returning the existing one when the name is
	// already taken.
	Create(ctx context.Context, req *CreateSkillRequest) (*models.Skill, error)
	List(ctx context.Context) ([]models.Skill, error)
	Delete(ctx context.Context, id string) error
}

// CriterionService manages the criteria attached to badges.
type CriterionService interface {
	Create(ctx context.Context, req *CreateCriterionRequest) (*models.Criterion, error)
	GetByID(ctx context.Context, id string) (*models.Criterion, error)
	List(ctx context.Context) ([]models.Criterion, error)
	ListByBadge(ctx context.Context, badgeID string) ([]models.Criterion, error)
	Update(ctx context.Context, id string, req *UpdateCriterionRequest) (*models.Criterion, error)
	Delete(ctx context.Context, id string) error
}

// OrganizationService manages issuing organizations.
type OrganizationService interface {
	Create(ctx context.Context, req *CreateOrganizationRequest) (*models.Organization, error)
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	List(ctx context.Context, req *ListRequest) ([]models.Organization, int64, error)
	Update(ctx context.Context, id string, req *UpdateOrganizationRequest) (*models.Organization, error)
	Delete(ctx context.Context, id string) error
}

// AuthService authenticates recipient accounts.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	// VerifyToken validates a bearer token and returns the subject id.
	VerifyToken(token string) (string, error)
}

// MailService sends transactional notifications. Implementations must
// be safe to call after the issuance transaction commits.
type MailService interface {
	Send(ctx context.Context, to, subject, body string) error
	SendWelcome(ctx context.Context, recipient *models.Recipient, resetToken string) error
	SendCertificateReady(ctx context.Context, recipient *models.Recipient, cert *models.Certificate) error
}

// FileService stores uploaded assets on the local filesystem.
type FileService interface {
	// Save writes the upload under a collision-free name and returns the
	// public path it will be served from.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, publicPath string) error
}
