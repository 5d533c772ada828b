package repositories

import (
	"context"
	"database/sql"

	"certidigital/internal/models"
)

// ListParams carries the common pagination/search inputs.
type ListParams struct {
	Limit  int
	Offset int
	Search string
}

// CertificateFilter narrows certificate listings.
type CertificateFilter struct {
	ListParams
	BadgeID        string
	OrganizationID string
}

// OrganizationRepository persists issuing organizations.
type OrganizationRepository interface {
	WithTx(tx *sql.Tx) OrganizationRepository
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	List(ctx context.Context, params ListParams) ([]models.Organization, int64, error)
	Update(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, id string) error
}

// RecipientRepository persists recipient identities.
type RecipientRepository interface {
	WithTx(tx *sql.Tx) RecipientRepository
	Create(ctx context.Context, recipient *models.Recipient) error
	GetByID(ctx context.Context, id string) (*models.Recipient, error)
	// FindByIdentity matches an existing recipient by national id OR email.
	FindByIdentity(ctx context.Context, nationalID, email string) (*models.Recipient, error)
	GetByEmail(ctx context.Context, email string) (*models.Recipient, error)
	GetByResetToken(ctx context.Context, token string) (*models.Recipient, error)
	SetOrganization(ctx context.Context, recipientID, organizationID string) error
	LinkOrganization(ctx context.Context, recipientID, organizationID string) error
	SetPassword(ctx context.Context, recipientID, passwordHash string) error
	List(ctx context.Context, params ListParams) ([]models.Recipient, int64, error)
	Update(ctx context.Context, recipient *models.Recipient) error
	Delete(ctx context.Context, id string) error
}

// BadgeRepository persists badge classes.
type BadgeRepository interface {
	WithTx(tx *sql.Tx) BadgeRepository
	Create(ctx context.Context, badge *models.Badge) error
	GetByID(ctx context.Context, id string) (*models.Badge, error)
	// GetWithRelations hydrates issuer, skills and criteria.
	GetWithRelations(ctx context.Context, id string) (*models.Badge, error)
	List(ctx context.Context, params ListParams) ([]models.Badge, int64, error)
	Update(ctx context.Context, badge *models.Badge) error
	Delete(ctx context.Context, id string) error
}

// SkillRepository persists the shared skill catalog and its badge links.
type SkillRepository interface {
	WithTx(tx *sql.Tx) SkillRepository
	Create(ctx context.Context, skill *models.Skill) error
	GetByID(ctx context.Context, id string) (*models.Skill, error)
	GetByName(ctx context.Context, name string) (*models.Skill, error)
	List(ctx context.Context) ([]models.Skill, error)
	Delete(ctx context.Context, id string) error
	// ReplaceBadgeSkills swaps a badge's skill links for the given set.
	ReplaceBadgeSkills(ctx context.Context, badgeID string, skillIDs []string) error
}

// CriterionRepository persists badge criteria.
type CriterionRepository interface {
	WithTx(tx *sql.Tx) CriterionRepository
	Create(ctx context.Context, criterion *models.Criterion) error
	GetByID(ctx context.Context, id string) (*models.Criterion, error)
	List(ctx context.Context) ([]models.Criterion, error)
	ListByBadge(ctx context.Context, badgeID string) ([]models.Criterion, error)
	Update(ctx context.Context, criterion *models.Criterion) error
	Delete(ctx context.Context, id string) error
}

// TemplateRepository persists certificate templates.
type TemplateRepository interface {
	WithTx(tx *sql.Tx) TemplateRepository
	Create(ctx context.Context, template *models.CertificateTemplate) error
	GetByID(ctx context.Context, id string) (*models.CertificateTemplate, error)
	GetDefaultForBadge(ctx context.Context, badgeID string) (*models.CertificateTemplate, error)
	// DemoteDefaults clears the default flag on every template of the
	// badge except the one named, as a single conditional update.
	DemoteDefaults(ctx context.Context, badgeID, exceptID string) error
	List(ctx context.Context, params ListParams) ([]models.CertificateTemplate, int64, error)
	ListByBadge(ctx context.Context, badgeID string) ([]models.CertificateTemplate, error)
	Update(ctx context.Context, template *models.CertificateTemplate) error
	Delete(ctx context.Context, id string) error
}

// CertificateRepository persists issued certificates.
type CertificateRepository interface {
	WithTx(tx *sql.Tx) CertificateRepository
	Create(ctx context.Context, cert *models.Certificate) error
	GetByID(ctx context.Context, id string) (*models.Certificate, error)
	// GetWithRelations hydrates owner, badge (with issuer, skills and
	// criteria) and template.
	GetWithRelations(ctx context.Context, id string) (*models.Certificate, error)
	// SetBakedImage stores the baked-image path and metadata snapshot
	// produced by the baker.
	SetBakedImage(ctx context.Context, id, path string, metadata *models.MetadataSnapshot) error
	List(ctx context.Context, filter CertificateFilter) ([]models.Certificate, int64, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]models.Certificate, error)
	Update(ctx context.Context, cert *models.Certificate) error
	Delete(ctx context.Context, id string) error
}

// Collection bundles every repository for service wiring.
type Collection struct {
	Organizations OrganizationRepository
	Recipients    RecipientRepository
	Badges        BadgeRepository
	Skills        SkillRepository
	Criteria      CriterionRepository
	Templates     TemplateRepository
	Certificates  CertificateRepository
}
