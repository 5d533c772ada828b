package services

import (
	"context"
	"database/sql"
	"time"

	"certidigital/internal/models"
	"certidigital/internal/repositories"
)

// Hand-written repository mocks shared by the service tests. Behavior is
// injected through function fields; unset functions return zero values.

func testRepoCollection(certs repositories.CertificateRepository) *repositories.Collection {
	return &repositories.Collection{
		Organizations: &mockOrganizationRepo{},
		Recipients:    &mockRecipientRepo{},
		Badges:        &mockBadgeRepo{},
		Skills:        &mockSkillRepo{},
		Criteria:      &mockCriterionRepo{},
		Templates:     &mockTemplateRepo{},
		Certificates:  certs,
	}
}

// mockCache records invalidations; reads always miss.
type mockCache struct {
	deleted []string
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}

func (m *mockCache) Delete(ctx context.Context, key string) {
	m.deleted = append(m.deleted, key)
}

func (m *mockCache) Close() error { return nil }

type mockRecipientRepo struct {
	findByIdentityFn  func(ctx context.Context, nationalID, email string) (*models.Recipient, error)
	createFn          func(ctx context.Context, recipient *models.Recipient) error
	getByIDFn         func(ctx context.Context, id string) (*models.Recipient, error)
	getByEmailFn      func(ctx context.Context, email string) (*models.Recipient, error)
	getByResetTokenFn func(ctx context.Context, token string) (*models.Recipient, error)
	setPasswordFn     func(ctx context.Context, recipientID, passwordHash string) error

	linkedOrgs []string
	primaryOrg string
}

func (m *mockRecipientRepo) WithTx(tx *sql.Tx) repositories.RecipientRepository { return m }

func (m *mockRecipientRepo) Create(ctx context.Context, recipient *models.Recipient) error {
	if m.createFn != nil {
		return m.createFn(ctx, recipient)
	}
	recipient.ID = "rcpt-new"
	return nil
}

func (m *mockRecipientRepo) GetByID(ctx context.Context, id string) (*models.Recipient, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRecipientRepo) FindByIdentity(ctx context.Context, nationalID, email string) (*models.Recipient, error) {
	if m.findByIdentityFn != nil {
		return m.findByIdentityFn(ctx, nationalID, email)
	}
	return nil, nil
}

func (m *mockRecipientRepo) GetByEmail(ctx context.Context, email string) (*models.Recipient, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockRecipientRepo) GetByResetToken(ctx context.Context, token string) (*models.Recipient, error) {
	if m.getByResetTokenFn != nil {
		return m.getByResetTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockRecipientRepo) SetOrganization(ctx context.Context, recipientID, organizationID string) error {
	m.primaryOrg = organizationID
	return nil
}

func (m *mockRecipientRepo) LinkOrganization(ctx context.Context, recipientID, organizationID string) error {
	m.linkedOrgs = append(m.linkedOrgs, organizationID)
	return nil
}

func (m *mockRecipientRepo) SetPassword(ctx context.Context, recipientID, passwordHash string) error {
	if m.setPasswordFn != nil {
		return m.setPasswordFn(ctx, recipientID, passwordHash)
	}
	return nil
}

func (m *mockRecipientRepo) List(ctx context.Context, params repositories.ListParams) ([]models.Recipient, int64, error) {
	return nil, 0, nil
}

func (m *mockRecipientRepo) Update(ctx context.Context, recipient *models.Recipient) error {
	return nil
}

func (m *mockRecipientRepo) Delete(ctx context.Context, id string) error { return nil }

type mockOrganizationRepo struct {
	getByIDFn func(ctx context.Context, id string) (*models.Organization, error)
}

func (m *mockOrganizationRepo) WithTx(tx *sql.Tx) repositories.OrganizationRepository { return m }

func (m *mockOrganizationRepo) Create(ctx context.Context, org *models.Organization) error {
	return nil
}

func (m *mockOrganizationRepo) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockOrganizationRepo) List(ctx context.Context, params repositories.ListParams) ([]models.Organization, int64, error) {
	return nil, 0, nil
}

func (m *mockOrganizationRepo) Update(ctx context.Context, org *models.Organization) error {
	return nil
}

func (m *mockOrganizationRepo) Delete(ctx context.Context, id string) error { return nil }

type mockBadgeRepo struct {
	getByIDFn          func(ctx context.Context, id string) (*models.Badge, error)
	getWithRelationsFn func(ctx context.Context, id string) (*models.Badge, error)
}

func (m *mockBadgeRepo) WithTx(tx *sql.Tx) repositories.BadgeRepository { return m }

func (m *mockBadgeRepo) Create(ctx context.Context, badge *models.Badge) error { return nil }

func (m *mockBadgeRepo) GetByID(ctx context.Context, id string) (*models.Badge, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockBadgeRepo) GetWithRelations(ctx context.Context, id string) (*models.Badge, error) {
	if m.getWithRelationsFn != nil {
		return m.getWithRelationsFn(ctx, id)
	}
	return nil, nil
}

func (m *mockBadgeRepo) List(ctx context.Context, params repositories.ListParams) ([]models.Badge, int64, error) {
	return nil, 0, nil
}

func (m *mockBadgeRepo) Update(ctx context.Context, badge *models.Badge) error { return nil }

func (m *mockBadgeRepo) Delete(ctx context.Context, id string) error { return nil }

type mockTemplateRepo struct {
	getByIDFn            func(ctx context.Context, id string) (*models.CertificateTemplate, error)
	getDefaultForBadgeFn func(ctx context.Context, badgeID string) (*models.CertificateTemplate, error)
	createFn             func(ctx context.Context, template *models.CertificateTemplate) error
	updateFn             func(ctx context.Context, template *models.CertificateTemplate) error

	ops             []string
	demotedBadgeID  string
	demotedExceptID string
}

func (m *mockTemplateRepo) WithTx(tx *sql.Tx) repositories.TemplateRepository { return m }

func (m *mockTemplateRepo) Create(ctx context.Context, template *models.CertificateTemplate) error {
	m.ops = append(m.ops, "create")
	if m.createFn != nil {
		return m.createFn(ctx, template)
	}
	return nil
}

func (m *mockTemplateRepo) GetByID(ctx context.Context, id string) (*models.CertificateTemplate, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTemplateRepo) GetDefaultForBadge(ctx context.Context, badgeID string) (*models.CertificateTemplate, error) {
	if m.getDefaultForBadgeFn != nil {
		return m.getDefaultForBadgeFn(ctx, badgeID)
	}
	return nil, nil
}

func (m *mockTemplateRepo) DemoteDefaults(ctx context.Context, badgeID, exceptID string) error {
	m.ops = append(m.ops, "demote")
	m.demotedBadgeID = badgeID
	m.demotedExceptID = exceptID
	return nil
}

func (m *mockTemplateRepo) List(ctx context.Context, params repositories.ListParams) ([]models.CertificateTemplate, int64, error) {
	return nil, 0, nil
}

func (m *mockTemplateRepo) ListByBadge(ctx context.Context, badgeID string) ([]models.CertificateTemplate, error) {
	return nil, nil
}

func (m *mockTemplateRepo) Update(ctx context.Context, template *models.CertificateTemplate) error {
	m.ops = append(m.ops, "update")
	if m.updateFn != nil {
		return m.updateFn(ctx, template)
	}
	return nil
}

func (m *mockTemplateRepo) Delete(ctx context.Context, id string) error { return nil }

type mockSkillRepo struct {
	createFn    func(ctx context.Context, skill *models.Skill) error
	getByNameFn func(ctx context.Context, name string) (*models.Skill, error)
	listFn      func(ctx context.Context) ([]models.Skill, error)
	deleteFn    func(ctx context.Context, id string) error
	replaceFn   func(ctx context.Context, badgeID string, skillIDs []string) error

	replacedBadgeID  string
	replacedSkillIDs []string
}

func (m *mockSkillRepo) WithTx(tx *sql.Tx) repositories.SkillRepository { return m }

func (m *mockSkillRepo) Create(ctx context.Context, skill *models.Skill) error {
	if m.createFn != nil {
		return m.createFn(ctx, skill)
	}
	skill.ID = "skill-new"
	return nil
}

func (m *mockSkillRepo) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	return nil, nil
}

func (m *mockSkillRepo) GetByName(ctx context.Context, name string) (*models.Skill, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, nil
}

func (m *mockSkillRepo) List(ctx context.Context) ([]models.Skill, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockSkillRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockSkillRepo) ReplaceBadgeSkills(ctx context.Context, badgeID string, skillIDs []string) error {
	m.replacedBadgeID = badgeID
	m.replacedSkillIDs = skillIDs
	if m.replaceFn != nil {
		return m.replaceFn(ctx, badgeID, skillIDs)
	}
	return nil
}

type mockCriterionRepo struct {
	createFn      func(ctx context.Context, criterion *models.Criterion) error
	getByIDFn     func(ctx context.Context, id string) (*models.Criterion, error)
	listByBadgeFn func(ctx context.Context, badgeID string) ([]models.Criterion, error)
	updateFn      func(ctx context.Context, criterion *models.Criterion) error
	deleteFn      func(ctx context.Context, id string) error
}

func (m *mockCriterionRepo) WithTx(tx *sql.Tx) repositories.CriterionRepository { return m }

func (m *mockCriterionRepo) Create(ctx context.Context, criterion *models.Criterion) error {
	if m.createFn != nil {
		return m.createFn(ctx, criterion)
	}
	criterion.ID = "crit-new"
	return nil
}

func (m *mockCriterionRepo) GetByID(ctx context.Context, id string) (*models.Criterion, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCriterionRepo) List(ctx context.Context) ([]models.Criterion, error) {
	return nil, nil
}

func (m *mockCriterionRepo) ListByBadge(ctx context.Context, badgeID string) ([]models.Criterion, error) {
	if m.listByBadgeFn != nil {
		return m.listByBadgeFn(ctx, badgeID)
	}
	return nil, nil
}

func (m *mockCriterionRepo) Update(ctx context.Context, criterion *models.Criterion) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, criterion)
	}
	return nil
}

func (m *mockCriterionRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockCertificateRepo struct {
	getByIDFn          func(ctx context.Context, id string) (*models.Certificate, error)
	getWithRelationsFn func(ctx context.Context, id string) (*models.Certificate, error)
	createFn           func(ctx context.Context, cert *models.Certificate) error
}

func (m *mockCertificateRepo) WithTx(tx *sql.Tx) repositories.CertificateRepository { return m }

func (m *mockCertificateRepo) Create(ctx context.Context, cert *models.Certificate) error {
	if m.createFn != nil {
		return m.createFn(ctx, cert)
	}
	return nil
}

func (m *mockCertificateRepo) GetByID(ctx context.Context, id string) (*models.Certificate, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCertificateRepo) GetWithRelations(ctx context.Context, id string) (*models.Certificate, error) {
	if m.getWithRelationsFn != nil {
		return m.getWithRelationsFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCertificateRepo) SetBakedImage(ctx context.Context, id, path string, metadata *models.MetadataSnapshot) error {
	return nil
}

func (m *mockCertificateRepo) List(ctx context.Context, filter repositories.CertificateFilter) ([]models.Certificate, int64, error) {
	return nil, 0, nil
}

func (m *mockCertificateRepo) ListByRecipient(ctx context.Context, recipientID string) ([]models.Certificate, error) {
	return nil, nil
}

func (m *mockCertificateRepo) Update(ctx context.Context, cert *models.Certificate) error {
	return nil
}

func (m *mockCertificateRepo) Delete(ctx context.Context, id string) error { return nil }
