package services

import (
	"time"

	"certidigital/internal/models"
)

// ===============================
// PAGINATION
// ===============================

// ListRequest carries the common pagination/search inputs.
type ListRequest struct {
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	Search   string `json:"search"`
}

// Normalize applies pagination defaults.
func (r *ListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 20
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
}

// Offset returns the row offset for the current page.
func (r *ListRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// ===============================
// CERTIFICATES
// ===============================

// RecipientFacts is the identity payload supplied with an issuance
// request. The reconciler matches an existing recipient by national id
// or email before creating a new one.
type RecipientFacts struct {
	FirstName      string     `json:"first_name" validate:"required"`
	LastName       string     `json:"last_name" validate:"required"`
	Email          string     `json:"email" validate:"required,email"`
	NationalID     string     `json:"national_id" validate:"required"`
	Phone          *string    `json:"phone,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	OrganizationID *string    `json:"organization_id,omitempty"`
}

// IssueCertificateRequest is the inbound issuance contract.
type IssueCertificateRequest struct {
	BadgeID    string         `json:"badge_id" validate:"required"`
	TemplateID *string        `json:"template_id,omitempty"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty"`
	Recipient  RecipientFacts `json:"recipient" validate:"required"`
}

// UpdateCertificateRequest carries administrative certificate edits.
// The recipient snapshot and metadata are immutable and not editable.
type UpdateCertificateRequest struct {
	RecipientID *string                   `json:"recipient_id,omitempty"`
	TemplateID  *string                   `json:"template_id,omitempty"`
	Status      *models.CertificateStatus `json:"status,omitempty" validate:"omitempty,oneof=pending accepted rejected"`
	ExpiresAt   *time.Time                `json:"expires_at,omitempty"`
}

// ListCertificatesRequest narrows certificate listings.
type ListCertificatesRequest struct {
	ListRequest
	BadgeID        string `json:"badge_id"`
	OrganizationID string `json:"organization_id"`
}

// ===============================
// ASSERTION DOCUMENTS
// ===============================

// OpenBadgeContext is the JSON-LD context every verification document
// declares.
const OpenBadgeContext = "https://w3id.org/openbadges/v2"

// AssertionRecipient identifies who a credential was issued to.
type AssertionRecipient struct {
	Type     string `json:"type"`
	Hashed   bool   `json:"hashed"`
	Identity string `json:"identity"`
}

// AssertionVerification names the verification method.
type AssertionVerification struct {
	Type string `json:"type"`
}

// Assertion is the compact OpenBadge v2 document baked into badge
// images and served from the assertion endpoint. Field shapes are a
// public contract for third-party badge viewers.
type Assertion struct {
	Context      string                `json:"@context"`
	Type         string                `json:"type"`
	ID           string                `json:"id"`
	Recipient    AssertionRecipient    `json:"recipient"`
	Badge        string                `json:"badge"`
	IssuedOn     string                `json:"issuedOn"`
	Verification AssertionVerification `json:"verification"`
	Issuer       string                `json:"issuer"`
}

// BadgeClassIssuer is the embedded issuer object of the expanded view.
type BadgeClassIssuer struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Email string `json:"email"`
}

// BadgeClassCriteria carries the badge's narrative plus the resolved
// criteria list.
type BadgeClassCriteria struct {
	Narrative string          `json:"narrative"`
	Details   []CriterionView `json:"detalles"`
}

// CriterionView is one resolved criterion in the expanded view.
type CriterionView struct {
	ID          string `json:"id"`
	Description string `json:"descripcion"`
}

// SkillView is one resolved skill in the expanded view.
type SkillView struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// BadgeClass is the embedded badge object of the expanded view.
type BadgeClass struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Criteria    BadgeClassCriteria `json:"criteria"`
	Skills      []SkillView        `json:"skills"`
	Issuer      BadgeClassIssuer   `json:"issuer"`
	Image       string             `json:"image"`
}

// JSONLDDocument is the expanded, human/verifier-facing document served
// from the JSON-LD endpoint.
type JSONLDDocument struct {
	Context       string                `json:"@context"`
	Type          string                `json:"type"`
	ID            string                `json:"id"`
	Recipient     AssertionRecipient    `json:"recipient"`
	Badge         BadgeClass            `json:"badge"`
	Verification  AssertionVerification `json:"verification"`
	IssuedOn      string                `json:"issuedOn"`
	RecipientName string                `json:"recipientName"`
}

// ===============================
// BADGES
// ===============================

// CreateBadgeRequest creates a badge class.
type CreateBadgeRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	ImagePath   string   `json:"image_path"`
	Tags        []string `json:"tags"`
	Public      bool     `json:"public"`
	IssuerID    string   `json:"issuer_id" validate:"required"`
	OpenBadgeID *string  `json:"open_badge_id,omitempty"`
}

// UpdateBadgeRequest edits a badge class.
type UpdateBadgeRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImagePath   *string  `json:"image_path,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Public      *bool    `json:"public,omitempty"`
	OpenBadgeID *string  `json:"open_badge_id,omitempty"`
}

// SetBadgeSkillsRequest replaces a badge's skill links. An empty set
// detaches every skill.
type SetBadgeSkillsRequest struct {
	SkillIDs []string `json:"skill_ids" validate:"dive,required"`
}

// ===============================
// SKILLS AND CRITERIA
// ===============================

// CreateSkillRequest adds a skill to the shared catalog.
type CreateSkillRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateCriterionRequest attaches a new criterion to a badge.
type CreateCriterionRequest struct {
	BadgeID     string `json:"badge_id" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// UpdateCriterionRequest edits a criterion's description.
type UpdateCriterionRequest struct {
	Description *string `json:"description,omitempty"`
}

// ===============================
// TEMPLATES
// ===============================

// TemplateLayout carries the coordinate and style configuration of a
// template.
type TemplateLayout struct {
	QRX         *float64 `json:"qr_x,omitempty"`
	QRY         *float64 `json:"qr_y,omitempty"`
	NameX       *float64 `json:"name_x,omitempty"`
	NameY       *float64 `json:"name_y,omitempty"`
	DateX       *float64 `json:"date_x,omitempty"`
	DateY       *float64 `json:"date_y,omitempty"`
	BadgeX      *float64 `json:"badge_x,omitempty"`
	BadgeY      *float64 `json:"badge_y,omitempty"`
	CertIDX     *float64 `json:"cert_id_x,omitempty"`
	CertIDY     *float64 `json:"cert_id_y,omitempty"`
	NameContent *string  `json:"name_content,omitempty"`
	DateContent *string  `json:"date_content,omitempty"`
}

// CreateTemplateRequest creates a certificate template.
type CreateTemplateRequest struct {
	BadgeID        string  `json:"badge_id" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	BackgroundPath *string `json:"background_path,omitempty"`
	IsDefault      bool    `json:"is_default"`
	TemplateLayout
}

// UpdateTemplateRequest edits a certificate template.
type UpdateTemplateRequest struct {
	Name           *string `json:"name,omitempty"`
	BackgroundPath *string `json:"background_path,omitempty"`
	IsDefault      *bool   `json:"is_default,omitempty"`
	TemplateLayout
}

// ===============================
// RECIPIENTS
// ===============================

// CreateRecipientRequest creates a recipient directly (outside issuance).
type CreateRecipientRequest struct {
	FirstName      string     `json:"first_name" validate:"required"`
	LastName       string     `json:"last_name" validate:"required"`
	Email          string     `json:"email" validate:"required,email"`
	NationalID     string     `json:"national_id" validate:"required"`
	Phone          *string    `json:"phone,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	OrganizationID *string    `json:"organization_id,omitempty"`
}

// UpdateRecipientRequest edits a recipient.
type UpdateRecipientRequest struct {
	FirstName      *string    `json:"first_name,omitempty"`
	LastName       *string    `json:"last_name,omitempty"`
	Email          *string    `json:"email,omitempty" validate:"omitempty,email"`
	NationalID     *string    `json:"national_id,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	OrganizationID *string    `json:"organization_id,omitempty"`
}

// ResetPasswordRequest redeems a credential-reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// ===============================
// ORGANIZATIONS
// ===============================

// CreateOrganizationRequest creates an issuing organization.
type CreateOrganizationRequest struct {
	LegalName    string  `json:"legal_name" validate:"required"`
	TaxID        string  `json:"tax_id" validate:"required"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	SupportEmail *string `json:"support_email,omitempty" validate:"omitempty,email"`
}

// UpdateOrganizationRequest edits an issuing organization.
type UpdateOrganizationRequest struct {
	LegalName    *string `json:"legal_name,omitempty"`
	TaxID        *string `json:"tax_id,omitempty"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	SupportEmail *string `json:"support_email,omitempty" validate:"omitempty,email"`
}

// ===============================
// AUTH
// ===============================

// LoginRequest authenticates a recipient account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Recipient *models.Recipient `json:"recipient"`
}
