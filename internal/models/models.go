package models

import "time"

// ===============================
// ORGANIZATIONS
// ===============================

// Organization is the issuer of record for badges and certificates.
type Organization struct {
	ID           string    `json:"id" db:"id"`
	LegalName    string    `json:"legal_name" db:"legal_name"`
	TaxID        string    `json:"tax_id" db:"tax_id"`
	Website      *string   `json:"website,omitempty" db:"website"`
	ContactEmail *string   `json:"contact_email,omitempty" db:"contact_email"`
	SupportEmail *string   `json:"support_email,omitempty" db:"support_email"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ===============================
// RECIPIENTS
// ===============================

// Recipient is a person who can hold issued certificates. Identity is
// keyed by the (national id, email) pair; either one is enough to match
// an existing row during issuance.
type Recipient struct {
	ID             string     `json:"id" db:"id"`
	FirstName      string     `json:"first_name" db:"first_name"`
	LastName       string     `json:"last_name" db:"last_name"`
	Email          string     `json:"email" db:"email"`
	NationalID     string     `json:"national_id" db:"national_id"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	BirthDate      *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	OrganizationID *string    `json:"organization_id,omitempty" db:"organization_id"`
	PasswordHash   *string    `json:"-" db:"password_hash"`
	ResetToken     *string    `json:"-" db:"reset_token"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	// Hydrated relation, not a column
	Organization *Organization `json:"organization,omitempty" db:"-"`
}

// FullName returns the display name used on rendered certificates.
func (r *Recipient) FullName() string {
	return r.FirstName + " " + r.LastName
}

// ===============================
// BADGES
// ===============================

// Badge is a credential class. The issuance engine references badges but
// never mutates them.
type Badge struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	ImagePath   string    `json:"image_path" db:"image_path"`
	Tags        []string  `json:"tags" db:"tags"`
	Public      bool      `json:"public" db:"public"`
	IssuerID    string    `json:"issuer_id" db:"issuer_id"`
	OpenBadgeID *string   `json:"open_badge_id,omitempty" db:"open_badge_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Hydrated relations
	Issuer   *Organization `json:"issuer,omitempty" db:"-"`
	Skills   []Skill       `json:"skills,omitempty" db:"-"`
	Criteria []Criterion   `json:"criteria,omitempty" db:"-"`
}

// Skill is a competency a badge attests to.
type Skill struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Criterion is one requirement a recipient met to earn a badge.
type Criterion struct {
	ID          string `json:"id" db:"id"`
	BadgeID     string `json:"badge_id" db:"badge_id"`
	Description string `json:"description" db:"description"`
}

// ===============================
// CERTIFICATE TEMPLATES
// ===============================

// CertificateTemplate is a visual layout bound to exactly one badge.
// Coordinate fields are nullable; the renderer applies fixed fallbacks
// when they are unset. At most one template per badge may carry the
// default flag.
type CertificateTemplate struct {
	ID             string  `json:"id" db:"id"`
	BadgeID        string  `json:"badge_id" db:"badge_id"`
	Name           string  `json:"name" db:"name"`
	BackgroundPath *string `json:"background_path,omitempty" db:"background_path"`

	QRX     *float64 `json:"qr_x,omitempty" db:"qr_x"`
	QRY     *float64 `json:"qr_y,omitempty" db:"qr_y"`
	NameX   *float64 `json:"name_x,omitempty" db:"name_x"`
	NameY   *float64 `json:"name_y,omitempty" db:"name_y"`
	DateX   *float64 `json:"date_x,omitempty" db:"date_x"`
	DateY   *float64 `json:"date_y,omitempty" db:"date_y"`
	BadgeX  *float64 `json:"badge_x,omitempty" db:"badge_x"`
	BadgeY  *float64 `json:"badge_y,omitempty" db:"badge_y"`
	CertIDX *float64 `json:"cert_id_x,omitempty" db:"cert_id_x"`
	CertIDY *float64 `json:"cert_id_y,omitempty" db:"cert_id_y"`

	// Rich-text fragments carrying the style of each dynamic text element.
	NameContent *string `json:"name_content,omitempty" db:"name_content"`
	DateContent *string `json:"date_content,omitempty" db:"date_content"`

	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ===============================
// CERTIFICATES
// ===============================

// CertificateStatus is the lifecycle state of an issued certificate.
type CertificateStatus string

const (
	CertificatePending  CertificateStatus = "pending"
	CertificateAccepted CertificateStatus = "accepted"
	CertificateRejected CertificateStatus = "rejected"
)

// RecipientSnapshot is the name/email pair captured at issuance time.
// It is stored independently of the live Recipient row and never
// recomputed afterwards.
type RecipientSnapshot struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
}

// MetadataSnapshot is the denormalized copy of recipient/badge/template
// facts captured when the badge image is baked. Field names are part of
// the public verification contract and must not change.
type MetadataSnapshot struct {
	Recipient MetadataRecipient `json:"usuario"`
	Badge     MetadataBadge     `json:"badge"`
	Template  MetadataTemplate  `json:"plantilla"`
}

// MetadataRecipient is the recipient slice of the metadata snapshot.
type MetadataRecipient struct {
	ID         string `json:"id"`
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	Email      string `json:"email"`
	NationalID string `json:"dni"`
}

// MetadataBadge is the badge slice of the metadata snapshot.
type MetadataBadge struct {
	ID          string `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	ImagePath   string `json:"ruta_imagen"`
}

// MetadataTemplate is the template slice of the metadata snapshot.
type MetadataTemplate struct {
	ID             string  `json:"id"`
	Name           string  `json:"nombre"`
	BackgroundPath *string `json:"ruta_fondo"`
}

// Certificate is one issued instance of a badge bound to a recipient.
type Certificate struct {
	ID             string            `json:"id" db:"id"`
	RecipientID    string            `json:"recipient_id" db:"recipient_id"`
	BadgeID        string            `json:"badge_id" db:"badge_id"`
	TemplateID     *string           `json:"template_id,omitempty" db:"template_id"`
	Status         CertificateStatus `json:"status" db:"status"`
	BakedImagePath *string           `json:"baked_image_path,omitempty" db:"baked_image_path"`
	Snapshot       RecipientSnapshot `json:"recipient" db:"recipient_snapshot"`
	Metadata       *MetadataSnapshot `json:"metadata,omitempty" db:"metadata"`
	IssuedAt       time.Time         `json:"issued_at" db:"issued_at"`
	ExpiresAt      *time.Time        `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`

	// Hydrated relations
	Owner    *Recipient           `json:"owner,omitempty" db:"-"`
	Badge    *Badge               `json:"badge,omitempty" db:"-"`
	Template *CertificateTemplate `json:"template,omitempty" db:"-"`
}
