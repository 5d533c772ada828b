package services

import (
	"context"
	"strings"
	"time"

	"certidigital/internal/models"
	"certidigital/internal/repositories"

	"go.uber.org/zap"
)

type assertionService struct {
	certificates repositories.CertificateRepository
	apiURL       string
	logger       *zap.Logger
}

// NewAssertionService creates the verification-document builder. apiURL
// is the public base every document URL is rooted at.
func NewAssertionService(certificates repositories.CertificateRepository, apiURL string, logger *zap.Logger) AssertionService {
	return &assertionService{
		certificates: certificates,
		apiURL:       strings.TrimRight(apiURL, "/"),
		logger:       logger,
	}
}

func (s *assertionService) assertionURL(certificateID string) string {
	return s.apiURL + "/api/v1/certificates/assertions/" + certificateID
}

func (s *assertionService) jsonldURL(certificateID string) string {
	return s.apiURL + "/api/v1/certificates/" + certificateID + "/jsonld"
}

func (s *assertionService) badgeURL(badgeID string) string {
	return s.apiURL + "/api/v1/badges/openbadge/" + badgeID + ".json"
}

func (s *assertionService) issuerURL(organizationID string) string {
	return s.apiURL + "/api/v1/organizations/" + organizationID
}

// Assertion builds the compact OpenBadge document for a certificate.
// Identity comes from the immutable recipient snapshot, not the live
// recipient row, so later profile edits never change an issued document.
func (s *assertionService) Assertion(ctx context.Context, certificateID string) (*Assertion, error) {
	cert, err := s.certificates.GetWithRelations(ctx, certificateID)
	if err != nil {
		return nil, NewInternalError("failed to load certificate", err)
	}
	if cert == nil {
		return nil, EntityNotFoundError("certificate", certificateID)
	}
	if cert.Badge == nil {
		return nil, EntityNotFoundError("badge", cert.BadgeID)
	}
	if cert.Snapshot.Email == "" {
		return nil, NewInternalError("certificate recipient snapshot is missing or unreadable", nil)
	}

	return s.buildAssertion(cert), nil
}

// Build composes the assertion from a certificate hydrated by the
// caller, without touching the repositories.
func (s *assertionService) Build(cert *models.Certificate) (*Assertion, error) {
	if cert.Badge == nil {
		return nil, EntityNotFoundError("badge", cert.BadgeID)
	}
	if cert.Snapshot.Email == "" {
		return nil, NewInternalError("certificate recipient snapshot is missing or unreadable", nil)
	}
	return s.buildAssertion(cert), nil
}

func (s *assertionService) buildAssertion(cert *models.Certificate) *Assertion {
	return &Assertion{
		Context: OpenBadgeContext,
		Type:    "Assertion",
		ID:      s.assertionURL(cert.ID),
		Recipient: AssertionRecipient{
			Type:     "email",
			Hashed:   false,
			Identity: cert.Snapshot.Email,
		},
		Badge:        s.badgeURL(cert.BadgeID),
		IssuedOn:     cert.IssuedAt.UTC().Format(time.RFC3339),
		Verification: AssertionVerification{Type: "HostedBadge"},
		Issuer:       s.issuerURL(cert.Badge.IssuerID),
	}
}

// JSONLD builds the expanded document with the badge class, issuer,
// skills and criteria embedded inline.
func (s *assertionService) JSONLD(ctx context.Context, certificateID string) (*JSONLDDocument, error) {
	cert, err := s.certificates.GetWithRelations(ctx, certificateID)
	if err != nil {
		return nil, NewInternalError("failed to load certificate", err)
	}
	if cert == nil {
		return nil, EntityNotFoundError("certificate", certificateID)
	}
	if cert.Badge == nil {
		return nil, EntityNotFoundError("badge", cert.BadgeID)
	}
	if cert.Snapshot.Email == "" {
		return nil, NewInternalError("certificate recipient snapshot is missing or unreadable", nil)
	}

	return &JSONLDDocument{
		Context: OpenBadgeContext,
		Type:    "Assertion",
		ID:      s.jsonldURL(cert.ID),
		Recipient: AssertionRecipient{
			Type:     "email",
			Hashed:   false,
			Identity: cert.Snapshot.Email,
		},
		Badge:         s.buildBadgeClass(cert.Badge),
		Verification:  AssertionVerification{Type: "HostedBadge"},
		IssuedOn:      cert.IssuedAt.UTC().Format(time.RFC3339),
		RecipientName: cert.Snapshot.Name,
	}, nil
}

// BadgeClassFor projects a hydrated badge into its hosted class document.
func (s *assertionService) BadgeClassFor(badge *models.Badge) BadgeClass {
	return s.buildBadgeClass(badge)
}

func (s *assertionService) buildBadgeClass(badge *models.Badge) BadgeClass {
	skills := make([]SkillView, 0, len(badge.Skills))
	for _, skill := range badge.Skills {
		skills = append(skills, SkillView{ID: skill.ID, Name: skill.Name})
	}

	details := make([]CriterionView, 0, len(badge.Criteria))
	for _, criterion := range badge.Criteria {
		details = append(details, CriterionView{ID: criterion.ID, Description: criterion.Description})
	}

	class := BadgeClass{
		ID:          s.badgeURL(badge.ID),
		Type:        "BadgeClass",
		Name:        badge.Name,
		Description: badge.Description,
		Criteria: BadgeClassCriteria{
			Narrative: badge.Description,
			Details:   details,
		},
		Skills: skills,
		Image:  badge.ImagePath,
	}

	if badge.Issuer != nil {
		issuer := BadgeClassIssuer{
			ID:   s.issuerURL(badge.Issuer.ID),
			Type: "Profile",
			Name: badge.Issuer.LegalName,
		}
		if badge.Issuer.Website != nil {
			issuer.URL = *badge.Issuer.Website
		}
		if badge.Issuer.ContactEmail != nil {
			issuer.Email = *badge.Issuer.ContactEmail
		}
		class.Issuer = issuer
	}
	return class
}
