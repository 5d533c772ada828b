package services

import (
	"context"
	"testing"
	"time"

	"certidigital/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func hydratedCertificate() *models.Certificate {
	return &models.Certificate{
		ID:          "abc-123",
		RecipientID: "rcpt-1",
		BadgeID:     "badge-1",
		Status:      models.CertificateAccepted,
		Snapshot:    models.RecipientSnapshot{Name: "Ada Lovelace", Email: "a@b.com"},
		IssuedAt:    time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Badge: &models.Badge{
			ID:          "badge-1",
			Name:        "Go Fundamentals",
			Description: "Awarded for mastering the basics",
			ImagePath:   "/uploads/badge-1.png",
			IssuerID:    "org-1",
		},
	}
}

func TestAssertionService_Assertion(t *testing.T) {
	cert := hydratedCertificate()
	repo := &mockCertificateRepo{
		getWithRelationsFn: func(ctx context.Context, id string) (*models.Certificate, error) {
			if id == cert.ID {
				return cert, nil
			}
			return nil, nil
		},
	}
	svc := NewAssertionService(repo, "https://api.example.com/", zap.NewNop())

	t.Run("builds the hosted document from the snapshot", func(t *testing.T) {
		assertion, err := svc.Assertion(context.Background(), "abc-123")
		require.NoError(t, err)

		assert.Equal(t, OpenBadgeContext, assertion.Context)
		assert.Equal(t, "Assertion", assertion.Type)
		assert.Equal(t, "https://api.example.com/api/v1/certificates/assertions/abc-123", assertion.ID)
		assert.Equal(t, "email", assertion.Recipient.Type)
		assert.False(t, assertion.Recipient.Hashed)
		assert.Equal(t, "a@b.com", assertion.Recipient.Identity)
		assert.Equal(t, "https://api.example.com/api/v1/badges/openbadge/badge-1.json", assertion.Badge)
		assert.Equal(t, "2026-03-14T09:26:53Z", assertion.IssuedOn)
		assert.Equal(t, "HostedBadge", assertion.Verification.Type)
		assert.Equal(t, "https://api.example.com/api/v1/organizations/org-1", assertion.Issuer)
	})

	t.Run("identity comes from the snapshot, not the live recipient", func(t *testing.T) {
		cert.Owner = &models.Recipient{ID: "rcpt-1", Email: "changed-later@b.com"}

		assertion, err := svc.Assertion(context.Background(), "abc-123")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", assertion.Recipient.Identity)
	})

	t.Run("unknown certificate returns not found", func(t *testing.T) {
		_, err := svc.Assertion(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("empty snapshot is an internal error", func(t *testing.T) {
		broken := hydratedCertificate()
		broken.Snapshot = models.RecipientSnapshot{}
		repo := &mockCertificateRepo{
			getWithRelationsFn: func(ctx context.Context, id string) (*models.Certificate, error) {
				return broken, nil
			},
		}
		svc := NewAssertionService(repo, "https://api.example.com", zap.NewNop())

		_, err := svc.Assertion(context.Background(), "abc-123")
		require.Error(t, err)
		assert.True(t, IsErrorType(err, "INTERNAL_ERROR"))
	})
}

func TestAssertionService_JSONLD(t *testing.T) {
	cert := hydratedCertificate()
	cert.Badge.Skills = []models.Skill{{ID: "sk-1", Name: "Concurrency"}}
	cert.Badge.Criteria = []models.Criterion{{ID: "cr-1", BadgeID: "badge-1", Description: "Completed the course"}}
	website := "https://issuer.example.com"
	contact := "hello@issuer.example.com"
	cert.Badge.Issuer = &models.Organization{
		ID:           "org-1",
		LegalName:    "Example Issuer",
		Website:      &website,
		ContactEmail: &contact,
	}

	repo := &mockCertificateRepo{
		getWithRelationsFn: func(ctx context.Context, id string) (*models.Certificate, error) {
			return cert, nil
		},
	}
	svc := NewAssertionService(repo, "https://api.example.com", zap.NewNop())

	doc, err := svc.JSONLD(context.Background(), "abc-123")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/api/v1/certificates/abc-123/jsonld", doc.ID)
	assert.Equal(t, "Ada Lovelace", doc.RecipientName)

	assert.Equal(t, "BadgeClass", doc.Badge.Type)
	assert.Equal(t, "Go Fundamentals", doc.Badge.Name)
	assert.Equal(t, "Awarded for mastering the basics", doc.Badge.Criteria.Narrative)
	require.Len(t, doc.Badge.Criteria.Details, 1)
	assert.Equal(t, "Completed the course", doc.Badge.Criteria.Details[0].Description)
	require.Len(t, doc.Badge.Skills, 1)
	assert.Equal(t, "Concurrency", doc.Badge.Skills[0].Name)

	assert.Equal(t, "Profile", doc.Badge.Issuer.Type)
	assert.Equal(t, "Example Issuer", doc.Badge.Issuer.Name)
	assert.Equal(t, website, doc.Badge.Issuer.URL)
	assert.Equal(t, contact, doc.Badge.Issuer.Email)
}

func TestAssertionService_Build(t *testing.T) {
	t.Run("composes without touching the repository", func(t *testing.T) {
		svc := NewAssertionService(nil, "https://api.example.com", zap.NewNop())

		assertion, err := svc.Build(hydratedCertificate())
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/api/v1/certificates/assertions/abc-123", assertion.ID)
	})

	t.Run("requires a hydrated badge", func(t *testing.T) {
		svc := NewAssertionService(nil, "https://api.example.com", zap.NewNop())
		cert := hydratedCertificate()
		cert.Badge = nil

		_, err := svc.Build(cert)
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})
}
