package services

import (
	"context"
	"testing"

	"certidigital/internal/models"
	"certidigital/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestRecipientService(recipients *mockRecipientRepo) RecipientService {
	repos := &repositories.Collection{
		Organizations: &mockOrganizationRepo{},
		Recipients:    recipients,
		Badges:        &mockBadgeRepo{},
		Templates:     &mockTemplateRepo{},
		Certificates:  &mockCertificateRepo{},
	}
	return NewRecipientService(repos, bcrypt.MinCost, zap.NewNop())
}

func TestRecipientService_Create(t *testing.T) {
	req := &CreateRecipientRequest{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		NationalID: "12345678A",
	}

	t.Run("new recipient gets a reset token", func(t *testing.T) {
		svc := newTestRecipientService(&mockRecipientRepo{})

		recipient, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "rcpt-new", recipient.ID)
		require.NotNil(t, recipient.ResetToken)
		assert.Len(t, *recipient.ResetToken, 64)
	})

	t.Run("duplicate identity conflicts", func(t *testing.T) {
		svc := newTestRecipientService(&mockRecipientRepo{
			findByIdentityFn: func(ctx context.Context, nationalID, email string) (*models.Recipient, error) {
				return &models.Recipient{ID: "rcpt-1"}, nil
			},
		})

		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.True(t, IsConflictError(err))
		assert.Equal(t, "DUPLICATE_IDENTITY", GetServiceError(err).Code)
	})

	t.Run("invalid email fails validation", func(t *testing.T) {
		svc := newTestRecipientService(&mockRecipientRepo{})
		bad := *req
		bad.Email = "not-an-email"

		_, err := svc.Create(context.Background(), &bad)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

func TestRecipientService_ResetPassword(t *testing.T) {
	t.Run("valid token stores a bcrypt hash", func(t *testing.T) {
		var storedID, storedHash string
		repo := &mockRecipientRepo{
			getByResetTokenFn: func(ctx context.Context, token string) (*models.Recipient, error) {
				return &models.Recipient{ID: "rcpt-1", Email: "ada@example.com"}, nil
			},
			setPasswordFn: func(ctx context.Context, recipientID, passwordHash string) error {
				storedID = recipientID
				storedHash = passwordHash
				return nil
			},
		}
		svc := newTestRecipientService(repo)

		err := svc.ResetPassword(context.Background(), &ResetPasswordRequest{
			Token:    "valid-token",
			Password: "correct horse",
		})
		require.NoError(t, err)
		assert.Equal(t, "rcpt-1", storedID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("correct horse")))
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		svc := newTestRecipientService(&mockRecipientRepo{})

		err := svc.ResetPassword(context.Background(), &ResetPasswordRequest{
			Token:    "expired",
			Password: "correct horse",
		})
		require.Error(t, err)
		assert.True(t, IsErrorType(err, "UNAUTHORIZED"))
	})

	t.Run("short password fails validation", func(t *testing.T) {
		svc := newTestRecipientService(&mockRecipientRepo{})

		err := svc.ResetPassword(context.Background(), &ResetPasswordRequest{
			Token:    "valid-token",
			Password: "short",
		})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}
