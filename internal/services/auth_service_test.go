package services

import (
	"context"
	"testing"
	"time"

	"certidigital/internal/config"
	"certidigital/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BCryptCost: bcrypt.MinCost,
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	account := &models.Recipient{
		ID:           "rcpt-1",
		Email:        "ada@example.com",
		PasswordHash: &hashStr,
	}
	repo := &mockRecipientRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.Recipient, error) {
			if email == account.Email {
				return account, nil
			}
			return nil, nil
		},
	}
	svc := NewAuthService(repo, testAuthConfig(), zap.NewNop())

	t.Run("valid credentials issue a verifiable token", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "ada@example.com",
			Password: "correct horse",
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)
		assert.Equal(t, "rcpt-1", resp.Recipient.ID)
		assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

		subject, err := svc.VerifyToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "rcpt-1", subject)
	})

	t.Run("wrong password and unknown email answer identically", func(t *testing.T) {
		_, errWrongPassword := svc.Login(context.Background(), &LoginRequest{
			Email:    "ada@example.com",
			Password: "wrong",
		})
		_, errUnknownEmail := svc.Login(context.Background(), &LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct horse",
		})

		require.Error(t, errWrongPassword)
		require.Error(t, errUnknownEmail)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
		assert.True(t, IsErrorType(errWrongPassword, "UNAUTHORIZED"))
	})

	t.Run("account without a password cannot log in", func(t *testing.T) {
		pending := &models.Recipient{ID: "rcpt-2", Email: "new@example.com"}
		repo := &mockRecipientRepo{
			getByEmailFn: func(ctx context.Context, email string) (*models.Recipient, error) {
				return pending, nil
			},
		}
		svc := NewAuthService(repo, testAuthConfig(), zap.NewNop())

		_, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "new@example.com",
			Password: "anything",
		})
		require.Error(t, err)
		assert.True(t, IsErrorType(err, "UNAUTHORIZED"))
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &LoginRequest{Email: "not-an-email"})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	svc := NewAuthService(&mockRecipientRepo{}, testAuthConfig(), zap.NewNop())

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")
		require.Error(t, err)
		assert.True(t, IsErrorType(err, "UNAUTHORIZED"))
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		otherCfg := testAuthConfig()
		otherCfg.JWTSecret = "different-secret"
		other := NewAuthService(&mockRecipientRepo{}, otherCfg, zap.NewNop())

		hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
		require.NoError(t, err)
		hashStr := string(hash)
		repo := &mockRecipientRepo{
			getByEmailFn: func(ctx context.Context, email string) (*models.Recipient, error) {
				return &models.Recipient{ID: "rcpt-1", Email: email, PasswordHash: &hashStr}, nil
			},
		}
		issuer := NewAuthService(repo, otherCfg, zap.NewNop())
		resp, err := issuer.Login(context.Background(), &LoginRequest{Email: "a@b.com", Password: "pw123456"})
		require.NoError(t, err)

		_, err = svc.VerifyToken(resp.Token)
		require.Error(t, err)
		_, err = other.VerifyToken(resp.Token)
		require.NoError(t, err)
	})
}
