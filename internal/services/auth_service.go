package services

import (
	"context"
	"fmt"
	"time"

	"certidigital/internal/config"
	"certidigital/internal/repositories"
	"certidigital/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	recipients repositories.RecipientRepository
	cfg        *config.AuthConfig
	logger     *zap.Logger
}

// NewAuthService creates the token issuer for recipient accounts.
func NewAuthService(recipients repositories.RecipientRepository, cfg *config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{recipients: recipients, cfg: cfg, logger: logger}
}

// Login verifies the credential and issues a signed bearer token. Wrong
// email and wrong password answer identically.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	recipient, err := s.recipients.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewInternalError("failed to look up account", err)
	}
	if recipient == nil || recipient.PasswordHash == nil {
		return nil, NewUnauthorizedError("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*recipient.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewUnauthorizedError("invalid email or password")
	}

	expiresAt := time.Now().Add(s.cfg.JWTExpiry)
	claims := jwt.RegisteredClaims{
		Subject:   recipient.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, NewInternalError("failed to sign token", err)
	}

	s.logger.Info("recipient logged in", zap.String("recipient_id", recipient.ID))
	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Recipient: recipient,
	}, nil
}

// VerifyToken validates a bearer token and returns its subject id.
func (s *authService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", NewUnauthorizedError("invalid token claims")
	}
	return claims.Subject, nil
}
