package services

import (
	"context"
	"testing"

	"certidigital/internal/config"
	"certidigital/internal/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMailService_DisabledDelivery(t *testing.T) {
	svc := NewMailService(&config.MailConfig{Enabled: false}, "https://certs.example.com/", zap.NewNop())

	recipient := &models.Recipient{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	}

	// Disabled delivery drops the message instead of failing, so issuance
	// keeps working in environments without an SMTP relay.
	assert.NoError(t, svc.Send(context.Background(), "ada@example.com", "subject", "body"))
	assert.NoError(t, svc.SendWelcome(context.Background(), recipient, "token-123"))
	assert.NoError(t, svc.SendCertificateReady(context.Background(), recipient, &models.Certificate{ID: "cert-1"}))
}
