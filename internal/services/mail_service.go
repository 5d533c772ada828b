package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"certidigital/internal/config"
	"certidigital/internal/models"

	"go.uber.org/zap"
)

type mailService struct {
	cfg       *config.MailConfig
	publicURL string
	logger    *zap.Logger
}

// NewMailService creates the SMTP notifier. With delivery disabled every
// send is logged and dropped, which keeps local development quiet.
func NewMailService(cfg *config.MailConfig, publicURL string, logger *zap.Logger) MailService {
	return &mailService{
		cfg:       cfg,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func (s *mailService) Send(ctx context.Context, to, subject, body string) error {
	if !s.cfg.Enabled {
		s.logger.Info("mail delivery disabled, dropping message",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	addr := s.cfg.Host + ":" + s.cfg.Port
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	s.logger.Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// SendWelcome greets a recipient created during issuance and hands them
// the link to set their password.
func (s *mailService) SendWelcome(ctx context.Context, recipient *models.Recipient, resetToken string) error {
	resetLink := fmt.Sprintf("%s/auth/restablecer/%s", s.publicURL, resetToken)
	body := fmt.Sprintf(
		"Hola %s,\n\n"+
			"Se ha creado una cuenta para ti en la plataforma de certificados digitales.\n\n"+
			"Para acceder, establece tu contraseña desde el siguiente enlace:\n%s\n\n"+
			"Un saludo,\nEl equipo de certificación",
		recipient.FullName(), resetLink)
	return s.Send(ctx, recipient.Email, "Bienvenido a la plataforma de certificados", body)
}

// SendCertificateReady tells a recipient a new certificate is waiting
// for them, with the public verification link.
func (s *mailService) SendCertificateReady(ctx context.Context, recipient *models.Recipient, cert *models.Certificate) error {
	badgeName := ""
	if cert.Badge != nil {
		badgeName = cert.Badge.Name
	}
	certLink := fmt.Sprintf("%s/beneficiario/certificado/%s", s.publicURL, cert.ID)
	body := fmt.Sprintf(
		"Hola %s,\n\n"+
			"Has recibido un nuevo certificado: %s.\n\n"+
			"Puedes consultarlo y descargarlo aquí:\n%s\n\n"+
			"Un saludo,\nEl equipo de certificación",
		recipient.FullName(), badgeName, certLink)
	return s.Send(ctx, recipient.Email, "Tienes un nuevo certificado", body)
}
