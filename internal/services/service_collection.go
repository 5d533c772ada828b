package services

import (
	"net/http"

	"certidigital/internal/baker"
	"certidigital/internal/cache"
	"certidigital/internal/config"
	"certidigital/internal/database"
	"certidigital/internal/render"
	"certidigital/internal/repositories"

	"go.uber.org/zap"
)

// Collection bundles every service for handler wiring.
type Collection struct {
	Certificates  CertificateService
	Assertions    AssertionService
	Templates     TemplateService
	Recipients    RecipientService
	Badges        BadgeService
	Skills        SkillService
	Criteria      CriterionService
	Organizations OrganizationService
	Auth          AuthService
	Mail          MailService
	Files         FileService
}

// NewCollection wires the full service graph.
func NewCollection(
	cfg *config.Config,
	db *database.Manager,
	repos *repositories.Collection,
	c cache.Cache,
	logger *zap.Logger,
) (*Collection, error) {
	renderer := render.NewRenderer(cfg.Storage.UploadsDir, cfg.URLs.PublicURL, http.DefaultClient, logger)
	imageBaker := baker.New(cfg.Storage.UploadsDir, logger)

	mail := NewMailService(&cfg.Mail, cfg.URLs.PublicURL, logger)
	assertions := NewAssertionService(repos.Certificates, cfg.URLs.APIURL, logger)

	files, err := NewFileService(cfg.Storage.UploadsDir, cfg.Storage.MaxFileSize, logger)
	if err != nil {
		return nil, err
	}

	return &Collection{
		Certificates: NewCertificateService(
			db, repos, assertions, renderer, imageBaker, mail,
			cfg.Storage.UploadsDir, logger),
		Assertions:    assertions,
		Templates:     NewTemplateService(db, repos, logger),
		Recipients:    NewRecipientService(repos, cfg.Auth.BCryptCost, logger),
		Badges:        NewBadgeService(db, repos, assertions, c, cfg.Cache.DefaultTTL, logger),
		Skills:        NewSkillService(repos, logger),
		Criteria:      NewCriterionService(repos, c, logger),
		Organizations: NewOrganizationService(repos, logger),
		Auth:          NewAuthService(repos.Recipients, &cfg.Auth, logger),
		Mail:          mail,
		Files:         files,
	}, nil
}
