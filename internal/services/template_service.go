package services

import (
	"context"
	"database/sql"

	"certidigital/internal/database"
	"certidigital/internal/models"
	"certidigital/internal/repositories"
	"certidigital/internal/validation"

	"go.uber.org/zap"
)

type templateService struct {
	db     *database.Manager
	repos  *repositories.Collection
	logger *zap.Logger
}

// NewTemplateService creates the template manager. Default-flag changes
// run transactionally so a badge never ends up with two defaults.
func NewTemplateService(db *database.Manager, repos *repositories.Collection, logger *zap.Logger) TemplateService {
	return &templateService{db: db, repos: repos, logger: logger}
}

func applyLayout(tpl *models.CertificateTemplate, layout *TemplateLayout) {
	if layout.QRX != nil {
		tpl.QRX = layout.QRX
	}
	if layout.QRY != nil {
		tpl.QRY = layout.QRY
	}
	if layout.NameX != nil {
		tpl.NameX = layout.NameX
	}
	if layout.NameY != nil {
		tpl.NameY = layout.NameY
	}
	if layout.DateX != nil {
		tpl.DateX = layout.DateX
	}
	if layout.DateY != nil {
		tpl.DateY = layout.DateY
	}
	if layout.BadgeX != nil {
		tpl.BadgeX = layout.BadgeX
	}
	if layout.BadgeY != nil {
		tpl.BadgeY = layout.BadgeY
	}
	if layout.CertIDX != nil {
		tpl.CertIDX = layout.CertIDX
	}
	if layout.CertIDY != nil {
		tpl.CertIDY = layout.CertIDY
	}
	if layout.NameContent != nil {
		tpl.NameContent = layout.NameContent
	}
	if layout.DateContent != nil {
		tpl.DateContent = layout.DateContent
	}
}

func (s *templateService) Create(ctx context.Context, req *CreateTemplateRequest) (*models.CertificateTemplate, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	badge, err := s.repos.Badges.GetByID(ctx, req.BadgeID)
	if err != nil {
		return nil, NewInternalError("failed to load badge", err)
	}
	if badge == nil {
		return nil, EntityNotFoundError("badge", req.BadgeID)
	}

	tpl := &models.CertificateTemplate{
		BadgeID:        req.BadgeID,
		Name:           req.Name,
		BackgroundPath: req.BackgroundPath,
		IsDefault:      req.IsDefault,
	}
	applyLayout(tpl, &req.TemplateLayout)

	err = s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		return s.persistCreate(ctx, s.repos.Templates.WithTx(tx), tpl)
	})
	if err != nil {
		return nil, mapTemplateWriteError(err, "")
	}
	return tpl, nil
}

// persistCreate inserts a template, demoting any existing default of
// the badge first or the partial unique index rejects a second one.
func (s *templateService) persistCreate(ctx context.Context, templates repositories.TemplateRepository, tpl *models.CertificateTemplate) error {
	if tpl.IsDefault {
		if err := templates.DemoteDefaults(ctx, tpl.BadgeID, ""); err != nil {
			return err
		}
	}
	return templates.Create(ctx, tpl)
}

// persistUpdate saves a template, demoting every other default of the
// badge when this one is promoted.
func (s *templateService) persistUpdate(ctx context.Context, templates repositories.TemplateRepository, tpl *models.CertificateTemplate) error {
	if tpl.IsDefault {
		if err := templates.DemoteDefaults(ctx, tpl.BadgeID, tpl.ID); err != nil {
			return err
		}
	}
	return templates.Update(ctx, tpl)
}

// mapTemplateWriteError translates storage failures from template
// writes. A unique violation means a concurrent writer won the default
// slot between the demote and this write.
func mapTemplateWriteError(err error, id string) error {
	switch {
	case id != "" && repositories.IsNotFound(err):
		return EntityNotFoundError("template", id)
	case repositories.IsUniqueViolation(err):
		return NewConflictError("badge already has a default template", "DUPLICATE_DEFAULT_TEMPLATE")
	default:
		return NewInternalError("failed to save template", err)
	}
}

func (s *templateService) GetByID(ctx context.Context, id string) (*models.CertificateTemplate, error) {
	tpl, err := s.repos.Templates.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load template", err)
	}
	if tpl == nil {
		return nil, EntityNotFoundError("template", id)
	}
	return tpl, nil
}

func (s *templateService) List(ctx context.Context, req *ListRequest) ([]models.CertificateTemplate, int64, error) {
	req.Normalize()
	templates, total, err := s.repos.Templates.List(ctx, repositories.ListParams{
		Limit:  req.PageSize,
		Offset: req.Offset(),
		Search: req.Search,
	})
	if err != nil {
		return nil, 0, NewInternalError("failed to list templates", err)
	}
	return templates, total, nil
}

func (s *templateService) ListByBadge(ctx context.Context, badgeID string) ([]models.CertificateTemplate, error) {
	templates, err := s.repos.Templates.ListByBadge(ctx, badgeID)
	if err != nil {
		return nil, NewInternalError("failed to list templates", err)
	}
	return templates, nil
}

func (s *templateService) ResolveDefault(ctx context.Context, badgeID string) (*models.CertificateTemplate, error) {
	tpl, err := s.repos.Templates.GetDefaultForBadge(ctx, badgeID)
	if err != nil {
		return nil, NewInternalError("failed to resolve default template", err)
	}
	return tpl, nil
}

func (s *templateService) Update(ctx context.Context, id string, req *UpdateTemplateRequest) (*models.CertificateTemplate, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	tpl, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.BackgroundPath != nil {
		tpl.BackgroundPath = req.BackgroundPath
	}
	if req.IsDefault != nil {
		tpl.IsDefault = *req.IsDefault
	}
	applyLayout(tpl, &req.TemplateLayout)

	err = s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		return s.persistUpdate(ctx, s.repos.Templates.WithTx(tx), tpl)
	})
	if err != nil {
		return nil, mapTemplateWriteError(err, id)
	}
	return tpl, nil
}

func (s *templateService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Templates.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return EntityNotFoundError("template", id)
		}
		return NewInternalError("failed to delete template", err)
	}
	return nil
}
