package services

import (
	"context"

	"certidigital/internal/models"
	"certidigital/internal/repositories"
	"certidigital/internal/validation"

	"go.uber.org/zap"
)

type organizationService struct {
	repos  *repositories.Collection
	logger *zap.Logger
}

// NewOrganizationService creates the organization manager.
func NewOrganizationService(repos *repositories.Collection, logger *zap.Logger) OrganizationService {
	return &organizationService{repos: repos, logger: logger}
}

func (s *organizationService) Create(ctx context.Context, req *CreateOrganizationRequest) (*models.Organization, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	org := &models.Organization{
		LegalName:    req.LegalName,
		TaxID:        req.TaxID,
		Website:      req.Website,
		ContactEmail: req.ContactEmail,
		SupportEmail: req.SupportEmail,
	}
	if err := s.repos.Organizations.Create(ctx, org); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, NewConflictError("an organization with this tax id already exists", "DUPLICATE_TAX_ID")
		}
		return nil, NewInternalError("failed to create organization", err)
	}
	return org, nil
}

func (s *organizationService) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	org, err := s.repos.Organizations.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load organization", err)
	}
	if org == nil {
		return nil, EntityNotFoundError("organization", id)
	}
	return org, nil
}

func (s *organizationService) List(ctx context.Context, req *ListRequest) ([]models.Organization, int64, error) {
	req.Normalize()
	orgs, total, err := s.repos.Organizations.List(ctx, repositories.ListParams{
		Limit:  req.PageSize,
		Offset: req.Offset(),
		Search: req.Search,
	})
	if err != nil {
		return nil, 0, NewInternalError("failed to list organizations", err)
	}
	return orgs, total, nil
}

func (s *organizationService) Update(ctx context.Context, id string, req *UpdateOrganizationRequest) (*models.Organization, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LegalName != nil {
		org.LegalName = *req.LegalName
	}
	if req.TaxID != nil {
		org.TaxID = *req.TaxID
	}
	if req.Website != nil {
		org.Website = req.Website
	}
	if req.ContactEmail != nil {
		org.ContactEmail = req.ContactEmail
	}
	if req.SupportEmail != nil {
		org.SupportEmail = req.SupportEmail
	}

	if err := s.repos.Organizations.Update(ctx, org); err != nil {
		if repositories.IsNotFound(err) {
			return nil, EntityNotFoundError("organization", id)
		}
		if repositories.IsUniqueViolation(err) {
			return nil, NewConflictError("an organization with this tax id already exists", "DUPLICATE_TAX_ID")
		}
		return nil, NewInternalError("failed to update organization", err)
	}
	return org, nil
}

func (s *organizationService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Organizations.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return EntityNotFoundError("organization", id)
		}
		return NewInternalError("failed to delete organization", err)
	}
	return nil
}
