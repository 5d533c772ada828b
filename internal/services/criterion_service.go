package services

import (
	"context"

	"certidigital/internal/cache"
	"certidigital/internal/models"
	"certidigital/internal/repositories"
	"certidigital/internal/validation"

	"go.uber.org/zap"
)

type criterionService struct {
	repos  *repositories.Collection
	cache  cache.Cache
	logger *zap.Logger
}

// NewCriterionService creates the criterion manager. Criteria are
// embedded in the hosted BadgeClass document, so every mutation drops
// the badge's cached class.
func NewCriterionService(repos *repositories.Collection, c cache.Cache, logger *zap.Logger) CriterionService {
	return &criterionService{repos: repos, cache: c, logger: logger}
}

func (s *criterionService) Create(ctx context.Context, req *CreateCriterionRequest) (*models.Criterion, error) {
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

	criterion := &models.Criterion{
		BadgeID:     req.BadgeID,
		Description: req.Description,
	}
	if err := s.repos.Criteria.Create(ctx, criterion); err != nil {
		return nil, NewInternalError("failed to create criterion", err)
	}

	s.cache.Delete(ctx, badgeClassCacheKey(criterion.BadgeID))
	return criterion, nil
}

func (s *criterionService) GetByID(ctx context.Context, id string) (*models.Criterion, error) {
	criterion, err := s.repos.Criteria.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load criterion", err)
	}
	if criterion == nil {
		return nil, EntityNotFoundError("criterion", id)
	}
	return criterion, nil
}

func (s *criterionService) List(ctx context.Context) ([]models.Criterion, error) {
	criteria, err := s.repos.Criteria.List(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list criteria", err)
	}
	return criteria, nil
}

func (s *criterionService) ListByBadge(ctx context.Context, badgeID string) ([]models.Criterion, error) {
	criteria, err := s.repos.Criteria.ListByBadge(ctx, badgeID)
	if err != nil {
		return nil, NewInternalError("failed to list criteria", err)
	}
	return criteria, nil
}

func (s *criterionService) Update(ctx context.Context, id string, req *UpdateCriterionRequest) (*models.Criterion, error) {
	criterion, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		criterion.Description = *req.Description
	}

	if err := s.repos.Criteria.Update(ctx, criterion); err != nil {
		if repositories.IsNotFound(err) {
			return nil, EntityNotFoundError("criterion", id)
		}
		return nil, NewInternalError("failed to update criterion", err)
	}

	s.cache.Delete(ctx, badgeClassCacheKey(criterion.BadgeID))
	return criterion, nil
}

func (s *criterionService) Delete(ctx context.Context, id string) error {
	criterion, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repos.Criteria.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return EntityNotFoundError("criterion", id)
		}
		return NewInternalError("failed to delete criterion", err)
	}

	s.cache.Delete(ctx, badgeClassCacheKey(criterion.BadgeID))
	return nil
}
