package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"certidigital/internal/cache"
	"certidigital/internal/database"
	"certidigital/internal/models"
	"certidigital/internal/repositories"
	"certidigital/internal/validation"

	"go.uber.org/zap"
)

type badgeService struct {
	db         *database.Manager
	repos      *repositories.Collection
	assertions AssertionService
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewBadgeService creates the badge manager. The hosted BadgeClass
// document is cached since verifiers poll it repeatedly.
func NewBadgeService(db *database.Manager, repos *repositories.Collection, assertions AssertionService, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) BadgeService {
	return &badgeService{
		db:         db,
		repos:      repos,
		assertions: assertions,
		cache:      c,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

func badgeClassCacheKey(id string) string {
	return "badgeclass:" + id
}

func (s *badgeService) Create(ctx context.Context, req *CreateBadgeRequest) (*models.Badge, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	issuer, err := s.repos.Organizations.GetByID(ctx, req.IssuerID)
	if err != nil {
		return nil, NewInternalError("failed to load issuer", err)
	}
	if issuer == nil {
		return nil, EntityNotFoundError("organization", req.IssuerID)
	}

	badge := &models.Badge{
		Name:        req.Name,
		Description: req.Description,
		ImagePath:   req.ImagePath,
		Tags:        req.Tags,
		Public:      req.Public,
		IssuerID:    req.IssuerID,
		OpenBadgeID: req.OpenBadgeID,
	}
	if err := s.repos.Badges.Create(ctx, badge); err != nil {
		return nil, NewInternalError("failed to create badge", err)
	}
	return badge, nil
}

func (s *badgeService) GetByID(ctx context.Context, id string) (*models.Badge, error) {
	badge, err := s.repos.Badges.GetWithRelations(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load badge", err)
	}
	if badge == nil {
		return nil, EntityNotFoundError("badge", id)
	}
	return badge, nil
}

func (s *badgeService) List(ctx context.Context, req *ListRequest) ([]models.Badge, int64, error) {
	req.Normalize()
	badges, total, err := s.repos.Badges.List(ctx, repositories.ListParams{
		Limit:  req.PageSize,
		Offset: req.Offset(),
		Search: req.Search,
	})
	if err != nil {
		return nil, 0, NewInternalError("failed to list badges", err)
	}
	return badges, total, nil
}

func (s *badgeService) Update(ctx context.Context, id string, req *UpdateBadgeRequest) (*models.Badge, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	badge, err := s.repos.Badges.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load badge", err)
	}
	if badge == nil {
		return nil, EntityNotFoundError("badge", id)
	}

	if req.Name != nil {
		badge.Name = *req.Name
	}
	if req.Description != nil {
		badge.Description = *req.Description
	}
	if req.ImagePath != nil {
		badge.ImagePath = *req.ImagePath
	}
	if req.Tags != nil {
		badge.Tags = req.Tags
	}
	if req.Public != nil {
		badge.Public = *req.Public
	}
	if req.OpenBadgeID != nil {
		badge.OpenBadgeID = req.OpenBadgeID
	}

	if err := s.repos.Badges.Update(ctx, badge); err != nil {
		if repositories.IsNotFound(err) {
			return nil, EntityNotFoundError("badge", id)
		}
		return nil, NewInternalError("failed to update badge", err)
	}

	s.cache.Delete(ctx, badgeClassCacheKey(id))
	return badge, nil
}

func (s *badgeService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Badges.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return EntityNotFoundError("badge", id)
		}
		return NewInternalError("failed to delete badge", err)
	}
	s.cache.Delete(ctx, badgeClassCacheKey(id))
	return nil
}

// SetSkills replaces the badge's skill links with the given set, in
// one transaction so the badge never exposes a partial skill list.
func (s *badgeService) SetSkills(ctx context.Context, badgeID string, req *SetBadgeSkillsRequest) (*models.Badge, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	badge, err := s.repos.Badges.GetByID(ctx, badgeID)
	if err != nil {
		return nil, NewInternalError("failed to load badge", err)
	}
	if badge == nil {
		return nil, EntityNotFoundError("badge", badgeID)
	}

	err = s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		return s.replaceSkills(ctx, s.repos.Skills.WithTx(tx), badgeID, req.SkillIDs)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, badgeClassCacheKey(badgeID))
	return s.GetByID(ctx, badgeID)
}

// replaceSkills swaps the badge's skill links, mapping a dangling
// skill id to a validation failure.
func (s *badgeService) replaceSkills(ctx context.Context, skills repositories.SkillRepository, badgeID string, skillIDs []string) error {
	if err := skills.ReplaceBadgeSkills(ctx, badgeID, skillIDs); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return NewValidationError("one or more skill ids do not exist", err)
		}
		return NewInternalError("failed to set badge skills", err)
	}
	return nil
}

// BadgeClass builds the hosted OpenBadge class document, cache-aside.
func (s *badgeService) BadgeClass(ctx context.Context, id string) (*BadgeClass, error) {
	key := badgeClassCacheKey(id)
	if data, ok := s.cache.Get(ctx, key); ok {
		var class BadgeClass
		if err := json.Unmarshal(data, &class); err == nil {
			return &class, nil
		}
		s.logger.Warn("discarding unreadable cached badge class", zap.String("badge_id", id))
	}

	badge, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	class := s.assertions.BadgeClassFor(badge)
	if data, err := json.Marshal(class); err == nil {
		s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	return &class, nil
}
