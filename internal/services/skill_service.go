package services

import (
	"context"
	"strings"

	"certidigital/internal/models"
	"certidigital/internal/repositories"
	"certidigital/internal/validation"

	"go.uber.org/zap"
)

type skillService struct {
	repos  *repositories.Collection
	logger *zap.Logger
}

// NewSkillService creates the skill catalog manager.
func NewSkillService(repos *repositories.Collection, logger *zap.Logger) SkillService {
	return &skillService{repos: repos, logger: logger}
}

// Create adds a skill by name. Names are shared across badges, so a
// name that already exists returns the existing skill instead of
// failing.
func (s *skillService) Create(ctx context.Context, req *CreateSkillRequest) (*models.Skill, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewValidationError("skill name is required", nil)
	}

	existing, err := s.repos.Skills.GetByName(ctx, name)
	if err != nil {
		return nil, NewInternalError("failed to look up skill", err)
	}
	if existing != nil {
		s.logger.Info("skill already exists, reusing",
			zap.String("skill_id", existing.ID),
			zap.String("name", name),
		)
		return existing, nil
	}

	skill := &models.Skill{Name: name}
	if err := s.repos.Skills.Create(ctx, skill); err != nil {
		// Lost a creation race; the winner's row is the answer.
		if repositories.IsUniqueViolation(err) {
			winner, lookupErr := s.repos.Skills.GetByName(ctx, name)
			if lookupErr == nil && winner != nil {
				return winner, nil
			}
		}
		return nil, NewInternalError("failed to create skill", err)
	}
	return skill, nil
}

func (s *skillService) List(ctx context.Context) ([]models.Skill, error) {
	skills, err := s.repos.Skills.List(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list skills", err)
	}
	return skills, nil
}

func (s *skillService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Skills.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return EntityNotFoundError("skill", id)
		}
		return NewInternalError("failed to delete skill", err)
	}
	return nil
}
