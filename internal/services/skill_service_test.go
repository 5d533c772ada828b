package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"certidigital/internal/models"
	"certidigital/internal/repositories"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSkillService(skills repositories.SkillRepository) *skillService {
	repos := testRepoCollection(&mockCertificateRepo{})
	repos.Skills = skills
	return &skillService{repos: repos, logger: zap.NewNop()}
}

func TestSkillService_Create(t *testing.T) {
	t.Run("creates a new skill", func(t *testing.T) {
		svc := newTestSkillService(&mockSkillRepo{})

		skill, err := svc.Create(context.Background(), &CreateSkillRequest{Name: "Go"})

		require.NoError(t, err)
		assert.Equal(t, "skill-new", skill.ID)
		assert.Equal(t, "Go", skill.Name)
	})

	t.Run("existing name returns the existing skill", func(t *testing.T) {
		existing := &models.Skill{ID: "skill-1", Name: "Go"}
		svc := newTestSkillService(&mockSkillRepo{
			getByNameFn: func(ctx context.Context, name string) (*models.Skill, error) {
				return existing, nil
			},
			createFn: func(ctx context.Context, skill *models.Skill) error {
				t.Fatal("create must not run when the name exists")
				return nil
			},
		})

		skill, err := svc.Create(context.Background(), &CreateSkillRequest{Name: "Go"})

		require.NoError(t, err)
		assert.Equal(t, "skill-1", skill.ID)
	})

	t.Run("lost creation race returns the winner", func(t *testing.T) {
		winner := &models.Skill{ID: "skill-winner", Name: "Go"}
		lookups := 0
		svc := newTestSkillService(&mockSkillRepo{
			getByNameFn: func(ctx context.Context, name string) (*models.Skill, error) {
				lookups++
				if lookups == 1 {
					return nil, nil
				}
				return winner, nil
			},
			createFn: func(ctx context.Context, skill *models.Skill) error {
				return &pq.Error{Code: "23505"}
			},
		})

		skill, err := svc.Create(context.Background(), &CreateSkillRequest{Name: "Go"})

		require.NoError(t, err)
		assert.Equal(t, "skill-winner", skill.ID)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		svc := newTestSkillService(&mockSkillRepo{})

		_, err := svc.Create(context.Background(), &CreateSkillRequest{Name: "   "})

		assert.True(t, IsValidationError(err))
	})
}

func TestSkillService_Delete(t *testing.T) {
	t.Run("missing skill maps to not found", func(t *testing.T) {
		svc := newTestSkillService(&mockSkillRepo{
			deleteFn: func(ctx context.Context, id string) error {
				return sql.ErrNoRows
			},
		})

		err := svc.Delete(context.Background(), "skill-gone")

		assert.True(t, IsNotFoundError(err))
	})

	t.Run("storage failure stays internal", func(t *testing.T) {
		svc := newTestSkillService(&mockSkillRepo{
			deleteFn: func(ctx context.Context, id string) error {
				return errors.New("connection reset")
			},
		})

		err := svc.Delete(context.Background(), "skill-1")

		assert.Equal(t, "INTERNAL_ERROR", GetServiceError(err).Type)
	})
}
