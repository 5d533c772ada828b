package services

import (
	"context"
	"testing"

	"certidigital/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCriterionService(criteria *mockCriterionRepo, badges *mockBadgeRepo) (*criterionService, *mockCache) {
	repos := testRepoCollection(&mockCertificateRepo{})
	repos.Criteria = criteria
	repos.Badges = badges
	c := &mockCache{}
	return &criterionService{repos: repos, cache: c, logger: zap.NewNop()}, c
}

func TestCriterionService_Create(t *testing.T) {
	t.Run("creates and drops the cached badge class", func(t *testing.T) {
		svc, c := newTestCriterionService(&mockCriterionRepo{}, &mockBadgeRepo{
			getByIDFn: func(ctx context.Context, id string) (*models.Badge, error) {
				return &models.Badge{ID: id}, nil
			},
		})

		criterion, err := svc.Create(context.Background(), &CreateCriterionRequest{
			BadgeID:     "badge-1",
			Description: "Complete the final project",
		})

		require.NoError(t, err)
		assert.Equal(t, "crit-new", criterion.ID)
		assert.Equal(t, "badge-1", criterion.BadgeID)
		assert.Contains(t, c.deleted, "badgeclass:badge-1")
	})

	t.Run("unknown badge is not found", func(t *testing.T) {
		svc, c := newTestCriterionService(&mockCriterionRepo{}, &mockBadgeRepo{})

		_, err := svc.Create(context.Background(), &CreateCriterionRequest{
			BadgeID:     "badge-missing",
			Description: "Anything",
		})

		assert.True(t, IsNotFoundError(err))
		assert.Empty(t, c.deleted)
	})
}

func TestCriterionService_Update(t *testing.T) {
	t.Run("applies the new description and invalidates", func(t *testing.T) {
		var updated *models.Criterion
		svc, c := newTestCriterionService(&mockCriterionRepo{
			getByIDFn: func(ctx context.Context, id string) (*models.Criterion, error) {
				return &models.Criterion{ID: id, BadgeID: "badge-1", Description: "Old"}, nil
			},
			updateFn: func(ctx context.Context, criterion *models.Criterion) error {
				updated = criterion
				return nil
			},
		}, &mockBadgeRepo{})

		desc := "New wording"
		criterion, err := svc.Update(context.Background(), "crit-1", &UpdateCriterionRequest{Description: &desc})

		require.NoError(t, err)
		assert.Equal(t, "New wording", criterion.Description)
		require.NotNil(t, updated)
		assert.Equal(t, "New wording", updated.Description)
		assert.Contains(t, c.deleted, "badgeclass:badge-1")
	})

	t.Run("unknown criterion is not found", func(t *testing.T) {
		svc, _ := newTestCriterionService(&mockCriterionRepo{}, &mockBadgeRepo{})

		_, err := svc.Update(context.Background(), "crit-missing", &UpdateCriterionRequest{})

		assert.True(t, IsNotFoundError(err))
	})
}

func TestCriterionService_Delete(t *testing.T) {
	svc, c := newTestCriterionService(&mockCriterionRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Criterion, error) {
			return &models.Criterion{ID: id, BadgeID: "badge-7"}, nil
		},
	}, &mockBadgeRepo{})

	err := svc.Delete(context.Background(), "crit-1")

	require.NoError(t, err)
	assert.Contains(t, c.deleted, "badgeclass:badge-7")
}
