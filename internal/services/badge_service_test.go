package services

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBadgeService_ReplaceSkills(t *testing.T) {
	svc := &badgeService{logger: zap.NewNop()}

	t.Run("passes the full set to storage", func(t *testing.T) {
		skills := &mockSkillRepo{}

		err := svc.replaceSkills(context.Background(), skills, "badge-1", []string{"skill-1", "skill-2"})

		require.NoError(t, err)
		assert.Equal(t, "badge-1", skills.replacedBadgeID)
		assert.Equal(t, []string{"skill-1", "skill-2"}, skills.replacedSkillIDs)
	})

	t.Run("dangling skill id is a validation failure", func(t *testing.T) {
		skills := &mockSkillRepo{
			replaceFn: func(ctx context.Context, badgeID string, skillIDs []string) error {
				return &pq.Error{Code: "23503"}
			},
		}

		err := svc.replaceSkills(context.Background(), skills, "badge-1", []string{"skill-bogus"})

		require.True(t, IsValidationError(err))
		assert.Contains(t, GetServiceError(err).Message, "skill ids")
	})

	t.Run("other storage failures stay internal", func(t *testing.T) {
		skills := &mockSkillRepo{
			replaceFn: func(ctx context.Context, badgeID string, skillIDs []string) error {
				return &pq.Error{Code: "40001"}
			},
		}

		err := svc.replaceSkills(context.Background(), skills, "badge-1", nil)

		assert.Equal(t, "INTERNAL_ERROR", GetServiceError(err).Type)
	})
}
