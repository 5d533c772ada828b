package services

import (
	"context"
	"database/sql"
	"testing"

	"certidigital/internal/models"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTemplateService_PersistCreate(t *testing.T) {
	svc := &templateService{logger: zap.NewNop()}

	t.Run("default template demotes siblings before insert", func(t *testing.T) {
		templates := &mockTemplateRepo{}
		tpl := &models.CertificateTemplate{BadgeID: "badge-1", Name: "Main", IsDefault: true}

		err := svc.persistCreate(context.Background(), templates, tpl)

		require.NoError(t, err)
		assert.Equal(t, []string{"demote", "create"}, templates.ops)
		assert.Equal(t, "badge-1", templates.demotedBadgeID)
		assert.Empty(t, templates.demotedExceptID)
	})

	t.Run("non-default template inserts without demoting", func(t *testing.T) {
		templates := &mockTemplateRepo{}
		tpl := &models.CertificateTemplate{BadgeID: "badge-1", Name: "Alt"}

		err := svc.persistCreate(context.Background(), templates, tpl)

		require.NoError(t, err)
		assert.Equal(t, []string{"create"}, templates.ops)
	})
}

func TestTemplateService_PersistUpdate(t *testing.T) {
	svc := &templateService{logger: zap.NewNop()}

	t.Run("promotion demotes every other default of the badge", func(t *testing.T) {
		templates := &mockTemplateRepo{}
		tpl := &models.CertificateTemplate{ID: "tpl-2", BadgeID: "badge-1", Name: "Main", IsDefault: true}

		err := svc.persistUpdate(context.Background(), templates, tpl)

		require.NoError(t, err)
		assert.Equal(t, []string{"demote", "update"}, templates.ops)
		assert.Equal(t, "badge-1", templates.demotedBadgeID)
		assert.Equal(t, "tpl-2", templates.demotedExceptID)
	})

	t.Run("plain update leaves defaults alone", func(t *testing.T) {
		templates := &mockTemplateRepo{}
		tpl := &models.CertificateTemplate{ID: "tpl-2", BadgeID: "badge-1", Name: "Main"}

		err := svc.persistUpdate(context.Background(), templates, tpl)

		require.NoError(t, err)
		assert.Equal(t, []string{"update"}, templates.ops)
	})
}

func TestTemplateService_MapTemplateWriteError(t *testing.T) {
	t.Run("unique violation surfaces as default conflict", func(t *testing.T) {
		err := mapTemplateWriteError(&pq.Error{Code: "23505"}, "")

		require.True(t, IsConflictError(err))
		assert.Equal(t, "DUPLICATE_DEFAULT_TEMPLATE", GetServiceError(err).Code)
	})

	t.Run("missing row on update surfaces as not found", func(t *testing.T) {
		err := mapTemplateWriteError(sql.ErrNoRows, "tpl-1")

		assert.True(t, IsNotFoundError(err))
	})

	t.Run("missing row on create stays internal", func(t *testing.T) {
		err := mapTemplateWriteError(sql.ErrNoRows, "")

		assert.Equal(t, "INTERNAL_ERROR", GetServiceError(err).Type)
	})
}
