package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"certidigital/internal/database"
	"certidigital/internal/models"

	"go.uber.org/zap"
)

type templateRepository struct {
	baseRepository
}

// NewTemplateRepository creates a Postgres-backed template repository.
func NewTemplateRepository(q database.Executor, logger *zap.Logger) TemplateRepository {
	return &templateRepository{newBaseRepository(q, logger)}
}

func (r *templateRepository) WithTx(tx *sql.Tx) TemplateRepository {
	return &templateRepository{r.withTx(tx)}
}

const templateColumns = `id, badge_id, name, background_path,
	qr_x, qr_y, name_x, name_y, date_x, date_y, badge_x, badge_y, cert_id_x, cert_id_y,
	name_content, date_content, is_default, created_at, updated_at`

func scanTemplate(row interface{ Scan(...interface{}) error }) (*models.CertificateTemplate, error) {
	var tpl models.CertificateTemplate
	err := row.Scan(
		&tpl.ID, &tpl.BadgeID, &tpl.Name, &tpl.BackgroundPath,
		&tpl.QRX, &tpl.QRY, &tpl.NameX, &tpl.NameY, &tpl.DateX, &tpl.DateY,
		&tpl.BadgeX, &tpl.BadgeY, &tpl.CertIDX, &tpl.CertIDY,
		&tpl.NameContent, &tpl.DateContent, &tpl.IsDefault,
		&tpl.CreatedAt, &tpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) Create(ctx context.Context, tpl *models.CertificateTemplate) error {
	query := `
		INSERT INTO certificate_templates
			(badge_id, name, background_path,
			 qr_x, qr_y, name_x, name_y, date_x, date_y, badge_x, badge_y, cert_id_x, cert_id_y,
			 name_content, date_content, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	err := r.queryRow(ctx, query,
		tpl.BadgeID, tpl.Name, tpl.BackgroundPath,
		tpl.QRX, tpl.QRY, tpl.NameX, tpl.NameY, tpl.DateX, tpl.DateY,
		tpl.BadgeX, tpl.BadgeY, tpl.CertIDX, tpl.CertIDY,
		tpl.NameContent, tpl.DateContent, tpl.IsDefault,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*models.CertificateTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificate_templates WHERE id = $1`, templateColumns)
	tpl, err := scanTemplate(r.queryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return tpl, nil
}

func (r *templateRepository) GetDefaultForBadge(ctx context.Context, badgeID string) (*models.CertificateTemplate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM certificate_templates
		WHERE badge_id = $1 AND is_default`, templateColumns)

	tpl, err := scanTemplate(r.queryRow(ctx, query, badgeID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default template: %w", err)
	}
	return tpl, nil
}

func (r *templateRepository) DemoteDefaults(ctx context.Context, badgeID, exceptID string) error {
	_, err := r.exec(ctx, `
		UPDATE certificate_templates
		SET is_default = FALSE, updated_at = NOW()
		WHERE badge_id = $1 AND is_default AND ($2 = '' OR id::text <> $2)`,
		badgeID, exceptID)
	if err != nil {
		return fmt.Errorf("demote default templates: %w", err)
	}
	return nil
}

func (r *templateRepository) List(ctx context.Context, params ListParams) ([]models.CertificateTemplate, int64, error) {
	var total int64
	countQuery := `
		SELECT COUNT(*) FROM certificate_templates
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`
	if err := r.queryRow(ctx, countQuery, params.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count templates: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM certificate_templates
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, templateColumns)

	rows, err := r.query(ctx, query, params.Search, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.CertificateTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *tpl)
	}
	return templates, total, rows.Err()
}

func (r *templateRepository) ListByBadge(ctx context.Context, badgeID string) ([]models.CertificateTemplate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM certificate_templates
		WHERE badge_id = $1
		ORDER BY created_at DESC`, templateColumns)

	rows, err := r.query(ctx, query, badgeID)
	if err != nil {
		return nil, fmt.Errorf("list templates by badge: %w", err)
	}
	defer rows.Close()

	var templates []models.CertificateTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *tpl)
	}
	return templates, rows.Err()
}

func (r *templateRepository) Update(ctx context.Context, tpl *models.CertificateTemplate) error {
	query := `
		UPDATE certificate_templates
		SET name = $2, background_path = $3,
		    qr_x = $4, qr_y = $5, name_x = $6, name_y = $7, date_x = $8, date_y = $9,
		    badge_x = $10, badge_y = $11, cert_id_x = $12, cert_id_y = $13,
		    name_content = $14, date_content = $15, is_default = $16, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.queryRow(ctx, query,
		tpl.ID, tpl.Name, tpl.BackgroundPath,
		tpl.QRX, tpl.QRY, tpl.NameX, tpl.NameY, tpl.DateX, tpl.DateY,
		tpl.BadgeX, tpl.BadgeY, tpl.CertIDX, tpl.CertIDY,
		tpl.NameContent, tpl.DateContent, tpl.IsDefault,
	).Scan(&tpl.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, `DELETE FROM certificate_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
