package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"certidigital/internal/database"
	"certidigital/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type badgeRepository struct {
	baseRepository
}

// NewBadgeRepository creates a Postgres-backed badge repository.
func NewBadgeRepository(q database.Executor, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{newBaseRepository(q, logger)}
}

func (r *badgeRepository) WithTx(tx *sql.Tx) BadgeRepository {
	return &badgeRepository{r.withTx(tx)}
}

const badgeColumns = `id, name, description, image_path, tags, public, issuer_id, open_badge_id, created_at, updated_at`

func scanBadge(row interface{ Scan(...interface{}) error }) (*models.Badge, error) {
	var badge models.Badge
	err := row.Scan(
		&badge.ID, &badge.Name, &badge.Description, &badge.ImagePath,
		pq.Array(&badge.Tags), &badge.Public, &badge.IssuerID, &badge.OpenBadgeID,
		&badge.CreatedAt, &badge.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *badgeRepository) Create(ctx context.Context, badge *models.Badge) error {
	query := `
		INSERT INTO badges (name, description, image_path, tags, public, issuer_id, open_badge_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.queryRow(ctx, query,
		badge.Name, badge.Description, badge.ImagePath, pq.Array(badge.Tags),
		badge.Public, badge.IssuerID, badge.OpenBadgeID,
	).Scan(&badge.ID, &badge.CreatedAt, &badge.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create badge: %w", err)
	}
	return nil
}

func (r *badgeRepository) GetByID(ctx context.Context, id string) (*models.Badge, error) {
	query := fmt.Sprintf(`SELECT %s FROM badges WHERE id = $1`, badgeColumns)
	badge, err := scanBadge(r.queryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get badge: %w", err)
	}
	return badge, nil
}

func (r *badgeRepository) GetWithRelations(ctx context.Context, id string) (*models.Badge, error) {
	badge, err := r.GetByID(ctx, id)
	if err != nil || badge == nil {
		return badge, err
	}

	issuerQuery := fmt.Sprintf(`SELECT %s FROM organizations WHERE id = $1`, organizationColumns)
	var issuer models.Organization
	err = r.queryRow(ctx, issuerQuery, badge.IssuerID).Scan(
		&issuer.ID, &issuer.LegalName, &issuer.TaxID, &issuer.Website,
		&issuer.ContactEmail, &issuer.SupportEmail, &issuer.CreatedAt, &issuer.UpdatedAt,
	)
	if err != nil && !IsNotFound(err) {
		return nil, fmt.Errorf("get badge issuer: %w", err)
	}
	if err == nil {
		badge.Issuer = &issuer
	}

	skills, err := r.loadSkills(ctx, id)
	if err != nil {
		return nil, err
	}
	badge.Skills = skills

	criteria, err := r.loadCriteria(ctx, id)
	if err != nil {
		return nil, err
	}
	badge.Criteria = criteria

	return badge, nil
}

func (r *badgeRepository) loadSkills(ctx context.Context, badgeID string) ([]models.Skill, error) {
	rows, err := r.query(ctx, `
		SELECT s.id, s.name
		FROM skills s
		JOIN badge_skills bs ON bs.skill_id = s.id
		WHERE bs.badge_id = $1
		ORDER BY s.name`, badgeID)
	if err != nil {
		return nil, fmt.Errorf("load badge skills: %w", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(&skill.ID, &skill.Name); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}

func (r *badgeRepository) loadCriteria(ctx context.Context, badgeID string) ([]models.Criterion, error) {
	rows, err := r.query(ctx, `
		SELECT id, badge_id, description
		FROM badge_criteria
		WHERE badge_id = $1
		ORDER BY created_at`, badgeID)
	if err != nil {
		return nil, fmt.Errorf("load badge criteria: %w", err)
	}
	defer rows.Close()

	var criteria []models.Criterion
	for rows.Next() {
		var criterion models.Criterion
		if err := rows.Scan(&criterion.ID, &criterion.BadgeID, &criterion.Description); err != nil {
			return nil, fmt.Errorf("scan criterion: %w", err)
		}
		criteria = append(criteria, criterion)
	}
	return criteria, rows.Err()
}

func (r *badgeRepository) List(ctx context.Context, params ListParams) ([]models.Badge, int64, error) {
	var total int64
	countQuery := `
		SELECT COUNT(*) FROM badges
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')`
	if err := r.queryRow(ctx, countQuery, params.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count badges: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM badges
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%' OR description ILIKE '%%' || $1 || '%%')
		ORDER BY name
		LIMIT $2 OFFSET $3`, badgeColumns)

	rows, err := r.query(ctx, query, params.Search, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var badges []models.Badge
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, *badge)
	}
	return badges, total, rows.Err()
}

func (r *badgeRepository) Update(ctx context.Context, badge *models.Badge) error {
	query := `
		UPDATE badges
		SET name = $2, description = $3, image_path = $4, tags = $5,
		    public = $6, open_badge_id = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.queryRow(ctx, query,
		badge.ID, badge.Name, badge.Description, badge.ImagePath,
		pq.Array(badge.Tags), badge.Public, badge.OpenBadgeID,
	).Scan(&badge.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("update badge: %w", err)
	}
	return nil
}

func (r *badgeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, `DELETE FROM badges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete badge: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
