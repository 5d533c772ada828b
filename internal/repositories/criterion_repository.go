package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"certidigital/internal/database"
	"certidigital/internal/models"

	"go.uber.org/zap"
)

type criterionRepository struct {
	baseRepository
}

// NewCriterionRepository creates a Postgres-backed criterion repository.
func NewCriterionRepository(q database.Executor, logger *zap.Logger) CriterionRepository {
	return &criterionRepository{newBaseRepository(q, logger)}
}

func (r *criterionRepository) WithTx(tx *sql.Tx) CriterionRepository {
	return &criterionRepository{r.withTx(tx)}
}

func (r *criterionRepository) Create(ctx context.Context, criterion *models.Criterion) error {
	err := r.queryRow(ctx,
		`INSERT INTO badge_criteria (badge_id, description) VALUES ($1, $2) RETURNING id`,
		criterion.BadgeID, criterion.Description,
	).Scan(&criterion.ID)
	if err != nil {
		return fmt.Errorf("create criterion: %w", err)
	}
	return nil
}

func (r *criterionRepository) GetByID(ctx context.Context, id string) (*models.Criterion, error) {
	var criterion models.Criterion
	err := r.queryRow(ctx,
		`SELECT id, badge_id, description FROM badge_criteria WHERE id = $1`, id,
	).Scan(&criterion.ID, &criterion.BadgeID, &criterion.Description)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get criterion: %w", err)
	}
	return &criterion, nil
}

func (r *criterionRepository) List(ctx context.Context) ([]models.Criterion, error) {
	rows, err := r.query(ctx,
		`SELECT id, badge_id, description FROM badge_criteria ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list criteria: %w", err)
	}
	defer rows.Close()
	return scanCriteria(rows)
}

func (r *criterionRepository) ListByBadge(ctx context.Context, badgeID string) ([]models.Criterion, error) {
	rows, err := r.query(ctx, `
		SELECT id, badge_id, description
		FROM badge_criteria
		WHERE badge_id = $1
		ORDER BY created_at`, badgeID)
	if err != nil {
		return nil, fmt.Errorf("list badge criteria: %w", err)
	}
	defer rows.Close()
	return scanCriteria(rows)
}

func scanCriteria(rows *sql.Rows) ([]models.Criterion, error) {
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

func (r *criterionRepository) Update(ctx context.Context, criterion *models.Criterion) error {
	result, err := r.exec(ctx,
		`UPDATE badge_criteria SET description = $2 WHERE id = $1`,
		criterion.ID, criterion.Description)
	if err != nil {
		return fmt.Errorf("update criterion: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *criterionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, `DELETE FROM badge_criteria WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete criterion: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
