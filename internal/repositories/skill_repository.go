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

type skillRepository struct {
	baseRepository
}

// NewSkillRepository creates a Postgres-backed skill repository.
func NewSkillRepository(q database.Executor, logger *zap.Logger) SkillRepository {
	return &skillRepository{newBaseRepository(q, logger)}
}

func (r *skillRepository) WithTx(tx *sql.Tx) SkillRepository {
	return &skillRepository{r.withTx(tx)}
}

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	err := r.queryRow(ctx,
		`INSERT INTO skills (name) VALUES ($1) RETURNING id`,
		skill.Name,
	).Scan(&skill.ID)
	if err != nil {
		return fmt.Errorf("create skill: %w", err)
	}
	return nil
}

func (r *skillRepository) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	var skill models.Skill
	err := r.queryRow(ctx, `SELECT id, name FROM skills WHERE id = $1`, id).
		Scan(&skill.ID, &skill.Name)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get skill: %w", err)
	}
	return &skill, nil
}

func (r *skillRepository) GetByName(ctx context.Context, name string) (*models.Skill, error) {
	var skill models.Skill
	err := r.queryRow(ctx, `SELECT id, name FROM skills WHERE name = $1`, name).
		Scan(&skill.ID, &skill.Name)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get skill by name: %w", err)
	}
	return &skill, nil
}

func (r *skillRepository) List(ctx context.Context) ([]models.Skill, error) {
	rows, err := r.query(ctx, `SELECT id, name FROM skills ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
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

func (r *skillRepository) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *skillRepository) ReplaceBadgeSkills(ctx context.Context, badgeID string, skillIDs []string) error {
	if _, err := r.exec(ctx, `DELETE FROM badge_skills WHERE badge_id = $1`, badgeID); err != nil {
		return fmt.Errorf("clear badge skills: %w", err)
	}
	if len(skillIDs) == 0 {
		return nil
	}
	_, err := r.exec(ctx, `
		INSERT INTO badge_skills (badge_id, skill_id)
		SELECT $1, unnest($2::uuid[])`,
		badgeID, pq.Array(skillIDs))
	if err != nil {
		return fmt.Errorf("link badge skills: %w", err)
	}
	return nil
}
