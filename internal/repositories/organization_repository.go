package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"certidigital/internal/database"
	"certidigital/internal/models"

	"go.uber.org/zap"
)

type organizationRepository struct {
	baseRepository
}

// NewOrganizationRepository creates a Postgres-backed organization repository.
func NewOrganizationRepository(q database.Executor, logger *zap.Logger) OrganizationRepository {
	return &organizationRepository{newBaseRepository(q, logger)}
}

func (r *organizationRepository) WithTx(tx *sql.Tx) OrganizationRepository {
	return &organizationRepository{r.withTx(tx)}
}

const organizationColumns = `id, legal_name, tax_id, website, contact_email, support_email, created_at, updated_at`

func (r *organizationRepository) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (legal_name, tax_id, website, contact_email, support_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.queryRow(ctx, query,
		org.LegalName, org.TaxID, org.Website, org.ContactEmail, org.SupportEmail,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM organizations WHERE id = $1`, organizationColumns)

	var org models.Organization
	err := r.queryRow(ctx, query, id).Scan(
		&org.ID, &org.LegalName, &org.TaxID, &org.Website,
		&org.ContactEmail, &org.SupportEmail, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &org, nil
}

func (r *organizationRepository) List(ctx context.Context, params ListParams) ([]models.Organization, int64, error) {
	var total int64
	countQuery := `
		SELECT COUNT(*) FROM organizations
		WHERE ($1 = '' OR legal_name ILIKE '%' || $1 || '%' OR tax_id ILIKE '%' || $1 || '%')`
	if err := r.queryRow(ctx, countQuery, params.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count organizations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM organizations
		WHERE ($1 = '' OR legal_name ILIKE '%%' || $1 || '%%' OR tax_id ILIKE '%%' || $1 || '%%')
		ORDER BY legal_name
		LIMIT $2 OFFSET $3`, organizationColumns)

	rows, err := r.query(ctx, query, params.Search, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []models.Organization
	for rows.Next() {
		var org models.Organization
		if err := rows.Scan(
			&org.ID, &org.LegalName, &org.TaxID, &org.Website,
			&org.ContactEmail, &org.SupportEmail, &org.CreatedAt, &org.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	return orgs, total, rows.Err()
}

func (r *organizationRepository) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET legal_name = $2, tax_id = $3, website = $4, contact_email = $5,
		    support_email = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.queryRow(ctx, query,
		org.ID, org.LegalName, org.TaxID, org.Website, org.ContactEmail, org.SupportEmail,
	).Scan(&org.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("update organization: %w", err)
	}
	return nil
}

func (r *organizationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
