package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"certidigital/internal/database"
	"certidigital/internal/models"

	"go.uber.org/zap"
)

type recipientRepository struct {
	baseRepository
}

// NewRecipientRepository creates a Postgres-backed recipient repository.
func NewRecipientRepository(q database.Executor, logger *zap.Logger) RecipientRepository {
	return &recipientRepository{newBaseRepository(q, logger)}
}

func (r *recipientRepository) WithTx(tx *sql.Tx) RecipientRepository {
	return &recipientRepository{r.withTx(tx)}
}

const recipientColumns = `id, first_name, last_name, email, national_id, phone, birth_date,
	organization_id, password_hash, reset_token, created_at, updated_at`

func scanRecipient(row interface{ Scan(...interface{}) error }) (*models.Recipient, error) {
	var rec models.Recipient
	err := row.Scan(
		&rec.ID, &rec.FirstName, &rec.LastName, &rec.Email, &rec.NationalID,
		&rec.Phone, &rec.BirthDate, &rec.OrganizationID,
		&rec.PasswordHash, &rec.ResetToken, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recipientRepository) Create(ctx context.Context, rec *models.Recipient) error {
	query := `
		INSERT INTO recipients
			(first_name, last_name, email, national_id, phone, birth_date, organization_id, reset_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.queryRow(ctx, query,
		rec.FirstName, rec.LastName, rec.Email, rec.NationalID,
		rec.Phone, rec.BirthDate, rec.OrganizationID, rec.ResetToken,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create recipient: %w", err)
	}
	return nil
}

func (r *recipientRepository) GetByID(ctx context.Context, id string) (*models.Recipient, error) {
	query := fmt.Sprintf(`SELECT %s FROM recipients WHERE id = $1`, recipientColumns)
	rec, err := scanRecipient(r.queryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	return rec, nil
}

func (r *recipientRepository) FindByIdentity(ctx context.Context, nationalID, email string) (*models.Recipient, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM recipients
		WHERE national_id = $1 OR email = $2
		LIMIT 1`, recipientColumns)

	rec, err := scanRecipient(r.queryRow(ctx, query, nationalID, email))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find recipient by identity: %w", err)
	}
	return rec, nil
}

func (r *recipientRepository) GetByEmail(ctx context.Context, email string) (*models.Recipient, error) {
	query := fmt.Sprintf(`SELECT %s FROM recipients WHERE email = $1`, recipientColumns)
	rec, err := scanRecipient(r.queryRow(ctx, query, email))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipient by email: %w", err)
	}
	return rec, nil
}

func (r *recipientRepository) GetByResetToken(ctx context.Context, token string) (*models.Recipient, error) {
	query := fmt.Sprintf(`SELECT %s FROM recipients WHERE reset_token = $1`, recipientColumns)
	rec, err := scanRecipient(r.queryRow(ctx, query, token))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipient by reset token: %w", err)
	}
	return rec, nil
}

func (r *recipientRepository) SetOrganization(ctx context.Context, recipientID, organizationID string) error {
	_, err := r.exec(ctx, `
		UPDATE recipients SET organization_id = $2, updated_at = NOW() WHERE id = $1`,
		recipientID, organizationID)
	if err != nil {
		return fmt.Errorf("set recipient organization: %w", err)
	}
	return nil
}

func (r *recipientRepository) LinkOrganization(ctx context.Context, recipientID, organizationID string) error {
	_, err := r.exec(ctx, `
		INSERT INTO recipient_organizations (recipient_id, organization_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		recipientID, organizationID)
	if err != nil {
		return fmt.Errorf("link recipient organization: %w", err)
	}
	return nil
}

func (r *recipientRepository) SetPassword(ctx context.Context, recipientID, passwordHash string) error {
	result, err := r.exec(ctx, `
		UPDATE recipients
		SET password_hash = $2, reset_token = NULL, updated_at = NOW()
		WHERE id = $1`,
		recipientID, passwordHash)
	if err != nil {
		return fmt.Errorf("set recipient password: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *recipientRepository) List(ctx context.Context, params ListParams) ([]models.Recipient, int64, error) {
	var total int64
	countQuery := `
		SELECT COUNT(*) FROM recipients
		WHERE ($1 = '' OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'
			OR email ILIKE '%' || $1 || '%' OR national_id ILIKE '%' || $1 || '%')`
	if err := r.queryRow(ctx, countQuery, params.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count recipients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM recipients
		WHERE ($1 = '' OR first_name ILIKE '%%' || $1 || '%%' OR last_name ILIKE '%%' || $1 || '%%'
			OR email ILIKE '%%' || $1 || '%%' OR national_id ILIKE '%%' || $1 || '%%')
		ORDER BY last_name, first_name
		LIMIT $2 OFFSET $3`, recipientColumns)

	rows, err := r.query(ctx, query, params.Search, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var recipients []models.Recipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan recipient: %w", err)
		}
		recipients = append(recipients, *rec)
	}
	return recipients, total, rows.Err()
}

func (r *recipientRepository) Update(ctx context.Context, rec *models.Recipient) error {
	query := `
		UPDATE recipients
		SET first_name = $2, last_name = $3, email = $4, national_id = $5,
		    phone = $6, birth_date = $7, organization_id = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.queryRow(ctx, query,
		rec.ID, rec.FirstName, rec.LastName, rec.Email, rec.NationalID,
		rec.Phone, rec.BirthDate, rec.OrganizationID,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("update recipient: %w", err)
	}
	return nil
}

func (r *recipientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, `DELETE FROM recipients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipient: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
