package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"certidigital/internal/database"
	"certidigital/internal/models"

	"go.uber.org/zap"
)

type certificateRepository struct {
	baseRepository
}

// NewCertificateRepository creates a Postgres-backed certificate repository.
func NewCertificateRepository(q database.Executor, logger *zap.Logger) CertificateRepository {
	return &certificateRepository{newBaseRepository(q, logger)}
}

func (r *certificateRepository) WithTx(tx *sql.Tx) CertificateRepository {
	return &certificateRepository{r.withTx(tx)}
}

const certificateColumns = `id, recipient_id, badge_id, template_id, status, baked_image_path,
	recipient_snapshot, metadata, issued_at, expires_at, created_at, updated_at`

func scanCertificate(row interface{ Scan(...interface{}) error }) (*models.Certificate, error) {
	var (
		cert         models.Certificate
		snapshotJSON []byte
		metadataJSON []byte
	)
	err := row.Scan(
		&cert.ID, &cert.RecipientID, &cert.BadgeID, &cert.TemplateID,
		&cert.Status, &cert.BakedImagePath, &snapshotJSON, &metadataJSON,
		&cert.IssuedAt, &cert.ExpiresAt, &cert.CreatedAt, &cert.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(snapshotJSON, &cert.Snapshot); err != nil {
		return nil, fmt.Errorf("decode recipient snapshot for certificate %s: %w", cert.ID, err)
	}
	if len(metadataJSON) > 0 {
		var metadata models.MetadataSnapshot
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for certificate %s: %w", cert.ID, err)
		}
		cert.Metadata = &metadata
	}
	return &cert, nil
}

func (r *certificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	snapshotJSON, err := json.Marshal(cert.Snapshot)
	if err != nil {
		return fmt.Errorf("encode recipient snapshot: %w", err)
	}

	query := `
		INSERT INTO certificates
			(id, recipient_id, badge_id, template_id, status, recipient_snapshot, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err = r.queryRow(ctx, query,
		cert.ID, cert.RecipientID, cert.BadgeID, cert.TemplateID,
		cert.Status, snapshotJSON, cert.IssuedAt, cert.ExpiresAt,
	).Scan(&cert.CreatedAt, &cert.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

func (r *certificateRepository) GetByID(ctx context.Context, id string) (*models.Certificate, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificates WHERE id = $1`, certificateColumns)
	cert, err := scanCertificate(r.queryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return cert, nil
}

func (r *certificateRepository) GetWithRelations(ctx context.Context, id string) (*models.Certificate, error) {
	cert, err := r.GetByID(ctx, id)
	if err != nil || cert == nil {
		return cert, err
	}

	owner, err := scanRecipient(r.queryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM recipients WHERE id = $1`, recipientColumns), cert.RecipientID))
	if err != nil && !IsNotFound(err) {
		return nil, fmt.Errorf("get certificate owner: %w", err)
	}
	if err == nil {
		cert.Owner = owner
	}

	badgeRepo := &badgeRepository{r.baseRepository}
	badge, err := badgeRepo.GetWithRelations(ctx, cert.BadgeID)
	if err != nil {
		return nil, err
	}
	cert.Badge = badge

	if cert.TemplateID != nil {
		tpl, err := scanTemplate(r.queryRow(ctx,
			fmt.Sprintf(`SELECT %s FROM certificate_templates WHERE id = $1`, templateColumns), *cert.TemplateID))
		if err != nil && !IsNotFound(err) {
			return nil, fmt.Errorf("get certificate template: %w", err)
		}
		if err == nil {
			cert.Template = tpl
		}
	}
	return cert, nil
}

func (r *certificateRepository) SetBakedImage(ctx context.Context, id, path string, metadata *models.MetadataSnapshot) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata snapshot: %w", err)
	}

	result, err := r.exec(ctx, `
		UPDATE certificates
		SET baked_image_path = $2, metadata = $3, updated_at = NOW()
		WHERE id = $1`,
		id, path, metadataJSON)
	if err != nil {
		return fmt.Errorf("set baked image: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *certificateRepository) List(ctx context.Context, filter CertificateFilter) ([]models.Certificate, int64, error) {
	where := `
		WHERE ($1 = '' OR c.badge_id::text = $1)
		  AND ($2 = '' OR EXISTS (
				SELECT 1 FROM recipients rec WHERE rec.id = c.recipient_id
				  AND rec.organization_id::text = $2))
		  AND ($3 = '' OR c.recipient_snapshot->>'nombre' ILIKE '%' || $3 || '%'
				OR c.recipient_snapshot->>'email' ILIKE '%' || $3 || '%')`

	var total int64
	if err := r.queryRow(ctx, `SELECT COUNT(*) FROM certificates c`+where,
		filter.BadgeID, filter.OrganizationID, filter.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count certificates: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM certificates c %s
		ORDER BY c.issued_at DESC
		LIMIT $4 OFFSET $5`, qualifyColumns("c", certificateColumns), where)

	rows, err := r.query(ctx, query,
		filter.BadgeID, filter.OrganizationID, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	var certs []models.Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan certificate: %w", err)
		}
		certs = append(certs, *cert)
	}
	return certs, total, rows.Err()
}

func (r *certificateRepository) ListByRecipient(ctx context.Context, recipientID string) ([]models.Certificate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM certificates
		WHERE recipient_id = $1
		ORDER BY issued_at DESC`, certificateColumns)

	rows, err := r.query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("list certificates by recipient: %w", err)
	}
	defer rows.Close()

	var certs []models.Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		certs = append(certs, *cert)
	}
	return certs, rows.Err()
}

// Update applies administrative edits. The recipient snapshot and
// metadata are immutable historical facts and are deliberately not
// touched here.
func (r *certificateRepository) Update(ctx context.Context, cert *models.Certificate) error {
	query := `
		UPDATE certificates
		SET recipient_id = $2, template_id = $3, status = $4, expires_at = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.queryRow(ctx, query,
		cert.ID, cert.RecipientID, cert.TemplateID, cert.Status, cert.ExpiresAt,
	).Scan(&cert.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("update certificate: %w", err)
	}
	return nil
}

func (r *certificateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
