package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"certidigital/internal/database"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// slowQueryThreshold is the duration past which a statement is logged as slow.
const slowQueryThreshold = 100 * time.Millisecond

// baseRepository wraps an Executor with timing-aware statement helpers.
// Repositories embed it and rebind it to a transaction via WithTx.
type baseRepository struct {
	q      database.Executor
	logger *zap.Logger
}

func newBaseRepository(q database.Executor, logger *zap.Logger) baseRepository {
	return baseRepository{q: q, logger: logger}
}

func (r *baseRepository) withTx(tx *sql.Tx) baseRepository {
	return baseRepository{q: tx, logger: r.logger}
}

func (r *baseRepository) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.q.ExecContext(ctx, query, args...)
	r.observe("exec", query, start, err)
	return result, err
}

func (r *baseRepository) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.q.QueryContext(ctx, query, args...)
	r.observe("query", query, start, err)
	return rows, err
}

func (r *baseRepository) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.q.QueryRowContext(ctx, query, args...)
	r.observe("query_row", query, start, nil)
	return row
}

func (r *baseRepository) observe(kind, query string, start time.Time, err error) {
	duration := time.Since(start)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		r.logger.Error("query failed",
			zap.String("type", kind),
			zap.Error(err),
			zap.String("query", truncateQuery(query)),
		)
		return
	}
	if duration > slowQueryThreshold {
		r.logger.Warn("slow query",
			zap.String("type", kind),
			zap.Duration("duration", duration),
			zap.String("query", truncateQuery(query)),
		)
	}
}

// qualifyColumns prefixes every column in a comma-separated list with a
// table alias, for queries that join.
func qualifyColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

func truncateQuery(query string) string {
	const maxLength = 200
	if len(query) <= maxLength {
		return query
	}
	return query[:maxLength] + "..."
}

// IsNotFound reports whether err is the no-rows sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, the backstop for duplicate-identity races.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key
// violation, raised when a link references a row that does not exist.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
