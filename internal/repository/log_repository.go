package repository

import (
	"context"
	"fmt"
	"strings"

	"notify-pipeline/internal/domain"
	pipeline_errors "notify-pipeline/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type logRepository struct {
	pool *pgxpool.Pool
}

func NewLogRepository(pool *pgxpool.Pool) LogRepository {
	return &logRepository{pool: pool}
}

// Insert appends one record. created_at is assigned by the database, not the
// producer. The store is the timestamp authority.
func (r *logRepository) Insert(ctx context.Context, record *domain.LogRecord) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO logs.events (message_id, logtypeid, categoryid, transactiontypeid, statusid, error_message, phone_number, email, created_at)
        VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),NULLIF($7,''),NULLIF($8,''),NOW())
    `,
		record.MessageID,
		int(record.LogTypeID),
		int(record.CategoryID),
		int(record.TransactionTypeID),
		int(record.StatusID),
		record.ErrorMessage,
		record.PhoneNumber,
		record.Email,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", pipeline_errors.ErrStorage, err)
	}
	return nil
}

func (r *logRepository) List(ctx context.Context, filter LogFilter) ([]domain.LogRecord, error) {
	query := `
        SELECT id, message_id, logtypeid, categoryid, transactiontypeid, statusid,
               COALESCE(error_message, ''), COALESCE(phone_number, ''), COALESCE(email, ''), created_at
        FROM logs.events
    `
	var conditions []string
	var args []any
	if filter.CategoryID != 0 {
		args = append(args, int(filter.CategoryID))
		conditions = append(conditions, fmt.Sprintf("categoryid = $%d", len(args)))
	}
	if filter.StatusID != 0 {
		args = append(args, int(filter.StatusID))
		conditions = append(conditions, fmt.Sprintf("statusid = $%d", len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline_errors.ErrStorage, err)
	}
	defer rows.Close()

	var records []domain.LogRecord
	for rows.Next() {
		var record domain.LogRecord
		var logType, category, transactionType, status int
		if err := rows.Scan(
			&record.ID,
			&record.MessageID,
			&logType,
			&category,
			&transactionType,
			&status,
			&record.ErrorMessage,
			&record.PhoneNumber,
			&record.Email,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", pipeline_errors.ErrStorage, err)
		}
		record.LogTypeID = domain.LogType(logType)
		record.CategoryID = domain.Category(category)
		record.TransactionTypeID = domain.TransactionType(transactionType)
		record.StatusID = domain.Status(status)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline_errors.ErrStorage, err)
	}
	return records, nil
}
