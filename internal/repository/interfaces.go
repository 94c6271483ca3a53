package repository

import (
	"context"
	"time"

	"notify-pipeline/internal/domain"
)

// LogFilter narrows audit-log queries. Zero values mean "no filter".
type LogFilter struct {
	CategoryID domain.Category
	StatusID   domain.Status
	Since      time.Time
	Limit      int
}

// LogRepository appends and queries the append-only audit log. Records are
// never updated or deleted here; cleanup is a separate procedure.
type LogRepository interface {
	Insert(ctx context.Context, record *domain.LogRecord) error
	List(ctx context.Context, filter LogFilter) ([]domain.LogRecord, error)
}

// OTPRepository stores pending verification codes, one per target.
type OTPRepository interface {
	Upsert(ctx context.Context, otp *domain.OTPVerification) error
	Consume(ctx context.Context, target, code, purpose string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
