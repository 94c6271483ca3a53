package repository

import (
	"context"
	"fmt"

	"notify-pipeline/internal/domain"
	pipeline_errors "notify-pipeline/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type otpRepository struct {
	pool *pgxpool.Pool
}

func NewOTPRepository(pool *pgxpool.Pool) OTPRepository {
	return &otpRepository{pool: pool}
}

// Upsert stores a pending code, replacing any previous code for the same
// target. Empty phone/email columns are stored as NULL.
func (r *otpRepository) Upsert(ctx context.Context, otp *domain.OTPVerification) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO otpverification (target, phone_number, email, otp_code, expiration_time, otp_purpose)
        VALUES ($1,NULLIF($2,''),NULLIF($3,''),$4,$5,$6)
        ON CONFLICT (target)
        DO UPDATE SET phone_number = EXCLUDED.phone_number,
                      email = EXCLUDED.email,
                      otp_code = EXCLUDED.otp_code,
                      expiration_time = EXCLUDED.expiration_time,
                      otp_purpose = EXCLUDED.otp_purpose
    `,
		otp.Target(),
		otp.PhoneNumber,
		otp.Email,
		otp.OTPCode,
		otp.ExpirationTime,
		otp.Purpose,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", pipeline_errors.ErrStorage, err)
	}
	return nil
}

// Consume deletes the pending code for the target if the code and purpose
// match and the code has not expired. ErrNotFound when no matching code
// exists, ErrOTPExpired when it exists but is past its expiration time.
func (r *otpRepository) Consume(ctx context.Context, target, code, purpose string) error {
	tag, err := r.pool.Exec(ctx, `
        DELETE FROM otpverification
        WHERE target = $1 AND otp_code = $2 AND otp_purpose = $3 AND expiration_time > NOW()
    `, target, code, purpose)
	if err != nil {
		return fmt.Errorf("%w: %v", pipeline_errors.ErrStorage, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Expired codes stay in place for the cleanup job; distinguish them from
	// codes that never matched.
	var expired bool
	err = r.pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM otpverification
            WHERE target = $1 AND otp_code = $2 AND otp_purpose = $3
        )
    `, target, code, purpose).Scan(&expired)
	if err != nil {
		return fmt.Errorf("%w: %v", pipeline_errors.ErrStorage, err)
	}
	if expired {
		return pipeline_errors.ErrOTPExpired
	}
	return pipeline_errors.ErrNotFound
}

func (r *otpRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM otpverification WHERE expiration_time < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", pipeline_errors.ErrStorage, err)
	}
	return tag.RowsAffected(), nil
}
