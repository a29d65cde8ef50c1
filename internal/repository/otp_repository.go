package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/member-portal/internal/domain"
)

// OTPRepository manages the transient one-time code ledger.
type OTPRepository interface {
	// Upsert issues a code, atomically replacing any prior code for the same
	// (email, purpose) key.
	Upsert(ctx context.Context, record *domain.OTPRecord) error
	// GetLive looks up a code that matches and has not expired as of now.
	GetLive(ctx context.Context, email, code string, purpose domain.OTPPurpose, now time.Time) (*domain.OTPRecord, error)
	// Delete consumes the code for (email, purpose).
	Delete(ctx context.Context, email string, purpose domain.OTPPurpose) error
	// DeleteAllForEmail removes every code for the identity, used when a
	// member record is purged.
	DeleteAllForEmail(ctx context.Context, email string) error
}

type otpRepository struct {
	pool *pgxpool.Pool
}

// NewOTPRepository constructs repository.
func NewOTPRepository(pool *pgxpool.Pool) OTPRepository {
	return &otpRepository{pool: pool}
}

func (r *otpRepository) Upsert(ctx context.Context, record *domain.OTPRecord) error {
	const query = `
        INSERT INTO otp_codes (email, purpose, code, expires_at)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (email, purpose)
        DO UPDATE SET code=EXCLUDED.code, expires_at=EXCLUDED.expires_at, created_at=NOW()
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		record.Email,
		record.Purpose,
		record.Code,
		record.ExpiresAt,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *otpRepository) GetLive(ctx context.Context, email, code string, purpose domain.OTPPurpose, now time.Time) (*domain.OTPRecord, error) {
	const query = `
        SELECT id, email, purpose, code, expires_at, created_at
        FROM otp_codes
        WHERE email=$1 AND code=$2 AND purpose=$3 AND expires_at > $4`
	var record domain.OTPRecord
	if err := r.pool.QueryRow(ctx, query, email, code, purpose, now).Scan(
		&record.ID,
		&record.Email,
		&record.Purpose,
		&record.Code,
		&record.ExpiresAt,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *otpRepository) Delete(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	const query = `DELETE FROM otp_codes WHERE email=$1 AND purpose=$2`
	_, err := r.pool.Exec(ctx, query, email, purpose)
	return err
}

func (r *otpRepository) DeleteAllForEmail(ctx context.Context, email string) error {
	const query = `DELETE FROM otp_codes WHERE email=$1`
	_, err := r.pool.Exec(ctx, query, email)
	return err
}
