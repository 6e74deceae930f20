package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VerificationCode is a one-time registration OTP tied to an email.
type VerificationCode struct {
	ID        string
	Email     string
	Code      string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// VerificationRepository stores registration OTP codes.
type VerificationRepository interface {
	Create(ctx context.Context, code *VerificationCode) error
	GetActiveByEmail(ctx context.Context, email string) (*VerificationCode, error)
	MarkUsed(ctx context.Context, id string) error
	DeleteByEmail(ctx context.Context, email string) error
}

type verificationRepository struct {
	pool *pgxpool.Pool
}

// NewVerificationRepository returns a Postgres-backed implementation.
func NewVerificationRepository(pool *pgxpool.Pool) VerificationRepository {
	return &verificationRepository{pool: pool}
}

func (r *verificationRepository) Create(ctx context.Context, code *VerificationCode) error {
	const query = `
        INSERT INTO verification_codes (email, code, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		code.Email,
		code.Code,
		code.ExpiresAt,
	).Scan(&code.ID, &code.CreatedAt)
}

func (r *verificationRepository) GetActiveByEmail(ctx context.Context, email string) (*VerificationCode, error) {
	const query = `
        SELECT id, email, code, expires_at, used_at, created_at
        FROM verification_codes
        WHERE email=$1 AND used_at IS NULL
        ORDER BY created_at DESC LIMIT 1`

	var code VerificationCode
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&code.ID,
		&code.Email,
		&code.Code,
		&code.ExpiresAt,
		&code.UsedAt,
		&code.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *verificationRepository) MarkUsed(ctx context.Context, id string) error {
	const query = `UPDATE verification_codes SET used_at=NOW() WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *verificationRepository) DeleteByEmail(ctx context.Context, email string) error {
	const query = `DELETE FROM verification_codes WHERE email=$1`
	_, err := r.pool.Exec(ctx, query, email)
	return err
}
