package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type OTPRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) *OTPRepository {
	return &OTPRepository{DB: db}
}

func (r *OTPRepository) Create(ctx context.Context, o *entity.EmailOTP) error {
	query := `
		INSERT INTO email_otps (id, email, secret, expires_at, attempts, verified_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query, o.ID, o.Email, o.Secret, o.ExpiresAt, o.Attempts, o.VerifiedAt, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

func (r *OTPRepository) FindLatestByEmail(ctx context.Context, email string) (*entity.EmailOTP, error) {
	query := `
		SELECT id, email, secret, expires_at, attempts, verified_at, created_at
		FROM email_otps
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var (
		o        entity.EmailOTP
		verified sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&o.ID, &o.Email, &o.Secret, &o.ExpiresAt, &o.Attempts, &verified, &o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find otp: %w", err)
	}
	o.VerifiedAt = timePtr(verified)
	return &o, nil
}

func (r *OTPRepository) IncrementAttempts(ctx context.Context, id string, max int) (bool, error) {
	query := `
		UPDATE email_otps SET attempts = attempts + 1
		WHERE id = $1 AND attempts < $2 AND verified_at IS NULL
		RETURNING attempts
	`
	var attempts int
	err := r.DB.QueryRowContext(ctx, query, id, max).Scan(&attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("increment otp attempts: %w", err)
	}
	return true, nil
}

// MarkVerified only succeeds once per code.
func (r *OTPRepository) MarkVerified(ctx context.Context, id string, now time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE email_otps SET verified_at = $2 WHERE id = $1 AND verified_at IS NULL`, id, now)
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrOTPNotFound
	}
	return nil
}
