package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

// RateLimitRepository keeps one row per IP. Each method is a single
// statement, so Postgres row locking serialises concurrent writers.
type RateLimitRepository struct {
	DB *sql.DB
}

func NewRateLimitRepository(db *sql.DB) *RateLimitRepository {
	return &RateLimitRepository{DB: db}
}

func (r *RateLimitRepository) Get(ctx context.Context, ip string) (*entity.IPRateLimit, error) {
	var (
		rec     entity.IPRateLimit
		blocked sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT ip_address, lead_count, window_start, blocked_until FROM ip_rate_limits WHERE ip_address = $1`, ip,
	).Scan(&rec.IPAddress, &rec.LeadCount, &rec.WindowStart, &blocked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rate limit: %w", err)
	}
	rec.BlockedUntil = timePtr(blocked)
	return &rec, nil
}

func (r *RateLimitRepository) Increment(ctx context.Context, ip string, windowCutoff, now time.Time, max int) (int, bool, error) {
	query := `
		UPDATE ip_rate_limits
		SET lead_count = lead_count + 1
		WHERE ip_address = $1
		  AND window_start > $2
		  AND lead_count < $3
		  AND (blocked_until IS NULL OR blocked_until <= $4)
		RETURNING lead_count
	`
	var count int
	err := r.DB.QueryRowContext(ctx, query, ip, windowCutoff, max, now).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("increment rate limit: %w", err)
	}
	return count, true, nil
}

func (r *RateLimitRepository) Block(ctx context.Context, ip string, until time.Time) error {
	query := `UPDATE ip_rate_limits SET blocked_until = $2 WHERE ip_address = $1`
	if _, err := r.DB.ExecContext(ctx, query, ip, until); err != nil {
		return fmt.Errorf("block ip: %w", err)
	}
	return nil
}

// StartWindow inserts the first record or resets an expired, unblocked one.
// The ON CONFLICT ... WHERE clause makes the reset conditional, so a
// concurrent writer that already opened a fresh window wins.
func (r *RateLimitRepository) StartWindow(ctx context.Context, ip string, windowCutoff, now time.Time) (bool, error) {
	query := `
		INSERT INTO ip_rate_limits (ip_address, lead_count, window_start, blocked_until)
		VALUES ($1, 1, $3, NULL)
		ON CONFLICT (ip_address) DO UPDATE
		SET lead_count = 1, window_start = EXCLUDED.window_start, blocked_until = NULL
		WHERE ip_rate_limits.window_start <= $2
		  AND (ip_rate_limits.blocked_until IS NULL OR ip_rate_limits.blocked_until <= $3)
	`
	res, err := r.DB.ExecContext(ctx, query, ip, windowCutoff, now)
	if err != nil {
		return false, fmt.Errorf("start rate limit window: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
