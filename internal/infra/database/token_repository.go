package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

// TokenRepository stores third-party API tokens shared by all instances.
type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

func (r *TokenRepository) Get(ctx context.Context, provider string) (*entity.ProviderToken, error) {
	var t entity.ProviderToken
	err := r.DB.QueryRowContext(ctx,
		`SELECT provider, token, expires_at FROM provider_tokens WHERE provider = $1`, provider,
	).Scan(&t.Provider, &t.Token, &t.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read provider token: %w", err)
	}
	return &t, nil
}

func (r *TokenRepository) Save(ctx context.Context, t *entity.ProviderToken) error {
	query := `
		INSERT INTO provider_tokens (provider, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
	`
	if _, err := r.DB.ExecContext(ctx, query, t.Provider, t.Token, t.ExpiresAt); err != nil {
		return fmt.Errorf("save provider token: %w", err)
	}
	return nil
}
