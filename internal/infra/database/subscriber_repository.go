package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type SubscriberRepository struct {
	DB *sql.DB
}

func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{DB: db}
}

// Upsert relies on the unique email; a repeat subscription inserts nothing.
func (r *SubscriberRepository) Upsert(ctx context.Context, s *entity.Subscriber) (bool, error) {
	query := `
		INSERT INTO newsletter_subscribers (id, email, source, subscribed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, query, s.ID, s.Email, s.Source, s.SubscribedAt)
	if err != nil {
		return false, fmt.Errorf("upsert subscriber: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
