package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Append(ctx context.Context, a *entity.LeadActivity) error {
	query := `
		INSERT INTO lead_activities (id, lead_id, action, from_stage, to_stage, details, actor_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		a.ID, a.LeadID, a.Action, a.FromStage, a.ToStage, a.Details, a.ActorID, a.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.LeadActivity, error) {
	query := `
		SELECT id, lead_id, action, from_stage, to_stage, details, actor_id, timestamp
		FROM lead_activities
		WHERE lead_id = $1
		ORDER BY timestamp ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := []*entity.LeadActivity{}
	for rows.Next() {
		var (
			a        entity.LeadActivity
			from, to sql.NullString
			actor    sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Action, &from, &to, &a.Details, &actor, &a.Timestamp); err != nil {
			return nil, err
		}
		if from.Valid {
			st := entity.Stage(from.String)
			a.FromStage = &st
		}
		if to.Valid {
			st := entity.Stage(to.String)
			a.ToStage = &st
		}
		a.ActorID = stringPtr(actor)
		out = append(out, &a)
	}
	return out, rows.Err()
}
