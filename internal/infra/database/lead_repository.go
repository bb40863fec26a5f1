package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, name, email, phone, destination, travel_date, duration_days, travelers,
	budget, net_amount, trip_profit, payment_status, stage, previous_stage, agent_id, customer_id,
	itinerary_url, documents, notes, source, ip_address, last_activity_at, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	travelers, err := json.Marshal(l.Travelers)
	if err != nil {
		return fmt.Errorf("encode travelers: %w", err)
	}

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err = r.DB.ExecContext(ctx, query,
		l.ID, l.Name, l.Email, l.Phone, l.Destination, l.TravelDate, l.DurationDays, travelers,
		l.Budget, l.NetAmount, l.TripProfit, l.PaymentStatus, l.Stage, l.PreviousStage, l.AgentID, l.CustomerID,
		l.ItineraryURL, pq.Array(l.Documents), l.Notes, l.Source, l.IPAddress, l.LastActivityAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return lead, err
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.Stage != "" {
		add("stage = $%d", filter.Stage)
	}
	if filter.AgentID != "" {
		add("agent_id = $%d", filter.AgentID)
	}
	if filter.Email != "" {
		add("email = $%d", filter.Email)
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// UpdateStage is a guarded write: it only applies while the row still holds from.
func (r *LeadRepository) UpdateStage(ctx context.Context, id string, from, to entity.Stage, previous *entity.Stage, now time.Time) (bool, error) {
	query := `
		UPDATE leads
		SET stage = $3, previous_stage = $4, last_activity_at = $5, updated_at = $5
		WHERE id = $1 AND stage = $2
	`
	res, err := r.DB.ExecContext(ctx, query, id, from, to, previous, now)
	if err != nil {
		return false, fmt.Errorf("update stage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (r *LeadRepository) AssignAgent(ctx context.Context, id, agentID string, now time.Time) error {
	query := `UPDATE leads SET agent_id = $2, last_activity_at = $3, updated_at = $3 WHERE id = $1`
	return r.execOne(ctx, query, id, agentID, now)
}

func (r *LeadRepository) UpdateDetails(ctx context.Context, l *entity.Lead, now time.Time) error {
	query := `
		UPDATE leads
		SET travel_date = $2, duration_days = $3, budget = $4, net_amount = $5, trip_profit = $6,
			payment_status = $7, itinerary_url = $8, documents = $9, notes = $10,
			last_activity_at = $11, updated_at = $11
		WHERE id = $1
	`
	return r.execOne(ctx, query,
		l.ID, l.TravelDate, l.DurationDays, l.Budget, l.NetAmount, l.TripProfit,
		l.PaymentStatus, l.ItineraryURL, pq.Array(l.Documents), l.Notes, now,
	)
}

func (r *LeadRepository) Touch(ctx context.Context, id string, now time.Time) error {
	return r.execOne(ctx, `UPDATE leads SET last_activity_at = $2, updated_at = $2 WHERE id = $1`, id, now)
}

// MarkStale flips idle active leads in one statement. SET expressions see the
// old row, so previous_stage receives the stage being replaced.
func (r *LeadRepository) MarkStale(ctx context.Context, cutoff, now time.Time) ([]entity.StaleCandidate, error) {
	query := `
		UPDATE leads
		SET previous_stage = stage, stage = 'stale', updated_at = $2
		WHERE stage NOT IN ('won', 'lost', 'stale') AND last_activity_at < $1
		RETURNING id, previous_stage, last_activity_at
	`
	rows, err := r.DB.QueryContext(ctx, query, cutoff, now)
	if err != nil {
		return nil, fmt.Errorf("mark stale: %w", err)
	}
	defer rows.Close()

	var moved []entity.StaleCandidate
	for rows.Next() {
		var c entity.StaleCandidate
		if err := rows.Scan(&c.LeadID, &c.PreviousStage, &c.LastActivityAt); err != nil {
			return nil, err
		}
		moved = append(moved, c)
	}
	return moved, rows.Err()
}

func (r *LeadRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func scanLead(s rowScanner) (*entity.Lead, error) {
	var (
		l         entity.Lead
		travelers []byte
		previous  sql.NullString
		agentID   sql.NullString
		custID    sql.NullString
	)
	err := s.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Destination, &l.TravelDate, &l.DurationDays, &travelers,
		&l.Budget, &l.NetAmount, &l.TripProfit, &l.PaymentStatus, &l.Stage, &previous, &agentID, &custID,
		&l.ItineraryURL, pq.Array(&l.Documents), &l.Notes, &l.Source, &l.IPAddress, &l.LastActivityAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(travelers, &l.Travelers); err != nil {
		return nil, fmt.Errorf("decode travelers: %w", err)
	}
	if previous.Valid {
		st := entity.Stage(previous.String)
		l.PreviousStage = &st
	}
	l.AgentID = stringPtr(agentID)
	l.CustomerID = stringPtr(custID)
	if l.Travelers == nil {
		l.Travelers = []entity.Traveler{}
	}
	if l.Documents == nil {
		l.Documents = []string{}
	}
	return &l, nil
}
