package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                      UUID PRIMARY KEY,
		name                    TEXT NOT NULL,
		email                   TEXT NOT NULL UNIQUE,
		phone                   TEXT NOT NULL DEFAULT '',
		role                    TEXT NOT NULL,
		status                  TEXT NOT NULL,
		password_hash           TEXT NOT NULL,
		must_change_password    BOOLEAN NOT NULL DEFAULT FALSE,
		verification_status     TEXT NOT NULL DEFAULT 'unsubmitted',
		verification_documents  TEXT[] NOT NULL DEFAULT '{}',
		verification_notes      TEXT NOT NULL DEFAULT '',
		reviewed_by             UUID NULL,
		reviewed_at             TIMESTAMPTZ NULL,
		onboarding_token        TEXT NULL UNIQUE,
		onboarding_expires_at   TIMESTAMPTZ NULL,
		onboarding_completed_at TIMESTAMPTZ NULL,
		created_at              TIMESTAMPTZ NOT NULL,
		updated_at              TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id               UUID PRIMARY KEY,
		name             TEXT NOT NULL,
		email            TEXT NOT NULL,
		phone            TEXT NOT NULL,
		destination      TEXT NOT NULL,
		travel_date      TEXT NOT NULL DEFAULT '',
		duration_days    INT NOT NULL DEFAULT 0,
		travelers        JSONB NOT NULL DEFAULT '[]',
		budget           NUMERIC(12,2) NOT NULL DEFAULT 0,
		net_amount       NUMERIC(12,2) NOT NULL DEFAULT 0,
		trip_profit      NUMERIC(12,2) NOT NULL DEFAULT 0,
		payment_status   TEXT NOT NULL DEFAULT 'pending',
		stage            TEXT NOT NULL,
		previous_stage   TEXT NULL,
		agent_id         UUID NULL REFERENCES users(id),
		customer_id      UUID NULL REFERENCES users(id) ON DELETE SET NULL,
		itinerary_url    TEXT NOT NULL DEFAULT '',
		documents        TEXT[] NOT NULL DEFAULT '{}',
		notes            TEXT NOT NULL DEFAULT '',
		source           TEXT NOT NULL DEFAULT '',
		ip_address       TEXT NOT NULL DEFAULT '',
		last_activity_at TIMESTAMPTZ NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_stage_activity ON leads (stage, last_activity_at)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_agent ON leads (agent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads (email)`,
	`CREATE TABLE IF NOT EXISTS lead_activities (
		id         UUID PRIMARY KEY,
		lead_id    UUID NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		action     TEXT NOT NULL,
		from_stage TEXT NULL,
		to_stage   TEXT NULL,
		details    TEXT NOT NULL DEFAULT '',
		actor_id   UUID NULL,
		timestamp  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lead_activities_lead ON lead_activities (lead_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS ip_rate_limits (
		ip_address    TEXT PRIMARY KEY,
		lead_count    INT NOT NULL,
		window_start  TIMESTAMPTZ NOT NULL,
		blocked_until TIMESTAMPTZ NULL
	)`,
	`CREATE TABLE IF NOT EXISTS email_otps (
		id          UUID PRIMARY KEY,
		email       TEXT NOT NULL,
		secret      TEXT NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL,
		attempts    INT NOT NULL DEFAULT 0,
		verified_at TIMESTAMPTZ NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_email_otps_email ON email_otps (email, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS provider_tokens (
		provider   TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS newsletter_subscribers (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		source        TEXT NOT NULL DEFAULT '',
		subscribed_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the tables if they do not exist. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	log.Printf("✅ Database schema up to date (%d statements)", len(schema))
	return nil
}
