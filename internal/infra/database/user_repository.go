package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, phone, role, status, password_hash, must_change_password,
	verification_status, verification_documents, verification_notes, reviewed_by, reviewed_at,
	onboarding_token, onboarding_expires_at, onboarding_completed_at, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.DB.ExecContext(ctx, query, r.values(u)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return entity.ErrEmailAlreadyExists
			}
		}

		log.Printf("❌ insert user failed: %v", err)
		return err
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `email = $1`, email)
}

func (r *UserRepository) FindByOnboardingToken(ctx context.Context, token string) (*entity.User, error) {
	u, err := r.findOne(ctx, `onboarding_token = $1`, token)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, entity.ErrOnboardingNotFound
	}
	return u, err
}

func (r *UserRepository) List(ctx context.Context, filter entity.UserFilter) ([]*entity.User, error) {
	var (
		where []string
		args  []any
	)
	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET
			name = $2, email = $3, phone = $4, role = $5, status = $6, password_hash = $7,
			must_change_password = $8, verification_status = $9, verification_documents = $10,
			verification_notes = $11, reviewed_by = $12, reviewed_at = $13, onboarding_token = $14,
			onboarding_expires_at = $15, onboarding_completed_at = $16, updated_at = $17
		WHERE id = $1
	`
	args := r.values(u)
	args = append(args[:16], u.UpdatedAt)
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) values(u *entity.User) []any {
	docs := u.Verification.Documents
	if docs == nil {
		docs = []string{}
	}
	return []any{
		u.ID, u.Name, u.Email, u.Phone, u.Role, u.Status, u.PasswordHash, u.MustChangePassword,
		u.Verification.Status, pq.Array(docs), u.Verification.Notes, u.Verification.ReviewedBy, u.Verification.ReviewedAt,
		nullString(u.Onboarding.Token), u.Onboarding.ExpiresAt, u.Onboarding.CompletedAt, u.CreatedAt, u.UpdatedAt,
	}
}

func (r *UserRepository) findOne(ctx context.Context, cond string, arg any) (*entity.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+cond, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	return u, err
}

func scanUser(s rowScanner) (*entity.User, error) {
	var (
		u                       entity.User
		reviewedBy, token       sql.NullString
		reviewedAt, exp, doneAt sql.NullTime
	)
	err := s.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Status, &u.PasswordHash, &u.MustChangePassword,
		&u.Verification.Status, pq.Array(&u.Verification.Documents), &u.Verification.Notes, &reviewedBy, &reviewedAt,
		&token, &exp, &doneAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Verification.ReviewedBy = stringPtr(reviewedBy)
	u.Verification.ReviewedAt = timePtr(reviewedAt)
	u.Onboarding.Token = token.String
	u.Onboarding.ExpiresAt = timePtr(exp)
	u.Onboarding.CompletedAt = timePtr(doneAt)
	if u.Verification.Documents == nil {
		u.Verification.Documents = []string{}
	}
	return &u, nil
}
