package entity

import (
	"context"
	"time"
)

const MaxOTPAttempts = 5

// EmailOTP holds the per-request secret an emailed code is derived from.
type EmailOTP struct {
	ID         string
	Email      string
	Secret     string
	ExpiresAt  time.Time
	Attempts   int
	VerifiedAt *time.Time
	CreatedAt  time.Time
}

type OTPRepository interface {
	Create(ctx context.Context, otp *EmailOTP) error
	FindLatestByEmail(ctx context.Context, email string) (*EmailOTP, error)
	// IncrementAttempts counts a guess only while the code is unused and
	// below max; ok is false once either stops holding.
	IncrementAttempts(ctx context.Context, id string, max int) (bool, error)
	MarkVerified(ctx context.Context, id string, now time.Time) error
}

// ProviderToken is a third-party auth token shared by every API instance.
type ProviderToken struct {
	Provider  string
	Token     string
	ExpiresAt time.Time
}

type TokenRepository interface {
	Get(ctx context.Context, provider string) (*ProviderToken, error)
	Save(ctx context.Context, token *ProviderToken) error
}
