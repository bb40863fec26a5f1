package entity

import (
	"context"
	"time"
)

const (
	MaxLeadsPerWindow = 3
	RateLimitWindow   = time.Hour
	RateLimitBlock    = time.Hour
)

// IPRateLimit is the single counter row kept per client IP.
type IPRateLimit struct {
	IPAddress    string     `json:"ipAddress" bson:"ipAddress"`
	LeadCount    int        `json:"leadCount" bson:"leadCount"`
	WindowStart  time.Time  `json:"windowStart" bson:"windowStart"`
	BlockedUntil *time.Time `json:"blockedUntil,omitempty" bson:"blockedUntil,omitempty"`
}

func (r *IPRateLimit) BlockedAt(now time.Time) bool {
	return r.BlockedUntil != nil && r.BlockedUntil.After(now)
}

// InWindow reports whether the counting window is still open at now.
func (r *IPRateLimit) InWindow(now time.Time) bool {
	return r.WindowStart.After(now.Add(-RateLimitWindow))
}

// RateLimitRepository exposes the atomic primitives the limiter is built on.
// Each method is a single conditional write so concurrent callers for the
// same IP cannot push the counter past the cap.
type RateLimitRepository interface {
	Get(ctx context.Context, ip string) (*IPRateLimit, error)
	// Increment adds one to the counter when the window opened after
	// windowCutoff, the count is below max and no block is active at now.
	Increment(ctx context.Context, ip string, windowCutoff, now time.Time, max int) (int, bool, error)
	Block(ctx context.Context, ip string, until time.Time) error
	// StartWindow resets (or creates) the record with count 1 when its window
	// opened at or before windowCutoff and no block is active at now. It
	// reports false if another writer holds a fresh window or a block.
	StartWindow(ctx context.Context, ip string, windowCutoff, now time.Time) (bool, error)
}
