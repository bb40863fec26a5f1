package usecase

import (
	"context"
	"log"
	"time"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

// startWindowAttempts bounds the increment/reset loop when concurrent
// requests from one IP keep racing for a fresh window.
const startWindowAttempts = 3

type RateLimitResult struct {
	Allowed      bool       `json:"allowed"`
	Remaining    int        `json:"remaining"`
	BlockedUntil *time.Time `json:"blockedUntil,omitempty"`
}

// LeadRateLimiter caps public lead submissions per IP. All state lives in the
// shared store so every API instance enforces the same limit.
type LeadRateLimiter struct {
	Repo  entity.RateLimitRepository
	Clock Clock
}

func NewLeadRateLimiter(repo entity.RateLimitRepository, clock Clock) *LeadRateLimiter {
	return &LeadRateLimiter{Repo: repo, Clock: clock}
}

func (rl *LeadRateLimiter) Check(ctx context.Context, ip string) (RateLimitResult, error) {
	now := rl.Clock.now()
	cutoff := now.Add(-entity.RateLimitWindow)

	rec, err := rl.Repo.Get(ctx, ip)
	if err != nil {
		return RateLimitResult{}, technical(CodeDatabase, "failed to read rate limit", err)
	}
	if rec != nil && rec.BlockedAt(now) {
		return blocked(*rec.BlockedUntil), nil
	}

	for attempt := 0; attempt < startWindowAttempts; attempt++ {
		count, ok, err := rl.Repo.Increment(ctx, ip, cutoff, now, entity.MaxLeadsPerWindow)
		if err != nil {
			return RateLimitResult{}, technical(CodeDatabase, "failed to increment rate limit", err)
		}
		if ok {
			return RateLimitResult{Allowed: true, Remaining: remaining(count)}, nil
		}

		rec, err = rl.Repo.Get(ctx, ip)
		if err != nil {
			return RateLimitResult{}, technical(CodeDatabase, "failed to read rate limit", err)
		}
		if rec != nil && rec.BlockedAt(now) {
			return blocked(*rec.BlockedUntil), nil
		}
		if rec != nil && rec.InWindow(now) && rec.LeadCount >= entity.MaxLeadsPerWindow {
			until := now.Add(entity.RateLimitBlock)
			if err := rl.Repo.Block(ctx, ip, until); err != nil {
				return RateLimitResult{}, technical(CodeDatabase, "failed to block ip", err)
			}
			log.Printf("🚫 IP %s blocked until %s", ip, until.Format(time.RFC3339))
			return blocked(until), nil
		}

		started, err := rl.Repo.StartWindow(ctx, ip, cutoff, now)
		if err != nil {
			return RateLimitResult{}, technical(CodeDatabase, "failed to start rate limit window", err)
		}
		if started {
			return RateLimitResult{Allowed: true, Remaining: remaining(1)}, nil
		}
	}

	return RateLimitResult{}, technical(CodeDatabase, "rate limit contention for "+ip, nil)
}

func remaining(count int) int {
	if r := entity.MaxLeadsPerWindow - count; r > 0 {
		return r
	}
	return 0
}

func blocked(until time.Time) RateLimitResult {
	return RateLimitResult{Allowed: false, Remaining: 0, BlockedUntil: &until}
}
