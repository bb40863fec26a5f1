package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type RateLimitRepository struct {
	mu      sync.Mutex
	records map[string]*entity.IPRateLimit
}

func NewRateLimitRepository() *RateLimitRepository {
	return &RateLimitRepository{records: make(map[string]*entity.IPRateLimit)}
}

func (r *RateLimitRepository) Get(_ context.Context, ip string) (*entity.IPRateLimit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[ip]
	if !ok {
		return nil, nil
	}
	c := *rec
	return &c, nil
}

func (r *RateLimitRepository) Increment(_ context.Context, ip string, windowCutoff, now time.Time, max int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[ip]
	if !ok || !rec.WindowStart.After(windowCutoff) || rec.LeadCount >= max || rec.BlockedAt(now) {
		return 0, false, nil
	}
	rec.LeadCount++
	return rec.LeadCount, true, nil
}

func (r *RateLimitRepository) Block(_ context.Context, ip string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[ip]; ok {
		rec.BlockedUntil = &until
	}
	return nil
}

func (r *RateLimitRepository) StartWindow(_ context.Context, ip string, windowCutoff, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[ip]
	if ok && (rec.WindowStart.After(windowCutoff) || rec.BlockedAt(now)) {
		return false, nil
	}
	r.records[ip] = &entity.IPRateLimit{IPAddress: ip, LeadCount: 1, WindowStart: now}
	return true, nil
}
