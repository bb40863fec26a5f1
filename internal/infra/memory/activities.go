package memory

import (
	"context"
	"sync"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type ActivityRepository struct {
	mu     sync.RWMutex
	byLead map[string][]*entity.LeadActivity
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{byLead: make(map[string][]*entity.LeadActivity)}
}

func (r *ActivityRepository) Append(_ context.Context, a *entity.LeadActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	r.byLead[a.LeadID] = append(r.byLead[a.LeadID], &c)
	return nil
}

// ListByLead returns the history oldest first.
func (r *ActivityRepository) ListByLead(_ context.Context, leadID string) ([]*entity.LeadActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.LeadActivity, 0, len(r.byLead[leadID]))
	for _, a := range r.byLead[leadID] {
		c := *a
		out = append(out, &c)
	}
	return out, nil
}
