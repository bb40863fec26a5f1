package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

// LeadRepository keeps leads in process memory. Every conditional write runs
// under one mutex, which gives the same guarantees as the guarded SQL updates.
type LeadRepository struct {
	mu    sync.RWMutex
	leads map[string]*entity.Lead
}

func NewLeadRepository() *LeadRepository {
	return &LeadRepository{leads: make(map[string]*entity.Lead)}
}

func (r *LeadRepository) Create(_ context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[lead.ID] = cloneLead(lead)
	return nil
}

func (r *LeadRepository) FindByID(_ context.Context, id string) (*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lead, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	return cloneLead(lead), nil
}

func (r *LeadRepository) List(_ context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entity.Lead{}
	for _, l := range r.leads {
		if filter.Stage != "" && l.Stage != filter.Stage {
			continue
		}
		if filter.AgentID != "" && (l.AgentID == nil || *l.AgentID != filter.AgentID) {
			continue
		}
		if filter.Email != "" && l.Email != filter.Email {
			continue
		}
		out = append(out, cloneLead(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *LeadRepository) UpdateStage(_ context.Context, id string, from, to entity.Stage, previous *entity.Stage, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return false, entity.ErrLeadNotFound
	}
	if l.Stage != from {
		return false, nil
	}
	l.Stage = to
	l.PreviousStage = copyStage(previous)
	l.LastActivityAt = now
	l.UpdatedAt = now
	return true, nil
}

func (r *LeadRepository) AssignAgent(_ context.Context, id, agentID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return entity.ErrLeadNotFound
	}
	l.AgentID = &agentID
	l.LastActivityAt = now
	l.UpdatedAt = now
	return nil
}

// UpdateDetails writes the editable fields of lead; stage and assignment are
// left to their own guarded operations.
func (r *LeadRepository) UpdateDetails(_ context.Context, lead *entity.Lead, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[lead.ID]
	if !ok {
		return entity.ErrLeadNotFound
	}
	l.TravelDate = lead.TravelDate
	l.DurationDays = lead.DurationDays
	l.Budget = lead.Budget
	l.NetAmount = lead.NetAmount
	l.TripProfit = lead.TripProfit
	l.PaymentStatus = lead.PaymentStatus
	l.ItineraryURL = lead.ItineraryURL
	l.Documents = append([]string{}, lead.Documents...)
	l.Notes = lead.Notes
	l.LastActivityAt = now
	l.UpdatedAt = now
	return nil
}

func (r *LeadRepository) Touch(_ context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return entity.ErrLeadNotFound
	}
	l.LastActivityAt = now
	l.UpdatedAt = now
	return nil
}

func (r *LeadRepository) MarkStale(_ context.Context, cutoff, now time.Time) ([]entity.StaleCandidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var moved []entity.StaleCandidate
	for _, l := range r.leads {
		if !l.Stage.Active() || !l.LastActivityAt.Before(cutoff) {
			continue
		}
		prev := l.Stage
		l.PreviousStage = &prev
		l.Stage = entity.StageStale
		l.UpdatedAt = now
		moved = append(moved, entity.StaleCandidate{LeadID: l.ID, PreviousStage: prev, LastActivityAt: l.LastActivityAt})
	}
	return moved, nil
}

func cloneLead(l *entity.Lead) *entity.Lead {
	c := *l
	c.Travelers = append([]entity.Traveler{}, l.Travelers...)
	c.Documents = append([]string{}, l.Documents...)
	c.PreviousStage = copyStage(l.PreviousStage)
	if l.AgentID != nil {
		id := *l.AgentID
		c.AgentID = &id
	}
	if l.CustomerID != nil {
		id := *l.CustomerID
		c.CustomerID = &id
	}
	return &c
}

func copyStage(s *entity.Stage) *entity.Stage {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
