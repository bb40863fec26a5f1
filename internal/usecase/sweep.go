package usecase

import (
	"context"
	"log"
	"time"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

const DefaultStaleAfter = 7 * 24 * time.Hour

// StaleSweeper moves leads without activity for StaleAfter into stale.
type StaleSweeper struct {
	Leads      entity.LeadRepository
	Activities entity.ActivityRepository
	Clock      Clock
	StaleAfter time.Duration
}

func NewStaleSweeper(leads entity.LeadRepository, activities entity.ActivityRepository, clock Clock) *StaleSweeper {
	return &StaleSweeper{
		Leads:      leads,
		Activities: activities,
		Clock:      clock,
		StaleAfter: DefaultStaleAfter,
	}
}

func (s *StaleSweeper) Run(ctx context.Context) (*SweepResult, error) {
	now := s.Clock.now()
	cutoff := now.Add(-s.StaleAfter)

	moved, err := s.Leads.MarkStale(ctx, cutoff, now)
	if err != nil {
		return nil, technical(CodeDatabase, "failed to mark stale leads", err)
	}

	result := &SweepResult{Staled: len(moved), LeadIDs: make([]string, 0, len(moved))}
	for _, c := range moved {
		result.LeadIDs = append(result.LeadIDs, c.LeadID)

		activity := entity.NewStageActivity(c.LeadID, entity.ActionAutoStale, c.PreviousStage, entity.StageStale, now)
		activity.Details = "no activity since " + c.LastActivityAt.UTC().Format(time.RFC3339)
		if err := s.Activities.Append(ctx, activity); err != nil {
			result.ActivityFailures++
			log.Printf("⚠️ auto_stale activity for lead %s not recorded: %v", c.LeadID, err)
		}
	}

	if result.Staled > 0 {
		log.Printf("✅ %d lead(s) marked stale", result.Staled)
	}
	return result, nil
}
