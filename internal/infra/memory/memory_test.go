package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestLeadUpdateStageIsGuarded(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository()
	lead := entity.NewLead("Asha", "asha@example.com", "9876543210", "Goa", t0)
	require.NoError(t, repo.Create(ctx, lead))

	var wg sync.WaitGroup
	wins := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.UpdateStage(ctx, lead.ID, entity.StageNew, entity.StageContacted, nil, t0.Add(time.Minute))
			assert.NoError(t, err)
			wins <- ok
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	assert.Equal(t, 1, won)

	stored, err := repo.FindByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageContacted, stored.Stage)
	assert.Equal(t, t0.Add(time.Minute), stored.LastActivityAt)

	_, err = repo.UpdateStage(ctx, "missing", entity.StageNew, entity.StageContacted, nil, t0)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository()
	lead := entity.NewLead("Asha", "asha@example.com", "9876543210", "Goa", t0)
	require.NoError(t, repo.Create(ctx, lead))

	got, _ := repo.FindByID(ctx, lead.ID)
	got.Stage = entity.StageWon
	got.Documents = append(got.Documents, "x.pdf")

	again, _ := repo.FindByID(ctx, lead.ID)
	assert.Equal(t, entity.StageNew, again.Stage)
	assert.Empty(t, again.Documents)
}

func TestMarkStale(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository()
	cutoff := t0.Add(-7 * 24 * time.Hour)

	old := entity.NewLead("Old", "old@example.com", "", "Goa", cutoff.Add(-time.Hour))
	old.Stage = entity.StageQualified
	won := entity.NewLead("Won", "won@example.com", "", "Goa", cutoff.Add(-time.Hour))
	won.Stage = entity.StageWon
	fresh := entity.NewLead("Fresh", "fresh@example.com", "", "Goa", t0)
	for _, l := range []*entity.Lead{old, won, fresh} {
		require.NoError(t, repo.Create(ctx, l))
	}

	moved, err := repo.MarkStale(ctx, cutoff, t0)
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, entity.StaleCandidate{LeadID: old.ID, PreviousStage: entity.StageQualified, LastActivityAt: old.LastActivityAt}, moved[0])

	stored, _ := repo.FindByID(ctx, old.ID)
	assert.Equal(t, entity.StageStale, stored.Stage)
	require.NotNil(t, stored.PreviousStage)
	assert.Equal(t, entity.StageQualified, *stored.PreviousStage)

	again, err := repo.MarkStale(ctx, cutoff, t0)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository()
	agent := "agent-1"
	a := entity.NewLead("A", "a@example.com", "", "Goa", t0)
	a.AgentID = &agent
	b := entity.NewLead("B", "b@example.com", "", "Goa", t0.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	all, _ := repo.List(ctx, entity.LeadFilter{})
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)

	mine, _ := repo.List(ctx, entity.LeadFilter{AgentID: agent})
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)

	byEmail, _ := repo.List(ctx, entity.LeadFilter{Email: "b@example.com"})
	assert.Len(t, byEmail, 1)
}

func TestActivitiesAppendOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository()
	require.NoError(t, repo.Append(ctx, entity.NewActivity("lead-1", entity.ActionCreated, "", t0)))
	require.NoError(t, repo.Append(ctx, entity.NewStageActivity("lead-1", entity.ActionStageChanged, entity.StageNew, entity.StageContacted, t0.Add(time.Minute))))

	list, err := repo.ListByLead(ctx, "lead-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, entity.ActionCreated, list[0].Action)
	assert.Equal(t, entity.ActionStageChanged, list[1].Action)

	empty, err := repo.ListByLead(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRateLimitRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewRateLimitRepository()
	ip := "198.51.100.1"
	cutoff := t0.Add(-time.Hour)

	_, ok, _ := repo.Increment(ctx, ip, cutoff, t0, 3)
	assert.False(t, ok, "no record yet")

	started, err := repo.StartWindow(ctx, ip, cutoff, t0)
	require.NoError(t, err)
	assert.True(t, started)

	started, _ = repo.StartWindow(ctx, ip, cutoff, t0)
	assert.False(t, started, "window still fresh")

	count, ok, _ := repo.Increment(ctx, ip, cutoff, t0, 3)
	assert.True(t, ok)
	assert.Equal(t, 2, count)

	until := t0.Add(time.Hour)
	require.NoError(t, repo.Block(ctx, ip, until))
	_, ok, _ = repo.Increment(ctx, ip, cutoff, t0, 3)
	assert.False(t, ok, "blocked")

	later := t0.Add(90 * time.Minute)
	started, _ = repo.StartWindow(ctx, ip, later.Add(-time.Hour), t0.Add(30*time.Minute))
	assert.False(t, started, "block still active")

	started, _ = repo.StartWindow(ctx, ip, later.Add(-time.Hour), later)
	assert.True(t, started)

	rec, err := repo.Get(ctx, ip)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.LeadCount)
	assert.Nil(t, rec.BlockedUntil)

	require.NoError(t, repo.Block(ctx, "unknown", until))
	missing, err := repo.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
