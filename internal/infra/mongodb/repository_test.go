package mongodb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("Skipping test: TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, uri, fmt.Sprintf("crm_test_%d", time.Now().UnixNano()))
	if err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestLeadRepository_GuardedStageAndSweep(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewLeadRepository(db)
	now := time.Now().UTC().Truncate(time.Millisecond)

	lead := entity.NewLead("Asha", "asha@example.com", "9876543210", "Ladakh", now.Add(-8*24*time.Hour))
	lead.Stage = entity.StageProposalSent
	require.NoError(t, repo.Create(ctx, lead))

	ok, err := repo.UpdateStage(ctx, lead.ID, entity.StageNew, entity.StageWon, nil, now)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.UpdateStage(ctx, "missing", entity.StageNew, entity.StageWon, nil, now)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)

	moved, err := repo.MarkStale(ctx, now.Add(-7*24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, entity.StageProposalSent, moved[0].PreviousStage)

	ok, err = repo.UpdateStage(ctx, lead.ID, entity.StageStale, entity.StageProposalSent, nil, now)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := repo.FindByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageProposalSent, stored.Stage)
	assert.Nil(t, stored.PreviousStage)
}

func TestRateLimitRepository_ConcurrentCap(t *testing.T) {
	db := setupTestDB(t)
	rl := usecase.NewLeadRateLimiter(NewRateLimitRepository(db), nil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := rl.Check(context.Background(), "203.0.113.60")
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, allowed)

	rec, err := NewRateLimitRepository(db).Get(context.Background(), "203.0.113.60")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.LeadCount)
	assert.NotNil(t, rec.BlockedUntil)
}
