package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/config"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/database"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/memory"
)

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	p, err := Open(ctx, &config.Config{LeadStore: config.StoreMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &memory.LeadRepository{}, p.Leads)
	assert.IsType(t, &memory.RateLimitRepository{}, p.RateLimits)
	assert.NoError(t, p.Close(ctx))

	p, err = Open(ctx, &config.Config{LeadStore: config.StorePostgres}, nil)
	require.NoError(t, err)
	assert.IsType(t, &database.LeadRepository{}, p.Leads)
	assert.Nil(t, p.Mongo)

	_, err = Open(ctx, &config.Config{LeadStore: "redis"}, nil)
	assert.ErrorContains(t, err, "redis")
}
