package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/memory"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

// TestRateLimiterSequence - three submissions pass, the fourth blocks the IP for one hour
func TestRateLimiterSequence(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	start := clock.now
	rl := usecase.NewLeadRateLimiter(memory.NewRateLimitRepository(), clock.Clock())

	for i, want := range []int{2, 1, 0} {
		res, err := rl.Check(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "submission %d", i)
		assert.Equal(t, want, res.Remaining)
		clock.Advance(time.Minute)
	}

	res, err := rl.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	require.NotNil(t, res.BlockedUntil)
	assert.Equal(t, start.Add(63*time.Minute), *res.BlockedUntil)

	// still blocked after the original window expired
	clock.now = start.Add(62 * time.Minute)
	res, err = rl.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	clock.now = start.Add(63 * time.Minute)
	res, err = rl.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}

// TestRateLimiterWindowReset - an expired window starts over without a block
func TestRateLimiterWindowReset(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	rl := usecase.NewLeadRateLimiter(memory.NewRateLimitRepository(), clock.Clock())

	for i := 0; i < 2; i++ {
		_, err := rl.Check(ctx, "198.51.100.1")
		require.NoError(t, err)
	}
	clock.Advance(61 * time.Minute)

	res, err := rl.Check(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}

// TestRateLimiterIsolatesIPs - the counter is per client IP
func TestRateLimiterIsolatesIPs(t *testing.T) {
	ctx := context.Background()
	rl := usecase.NewLeadRateLimiter(memory.NewRateLimitRepository(), newTestClock().Clock())

	for i := 0; i < 4; i++ {
		_, err := rl.Check(ctx, "10.0.0.1")
		require.NoError(t, err)
	}
	res, err := rl.Check(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

// TestRateLimiterConcurrent - parallel submissions from one IP never exceed the cap
func TestRateLimiterConcurrent(t *testing.T) {
	ctx := context.Background()
	rl := usecase.NewLeadRateLimiter(memory.NewRateLimitRepository(), newTestClock().Clock())

	const callers = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
		blocked int
		errs    []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := rl.Check(ctx, "192.0.2.10")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				errs = append(errs, err)
			case res.Allowed:
				allowed++
			default:
				blocked++
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Equal(t, 3, allowed)
	assert.Equal(t, callers-3, blocked)
}
