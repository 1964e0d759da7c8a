package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitEnforcesMinimumInterval(t *testing.T) {
	l := NewLimiter(50)
	ctx := context.Background()

	start := time.Now()
	assert.NoError(t, l.Wait(ctx, "acme.com", 0))
	assert.NoError(t, l.Wait(ctx, "acme.com", 0))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestWaitTracksDomainsIndependently(t *testing.T) {
	l := NewLimiter(200)
	ctx := context.Background()

	assert.NoError(t, l.Wait(ctx, "acme.com", 0))
	start := time.Now()
	assert.NoError(t, l.Wait(ctx, "other.com", 0))
	assert.Less(t, time.Since(start), 100*time.Millisecond, "an unrelated domain must not wait on acme.com's limiter")
}

func TestWaitRespectsPerCallOverride(t *testing.T) {
	l := NewLimiter(1000)
	ctx := context.Background()

	start := time.Now()
	assert.NoError(t, l.Wait(ctx, "acme.com", 20))
	assert.NoError(t, l.Wait(ctx, "acme.com", 20))
	assert.Less(t, time.Since(start), 500*time.Millisecond, "an explicit override interval should take priority over the default")
}

func TestWaitReturnsErrorWhenContextCancelled(t *testing.T) {
	l := NewLimiter(1000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, l.Wait(ctx, "acme.com", 0))
}
