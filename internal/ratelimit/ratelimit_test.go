package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	return nil
}

func TestAcquireWithinBudgetNeverSleeps(t *testing.T) {
	clock := newFakeClock()
	limiter := New(3, time.Minute, clock)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Acquire(context.Background()))
	}

	assert.Empty(t, clock.sleeps)
	assert.Equal(t, 0, limiter.Remaining())
}

func TestAcquireBeyondBudgetSuspendsUntilRollover(t *testing.T) {
	clock := newFakeClock()
	limiter := New(3, time.Minute, clock)
	start := clock.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Acquire(context.Background()))
	}

	// The 4th call must be delayed to the next window, not rejected.
	require.NoError(t, limiter.Acquire(context.Background()))

	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, time.Minute, clock.sleeps[0])
	assert.Equal(t, start.Add(time.Minute), clock.Now())
	assert.Equal(t, 2, limiter.Remaining())
}

func TestWindowRolloverRestoresBudget(t *testing.T) {
	clock := newFakeClock()
	limiter := New(2, time.Minute, clock)

	require.NoError(t, limiter.Acquire(context.Background()))
	require.NoError(t, limiter.Acquire(context.Background()))

	clock.mu.Lock()
	clock.now = clock.now.Add(61 * time.Second)
	clock.mu.Unlock()

	require.NoError(t, limiter.Acquire(context.Background()))
	assert.Empty(t, clock.sleeps)
}

func TestAcquireRespectsCancellation(t *testing.T) {
	limiter := New(1, time.Hour, SystemClock())
	require.NoError(t, limiter.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitersAreFIFO(t *testing.T) {
	limiter := New(1, 30*time.Millisecond, SystemClock())

	// Exhaust the first window so the staggered callers all queue.
	require.NoError(t, limiter.Acquire(context.Background()))

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 1; i <= 3; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, limiter.Acquire(context.Background()))
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
		}(i)
		time.Sleep(10 * time.Millisecond)
	}

	wg.Wait()
	assert.Equal(t, []int{1, 2, 3}, order)
}
