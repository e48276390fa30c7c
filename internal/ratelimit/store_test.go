package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore_SixthRequestInWindowDenied(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(WithClock(clock.Now))

	for i := 1; i <= 5; i++ {
		assert.True(t, store.Allow("203.0.113.7", 5, time.Minute), "request %d should be allowed", i)
		clock.Advance(time.Second)
	}
	assert.False(t, store.Allow("203.0.113.7", 5, time.Minute), "6th request should be denied")
	assert.False(t, store.Allow("203.0.113.7", 5, time.Minute), "denied requests are not counted but stay denied")
}

func TestStore_WindowElapsedResetsCount(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		require.True(t, store.Allow("client", 5, time.Minute))
	}
	require.False(t, store.Allow("client", 5, time.Minute))

	clock.Advance(time.Minute + time.Millisecond)
	assert.True(t, store.Allow("client", 5, time.Minute))

	info := store.Status("client", 5, time.Minute)
	assert.Equal(t, 4, info.Remaining)
}

func TestStore_BoundaryInstantStillInOldWindow(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(WithClock(clock.Now))

	require.True(t, store.Allow("client", 1, time.Minute))

	// resetAt == now is not yet expired
	clock.Advance(time.Minute)
	assert.False(t, store.Allow("client", 1, time.Minute))

	clock.Advance(time.Nanosecond)
	assert.True(t, store.Allow("client", 1, time.Minute))
}

func TestStore_IdentifiersAreIndependent(t *testing.T) {
	store := NewStore()

	require.True(t, store.Allow("a", 1, time.Minute))
	assert.False(t, store.Allow("a", 1, time.Minute))
	assert.True(t, store.Allow("b", 1, time.Minute))
}

func TestStore_ResetAtStrictlyIncreasesPerWindow(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(WithClock(clock.Now))

	var previous time.Time
	for i := 0; i < 3; i++ {
		require.True(t, store.Allow("client", 5, time.Minute))
		resetAt := store.Status("client", 5, time.Minute).ResetAt
		assert.True(t, resetAt.After(previous))
		previous = resetAt
		clock.Advance(2 * time.Minute)
	}
}

func TestStore_StatusDoesNotCount(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(WithClock(clock.Now))

	info := store.Status("fresh", 5, time.Minute)
	assert.Equal(t, Info{Limit: 5, Remaining: 5, ResetAt: clock.Now().Add(time.Minute), RetryAfter: time.Minute}, info)
	assert.Equal(t, 0, store.Len())

	for i := 0; i < 5; i++ {
		store.Allow("fresh", 5, time.Minute)
	}
	assert.Equal(t, 0, store.Status("fresh", 5, time.Minute).Remaining)

	clock.Advance(20 * time.Second)
	assert.Equal(t, 40*time.Second, store.Status("fresh", 5, time.Minute).RetryAfter)
}

func TestStore_SweepsExpiredEntriesAboveThreshold(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(WithClock(clock.Now), WithSweepThreshold(2))

	for _, id := range []string{"a", "b", "c"} {
		require.True(t, store.Allow(id, 5, time.Minute))
	}
	require.Equal(t, 3, store.Len())

	clock.Advance(2 * time.Minute)
	require.True(t, store.Allow("d", 5, time.Minute))

	assert.Equal(t, 1, store.Len())
}

func TestStore_NoSweepAtOrBelowThreshold(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(WithClock(clock.Now), WithSweepThreshold(3))

	for _, id := range []string{"a", "b", "c"} {
		require.True(t, store.Allow(id, 5, time.Minute))
	}
	clock.Advance(2 * time.Minute)
	require.True(t, store.Allow("d", 5, time.Minute))

	assert.Equal(t, 4, store.Len())
}

func TestStore_ConcurrentRequestsNeverExceedLimit(t *testing.T) {
	store := NewStore()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Allow("shared", 5, time.Minute) {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowed.Load())
}

func TestStore_Reset(t *testing.T) {
	store := NewStore()
	require.True(t, store.Allow("client", 1, time.Minute))
	require.False(t, store.Allow("client", 1, time.Minute))

	store.Reset()

	assert.Equal(t, 0, store.Len())
	assert.True(t, store.Allow("client", 1, time.Minute))
}

func TestStore_AllowWithInfoReportsOwnCount(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(WithClock(clock.Now))

	for want := 4; want >= 0; want-- {
		allowed, info := store.AllowWithInfo("client", 5, time.Minute)
		require.True(t, allowed)
		assert.Equal(t, want, info.Remaining)
		assert.Equal(t, clock.Now().Add(time.Minute), info.ResetAt)
	}

	allowed, info := store.AllowWithInfo("client", 5, time.Minute)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, time.Minute, info.RetryAfter)
}

func TestStore_AllowWithInfoConcurrentRemainingIsUnique(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[int]int{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, info := store.AllowWithInfo("shared", 5, time.Minute); allowed {
				mu.Lock()
				seen[info.Remaining]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1}, seen)
}
