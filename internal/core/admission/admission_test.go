package admission

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

func TestCapacityBound(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(5, time.Minute, WithClock(fixedClock(&now)))

	admitted := 0
	for i := 0; i < 20; i++ {
		if ctrl.Allow("203.0.113.7").Admitted {
			admitted++
		}
	}
	require.Equal(t, 5, admitted)
}

func TestSixthCallRejectedWithFullWindowRetry(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(5, time.Minute, WithClock(fixedClock(&now)))

	for i := 0; i < 5; i++ {
		res := ctrl.Allow("203.0.113.7")
		require.True(t, res.Admitted)
		require.Equal(t, 4-i, res.Remaining)
		require.Equal(t, 5, res.Limit)
	}

	res := ctrl.Allow("203.0.113.7")
	require.False(t, res.Admitted)
	require.Equal(t, time.Minute, res.RetryAfter)
	require.Equal(t, 5, res.Limit)
	require.Equal(t, time.Minute, res.Window)
}

func TestWindowReset(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(5, time.Minute, WithClock(fixedClock(&now)))

	for i := 0; i < 6; i++ {
		ctrl.Allow("203.0.113.7")
	}

	now = now.Add(61 * time.Second)
	res := ctrl.Allow("203.0.113.7")
	require.True(t, res.Admitted)
	require.Equal(t, 4, res.Remaining)
}

func TestRetryAfterBoundsAndElapse(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(2, 30*time.Second, WithClock(fixedClock(&now)))

	ctrl.Allow("10.0.0.1")
	now = now.Add(10 * time.Second)
	ctrl.Allow("10.0.0.1")

	res := ctrl.Allow("10.0.0.1")
	require.False(t, res.Admitted)
	require.Greater(t, res.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, res.RetryAfter, 30*time.Second)
	require.Equal(t, 20*time.Second, res.RetryAfter)

	// Sleeping exactly RetryAfter lands on the rollover boundary.
	now = now.Add(res.RetryAfter)
	require.True(t, ctrl.Allow("10.0.0.1").Admitted)
}

func TestIdentityIsolation(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(1, time.Minute, WithClock(fixedClock(&now)))

	require.True(t, ctrl.Allow("a").Admitted)
	require.False(t, ctrl.Allow("a").Admitted)

	require.True(t, ctrl.Allow("b").Admitted)
}

func TestRemainingNeverNegative(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(3, time.Minute, WithClock(fixedClock(&now)))

	for i := 0; i < 50; i++ {
		res := ctrl.Allow("a")
		require.GreaterOrEqual(t, res.Remaining, 0)
		require.LessOrEqual(t, res.Remaining, 3)
		if i%7 == 0 {
			now = now.Add(9 * time.Second)
		}
	}
}

func TestConcurrentCallersAdmitExactlyCapacity(t *testing.T) {
	const capacity = 8
	const callers = 64

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(capacity, time.Minute, WithClock(func() time.Time { return now }))

	var wg sync.WaitGroup
	results := make([]bool, callers)
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = ctrl.Allow("shared").Admitted
		}(i)
	}
	close(start)
	wg.Wait()

	admitted := 0
	for _, ok := range results {
		if ok {
			admitted++
		}
	}
	require.Equal(t, capacity, admitted)
}

func TestIdleEntriesSwept(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(5, time.Minute,
		WithClock(fixedClock(&now)),
		WithRetention(10*time.Minute))

	ctrl.Allow("stale")
	now = now.Add(11 * time.Minute)
	ctrl.Allow("fresh")

	require.Equal(t, 1, ctrl.Len())

	// A swept identity comes back as a fresh entry, not an error.
	res := ctrl.Allow("stale")
	require.True(t, res.Admitted)
	require.Equal(t, 4, res.Remaining)
}
