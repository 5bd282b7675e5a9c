package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func TestMemory_FourthWithinWindowDenied(t *testing.T) {
	t.Parallel()

	clock := newClock()
	lim := NewMemory(Policy{}).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := lim.Allow(ctx, "198.51.100.7")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
		clock.Advance(10 * time.Minute)
	}

	ok, err := lim.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_AllowedAfterRollover(t *testing.T) {
	t.Parallel()

	clock := newClock()
	lim := NewMemory(Policy{}).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := lim.Allow(ctx, "id")
		require.NoError(t, err)
	}

	clock.Advance(59 * time.Minute)
	ok, _ := lim.Allow(ctx, "id")
	assert.False(t, ok)

	clock.Advance(time.Minute)
	ok, _ = lim.Allow(ctx, "id")
	assert.True(t, ok)

	// A fresh window has a full budget again.
	ok, _ = lim.Allow(ctx, "id")
	assert.True(t, ok)
	ok, _ = lim.Allow(ctx, "id")
	assert.True(t, ok)
	ok, _ = lim.Allow(ctx, "id")
	assert.False(t, ok)
}

func TestMemory_IdentitiesAreIndependent(t *testing.T) {
	t.Parallel()

	lim := NewMemory(Policy{MaxRequests: 1, Window: time.Minute})
	ctx := context.Background()

	ok, _ := lim.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = lim.Allow(ctx, "a")
	assert.False(t, ok)
	ok, _ = lim.Allow(ctx, "b")
	assert.True(t, ok)
}

func TestMemory_PrunesExpiredEntries(t *testing.T) {
	t.Parallel()

	clock := newClock()
	lim := NewMemory(Policy{MaxRequests: 1, Window: time.Minute}).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < pruneEvery-1; i++ {
		_, err := lim.Allow(ctx, fmt.Sprintf("id-%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, pruneEvery-1, lim.Len())

	clock.Advance(2 * time.Minute)
	_, err := lim.Allow(ctx, "late")
	require.NoError(t, err)
	assert.Equal(t, 1, lim.Len())
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	lim := NewMemory(Policy{MaxRequests: 3, Window: time.Hour})
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := lim.Allow(ctx, "same")
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, allowed)
}

func TestPostgres_Allow(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	clock := newClock()
	lim := NewPostgres(mock, Policy{}).WithClock(clock.Now)
	now := clock.Now()

	for _, count := range []int{1, 3, 4} {
		mock.ExpectQuery(`INSERT INTO rate_limits .+ ON CONFLICT \(identity\) DO UPDATE .+ RETURNING count`).
			WithArgs("198.51.100.7", now, now.Add(time.Hour), 4).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(count))
	}

	ok, err := lim.Allow(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lim.Allow(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lim.Allow(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AllowError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	lim := NewPostgres(mock, Policy{})
	mock.ExpectQuery(`INSERT INTO rate_limits`).
		WithArgs("id", pgxmock.AnyArg(), pgxmock.AnyArg(), 4).
		WillReturnError(errors.New("db down"))

	ok, err := lim.Allow(context.Background(), "id")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "ratelimit: upsert counter")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Prune(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	lim := NewPostgres(mock, Policy{})
	mock.ExpectExec(`DELETE FROM rate_limits WHERE reset_at <= \$1`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := lim.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
