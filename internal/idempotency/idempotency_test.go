package idempotency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/matheusmosca/storefront/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGuard_ReplaysFirstResult(t *testing.T) {
	// Arrange
	ctx := context.Background()
	guard := NewGuard(NewMemoryStore(), time.Hour)
	calls := 0
	fn := func(context.Context) (string, error) {
		calls++
		return "order-1", nil
	}

	// Act
	first, replayedFirst, err1 := guard.Do(ctx, "k", fn)
	second, replayedSecond, err2 := guard.Do(ctx, "k", fn)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, "order-1", first)
	assert.Equal(t, "order-1", second)
	assert.False(t, replayedFirst)
	assert.True(t, replayedSecond)
	assert.Equal(t, 1, calls)
}

func TestGuard_FailureReleasesKey(t *testing.T) {
	ctx := context.Background()
	guard := NewGuard(NewMemoryStore(), time.Hour)
	boom := errors.New("boom")

	_, _, err := guard.Do(ctx, "k", func(context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)

	result, replayed, err := guard.Do(ctx, "k", func(context.Context) (string, error) { return "order-2", nil })
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "order-2", result)
}

func TestGuard_PanicReleasesKey(t *testing.T) {
	// Arrange
	ctx := context.Background()
	guard := NewGuard(NewMemoryStore(), time.Hour)

	// Act
	assert.PanicsWithValue(t, "checkout exploded", func() {
		_, _, _ = guard.Do(ctx, "k", func(context.Context) (string, error) {
			panic("checkout exploded")
		})
	})
	result, replayed, err := guard.Do(ctx, "k", func(context.Context) (string, error) { return "order-3", nil })

	// Assert
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "order-3", result)
}

func TestGuard_ConcurrentDuplicatesRunOnce(t *testing.T) {
	ctx := context.Background()
	guard := NewGuard(NewMemoryStore(), time.Hour)
	release := make(chan struct{})
	var calls atomic.Int32

	results := make(chan error, 5)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := guard.Do(ctx, "k", func(context.Context) (string, error) {
				calls.Add(1)
				<-release
				return "order-1", nil
			})
			results <- err
		}()
	}

	// the four duplicates return while the first one is still blocked
	for i := 0; i < 4; i++ {
		assert.ErrorIs(t, <-results, domain.ErrConflict)
	}
	close(release)
	wg.Wait()

	assert.NoError(t, <-results)
	assert.EqualValues(t, 1, calls.Load())
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	reserved, err := s.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)

	reserved, _ = s.Reserve(ctx, "k", time.Minute)
	assert.False(t, reserved)

	now = now.Add(2 * time.Minute)
	_, ok, _ := s.Get(ctx, "k")
	assert.False(t, ok)
	reserved, _ = s.Reserve(ctx, "k", time.Minute)
	assert.True(t, reserved)
}
