package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ganot/rbm-dashboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestWriteGuard_Exclusive(t *testing.T) {
	guard := repository.NewWriteGuard()
	require.NoError(t, guard.Lock(context.Background()))
	require.False(t, guard.TryLock())
	guard.Unlock()
	require.True(t, guard.TryLock())
	guard.Unlock()
}

func TestWriteGuard_LockHonoursContext(t *testing.T) {
	guard := repository.NewWriteGuard()
	require.NoError(t, guard.Lock(context.Background()))
	defer guard.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, guard.Lock(ctx), context.DeadlineExceeded)
}

func TestWriteGuard_UnlockUnlockedPanics(t *testing.T) {
	guard := repository.NewWriteGuard()
	require.Panics(t, guard.Unlock)
}

func TestUpdate_SerializesConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	docs := repository.NewDocumentStore(repository.NewMemoryStore(), repository.DocumentOptions{}, nil)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repository.Update(ctx, docs, "counter.json", func(c counter, _ bool) (counter, error) {
				c.Total++
				return c, nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	got, _, err := repository.Load[counter](ctx, docs, "counter.json")
	require.NoError(t, err)
	require.Equal(t, writers, got.Total)
}
