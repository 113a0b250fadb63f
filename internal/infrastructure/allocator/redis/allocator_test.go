package redisallocator_test

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	redisallocator "github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/allocator/redis"
	"github.com/stretchr/testify/require"
)

// Requires a running redis, ie. FVMBRIDGE_TEST_REDIS_URL=redis://localhost:6379/0
func TestNextIndex(t *testing.T) {
	url := os.Getenv("FVMBRIDGE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FVMBRIDGE_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	allocator, err := redisallocator.NewIndexAllocatorFromURL(ctx, url, 0)
	require.NoError(t, err)
	t.Cleanup(allocator.Close)

	t.Run("strictly increasing", func(t *testing.T) {
		prev, err := allocator.NextIndex(ctx)
		require.NoError(t, err)
		for range 10 {
			next, err := allocator.NextIndex(ctx)
			require.NoError(t, err)
			require.Equal(t, 1, bytes.Compare(next[:], prev[:]))
			prev = next
		}
	})

	t.Run("unique under concurrency", func(t *testing.T) {
		const workers = 8
		ids := make(chan domain.TxId, workers*10)
		wg := &sync.WaitGroup{}
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 10 {
					id, err := allocator.NextIndex(ctx)
					if err != nil {
						return
					}
					ids <- id
				}
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[domain.TxId]struct{})
		for id := range ids {
			_, ok := seen[id]
			require.False(t, ok)
			seen[id] = struct{}{}
		}
		require.Len(t, seen, workers*10)
	})
}

func TestNewIndexAllocatorFromURL(t *testing.T) {
	_, err := redisallocator.NewIndexAllocatorFromURL(context.Background(), "not-a-url", 3)
	require.Error(t, err)
}
