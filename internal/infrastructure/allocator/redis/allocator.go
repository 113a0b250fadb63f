package redisallocator

import (
	"context"
	"fmt"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const counterKey = "fvmbridge:allocator:counter"

// indexAllocator hands out identifiers from a redis counter, which makes them unique across
// bridge instances sharing the same redis. The counter is not rolled back together with the
// ledger, hence aborted operations leave gaps in the sequence.
type indexAllocator struct {
	rdb *redis.Client
	key string
}

func NewIndexAllocator(rdb *redis.Client) domain.IndexAllocator {
	return &indexAllocator{rdb: rdb, key: counterKey}
}

// NewIndexAllocatorFromURL connects to the redis at the given url, ie.
// redis://localhost:6379/0. A positive numOfRetries overrides the default number of retries
// of failed commands.
func NewIndexAllocatorFromURL(
	ctx context.Context, url string, numOfRetries int,
) (domain.IndexAllocator, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if numOfRetries > 0 {
		opts.MaxRetries = numOfRetries
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		//nolint:errcheck
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewIndexAllocator(rdb), nil
}

func (a *indexAllocator) NextIndex(ctx context.Context) (domain.TxId, error) {
	counter, err := a.rdb.Incr(ctx, a.key).Result()
	if err != nil {
		return domain.TxId{}, fmt.Errorf("failed to increment allocator: %w", err)
	}
	if counter <= 0 {
		return domain.TxId{}, fmt.Errorf("invalid allocator counter %d", counter)
	}
	return domain.TxIdFromIndex(uint64(counter)), nil
}

func (a *indexAllocator) Close() {
	if err := a.rdb.Close(); err != nil {
		log.WithError(err).Warn("failed to close redis allocator")
	}
}
