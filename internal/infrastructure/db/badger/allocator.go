package badgerdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const allocatorKey = "allocator"

type indexAllocator struct {
	store     *badgerhold.Store
	ownsStore bool
}

type allocatorDTO struct {
	Counter uint64
}

// NewIndexAllocator persists the counter in the ledger store, so that the increment is
// committed or rolled back together with the coins minted with it.
func NewIndexAllocator(config ...interface{}) (domain.IndexAllocator, error) {
	if len(config) != 2 && len(config) != 3 {
		return nil, fmt.Errorf("invalid config")
	}
	store, err := storeFromConfig(ledgerStoreDir, config...)
	if err != nil {
		return nil, fmt.Errorf("failed to open allocator store: %s", err)
	}
	ownsStore := len(config) == 2 || config[2] == nil

	return &indexAllocator{store, ownsStore}, nil
}

func (a *indexAllocator) NextIndex(ctx context.Context) (domain.TxId, error) {
	var next uint64
	if err := runInTx(ctx, a.store, func(_ context.Context, tx *badger.Txn) error {
		var dto allocatorDTO
		if err := a.store.TxGet(tx, allocatorKey, &dto); err != nil {
			if !errors.Is(err, badgerhold.ErrNotFound) {
				return err
			}
		}
		if dto.Counter == ^uint64(0) {
			return fmt.Errorf("allocator exhausted")
		}
		next = dto.Counter + 1
		return a.store.TxUpsert(tx, allocatorKey, allocatorDTO{next})
	}); err != nil {
		return domain.TxId{}, err
	}
	return domain.TxIdFromIndex(next), nil
}

func (a *indexAllocator) Close() {
	if a.ownsStore {
		// nolint:all
		a.store.Close()
	}
}
