package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const ledgerStoreDir = "ledger"

type coinRepository struct {
	store *badgerhold.Store
}

type coinDTO struct {
	TxId        string
	OutputIndex uint16
	Owner       string
	Amount      uint64
	AssetId     string
	UpdatedAt   int64
}

// NewCoinRepository expects the base directory and the badger logger, and opens the ledger
// store shared with the account and allocator repositories.
func NewCoinRepository(config ...interface{}) (domain.CoinRepository, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid config")
	}
	store, err := storeFromConfig(ledgerStoreDir, config...)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %s", err)
	}

	return &coinRepository{store}, nil
}

func (r *coinRepository) GetStore() *badgerhold.Store {
	return r.store
}

func (r *coinRepository) RunInTx(
	ctx context.Context, fn func(ctx context.Context) error,
) error {
	return runInTx(ctx, r.store, func(ctx context.Context, _ *badger.Txn) error {
		return fn(ctx)
	})
}

func (r *coinRepository) GetCoin(ctx context.Context, id domain.CoinId) (*domain.Coin, error) {
	var dto coinDTO
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, id.String(), &dto)
	} else {
		err = r.store.Get(id.String(), &dto)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	coin, err := dto.toCoin()
	if err != nil {
		return nil, err
	}
	return coin, nil
}

func (r *coinRepository) GetCoinsByOwner(
	ctx context.Context, owner domain.Owner,
) ([]domain.Coin, error) {
	query := badgerhold.Where("Owner").Eq(owner.String())
	dtos, err := r.findCoins(ctx, query)
	if err != nil {
		return nil, err
	}

	coins := make([]domain.Coin, 0, len(dtos))
	for _, dto := range dtos {
		coin, err := dto.toCoin()
		if err != nil {
			return nil, err
		}
		coins = append(coins, *coin)
	}
	sort.SliceStable(coins, func(i, j int) bool {
		return coins[i].CoinId.String() < coins[j].CoinId.String()
	})
	return coins, nil
}

func (r *coinRepository) InsertCoin(ctx context.Context, coin domain.Coin) error {
	dto := coinDTO{
		TxId:        coin.TxId.String(),
		OutputIndex: coin.OutputIndex,
		Owner:       coin.Owner.String(),
		Amount:      coin.Amount,
		AssetId:     coin.AssetId.String(),
		UpdatedAt:   time.Now().UnixMilli(),
	}
	return runInTx(ctx, r.store, func(_ context.Context, tx *badger.Txn) error {
		if err := r.store.TxInsert(tx, coin.CoinId.String(), dto); err != nil {
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrCoinAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r *coinRepository) RemoveCoin(ctx context.Context, id domain.CoinId) error {
	return runInTx(ctx, r.store, func(_ context.Context, tx *badger.Txn) error {
		if err := r.store.TxDelete(tx, id.String(), coinDTO{}); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrCoinNotFound
			}
			return err
		}
		return nil
	})
}

func (r *coinRepository) GetSupply(ctx context.Context, asset domain.AssetId) (uint64, error) {
	query := badgerhold.Where("AssetId").Eq(asset.String())
	dtos, err := r.findCoins(ctx, query)
	if err != nil {
		return 0, err
	}

	var supply, carry uint64
	for _, dto := range dtos {
		supply, carry = bits.Add64(supply, dto.Amount, 0)
		if carry != 0 {
			return 0, fmt.Errorf("supply overflows 64 bits")
		}
	}
	return supply, nil
}

func (r *coinRepository) Close() {
	// nolint:all
	r.store.Close()
}

func (r *coinRepository) findCoins(
	ctx context.Context, query *badgerhold.Query,
) ([]coinDTO, error) {
	var dtos []coinDTO
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &dtos, query)
	} else {
		err = r.store.Find(&dtos, query)
	}
	return dtos, err
}

func (d coinDTO) toCoin() (*domain.Coin, error) {
	txid, err := domain.TxIdFromString(d.TxId)
	if err != nil {
		return nil, err
	}
	owner, err := domain.OwnerFromString(d.Owner)
	if err != nil {
		return nil, err
	}
	asset, err := domain.AssetIdFromString(d.AssetId)
	if err != nil {
		return nil, err
	}
	return &domain.Coin{
		CoinId:  domain.CoinId{TxId: txid, OutputIndex: d.OutputIndex},
		Owner:   owner,
		Amount:  d.Amount,
		AssetId: asset,
	}, nil
}
