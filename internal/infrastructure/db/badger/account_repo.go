package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/holiman/uint256"
	"github.com/timshannon/badgerhold/v4"
)

type accountRepository struct {
	store     *badgerhold.Store
	ownsStore bool
}

type accountDTO struct {
	Address   string
	Balance   string
	UpdatedAt int64
}

// NewAccountRepository expects the base directory, the badger logger and optionally the ledger
// store to share with the coin repository.
func NewAccountRepository(config ...interface{}) (domain.AccountRepository, error) {
	if len(config) != 2 && len(config) != 3 {
		return nil, fmt.Errorf("invalid config")
	}
	store, err := storeFromConfig(ledgerStoreDir, config...)
	if err != nil {
		return nil, fmt.Errorf("failed to open account store: %s", err)
	}
	ownsStore := len(config) == 2 || config[2] == nil

	return &accountRepository{store, ownsStore}, nil
}

func (r *accountRepository) GetBalance(
	ctx context.Context, addr domain.Address,
) (*uint256.Int, error) {
	var dto accountDTO
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, addr.String(), &dto)
	} else {
		err = r.store.Get(addr.String(), &dto)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return uint256.NewInt(0), nil
		}
		return nil, err
	}
	return dto.balance()
}

func (r *accountRepository) AddBalance(
	ctx context.Context, addr domain.Address, amount *uint256.Int,
) error {
	return runInTx(ctx, r.store, func(ctx context.Context, tx *badger.Txn) error {
		balance, err := r.GetBalance(ctx, addr)
		if err != nil {
			return err
		}
		newBalance, overflow := new(uint256.Int).AddOverflow(balance, amount)
		if overflow {
			return fmt.Errorf("balance of %s overflows", addr)
		}
		return r.store.TxUpsert(tx, addr.String(), accountDTO{
			Address:   addr.String(),
			Balance:   newBalance.Dec(),
			UpdatedAt: time.Now().UnixMilli(),
		})
	})
}

func (r *accountRepository) SubBalance(
	ctx context.Context, addr domain.Address, amount *uint256.Int,
) error {
	return runInTx(ctx, r.store, func(ctx context.Context, tx *badger.Txn) error {
		balance, err := r.GetBalance(ctx, addr)
		if err != nil {
			return err
		}
		if balance.Lt(amount) {
			return domain.ErrInsufficientBalance
		}
		return r.store.TxUpsert(tx, addr.String(), accountDTO{
			Address:   addr.String(),
			Balance:   new(uint256.Int).Sub(balance, amount).Dec(),
			UpdatedAt: time.Now().UnixMilli(),
		})
	})
}

func (r *accountRepository) Close() {
	if r.ownsStore {
		// nolint:all
		r.store.Close()
	}
}

func (d accountDTO) balance() (*uint256.Int, error) {
	balance, err := uint256.FromDecimal(d.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance %s for %s: %w", d.Balance, d.Address, err)
	}
	return balance, nil
}
