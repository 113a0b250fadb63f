package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db/postgres/sqlc/queries"
	"github.com/holiman/uint256"
)

type accountRepository struct {
	db      *sql.DB
	querier *queries.Queries
}

func NewAccountRepository(config ...interface{}) (domain.AccountRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config: expected 1 argument, got %d", len(config))
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf(
			"cannot open account repository: expected *sql.DB but got %T", config[0],
		)
	}

	return &accountRepository{
		db:      db,
		querier: queries.New(db),
	}, nil
}

func (r *accountRepository) GetBalance(
	ctx context.Context, addr domain.Address,
) (*uint256.Int, error) {
	balance, err := querierFromContext(ctx, r.querier).SelectAccountBalance(ctx, addr.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uint256.NewInt(0), nil
		}
		return nil, fmt.Errorf("failed to get balance of %s: %w", addr, err)
	}
	return uint256.FromDecimal(balance)
}

func (r *accountRepository) AddBalance(
	ctx context.Context, addr domain.Address, amount *uint256.Int,
) error {
	if err := querierFromContext(ctx, r.querier).CreditAccount(ctx, queries.CreditAccountParams{
		Address:   addr.String(),
		Balance:   amount.Dec(),
		UpdatedAt: time.Now().Unix(),
	}); err != nil {
		return fmt.Errorf("failed to credit %s: %w", addr, err)
	}
	return nil
}

func (r *accountRepository) SubBalance(
	ctx context.Context, addr domain.Address, amount *uint256.Int,
) error {
	if amount.IsZero() {
		return nil
	}
	count, err := querierFromContext(ctx, r.querier).DebitAccount(ctx, queries.DebitAccountParams{
		Address:   addr.String(),
		Balance:   amount.Dec(),
		UpdatedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to debit %s: %w", addr, err)
	}
	if count == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (r *accountRepository) Close() {
	_ = r.db.Close()
}
