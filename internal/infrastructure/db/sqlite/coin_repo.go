package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"time"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db/sqlite/sqlc/queries"
)

type coinRepository struct {
	db      *sql.DB
	querier *queries.Queries
}

func NewCoinRepository(config ...interface{}) (domain.CoinRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config: expected 1 argument, got %d", len(config))
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf(
			"cannot open coin repository: expected *sql.DB but got %T", config[0],
		)
	}

	return &coinRepository{
		db:      db,
		querier: queries.New(db),
	}, nil
}

func (r *coinRepository) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return RunInTx(ctx, r.db, fn)
}

func (r *coinRepository) GetCoin(ctx context.Context, id domain.CoinId) (*domain.Coin, error) {
	row, err := querierFromContext(ctx, r.querier).SelectCoin(ctx, queries.SelectCoinParams{
		Txid:        id.TxId.String(),
		OutputIndex: int64(id.OutputIndex),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coin %s: %w", id, err)
	}
	return toCoin(row)
}

func (r *coinRepository) GetCoinsByOwner(
	ctx context.Context, owner domain.Owner,
) ([]domain.Coin, error) {
	rows, err := querierFromContext(ctx, r.querier).SelectCoinsByOwner(ctx, owner.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get coins of %s: %w", owner, err)
	}

	coins := make([]domain.Coin, 0, len(rows))
	for _, row := range rows {
		coin, err := toCoin(row)
		if err != nil {
			return nil, err
		}
		coins = append(coins, *coin)
	}
	return coins, nil
}

func (r *coinRepository) InsertCoin(ctx context.Context, coin domain.Coin) error {
	err := querierFromContext(ctx, r.querier).InsertCoin(ctx, queries.InsertCoinParams{
		Txid:        coin.TxId.String(),
		OutputIndex: int64(coin.OutputIndex),
		Owner:       coin.Owner.String(),
		Amount:      strconv.FormatUint(coin.Amount, 10),
		AssetID:     coin.AssetId.String(),
		CreatedAt:   time.Now().Unix(),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCoinAlreadyExists
		}
		return fmt.Errorf("failed to insert coin %s: %w", coin.CoinId, err)
	}
	return nil
}

func (r *coinRepository) RemoveCoin(ctx context.Context, id domain.CoinId) error {
	count, err := querierFromContext(ctx, r.querier).DeleteCoin(ctx, queries.DeleteCoinParams{
		Txid:        id.TxId.String(),
		OutputIndex: int64(id.OutputIndex),
	})
	if err != nil {
		return fmt.Errorf("failed to remove coin %s: %w", id, err)
	}
	if count == 0 {
		return domain.ErrCoinNotFound
	}
	return nil
}

func (r *coinRepository) GetSupply(ctx context.Context, asset domain.AssetId) (uint64, error) {
	amounts, err := querierFromContext(ctx, r.querier).SelectAmountsByAsset(ctx, asset.String())
	if err != nil {
		return 0, fmt.Errorf("failed to get coin amounts: %w", err)
	}

	var supply, carry uint64
	for _, amountStr := range amounts {
		amount, err := strconv.ParseUint(amountStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %s: %w", amountStr, err)
		}
		supply, carry = bits.Add64(supply, amount, 0)
		if carry != 0 {
			return 0, fmt.Errorf("supply overflows 64 bits")
		}
	}
	return supply, nil
}

func (r *coinRepository) Close() {
	_ = r.db.Close()
}
