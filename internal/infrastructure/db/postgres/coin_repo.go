package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db/postgres/sqlc/queries"
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
		OutputIndex: int32(id.OutputIndex),
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
	// A unique violation would abort the whole transaction, conflicts are skipped instead so
	// that the caller can retry with another id.
	count, err := querierFromContext(ctx, r.querier).InsertCoin(ctx, queries.InsertCoinParams{
		Txid:        coin.TxId.String(),
		OutputIndex: int32(coin.OutputIndex),
		Owner:       coin.Owner.String(),
		Amount:      strconv.FormatUint(coin.Amount, 10),
		AssetID:     coin.AssetId.String(),
		CreatedAt:   time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert coin %s: %w", coin.CoinId, err)
	}
	if count == 0 {
		return domain.ErrCoinAlreadyExists
	}
	return nil
}

func (r *coinRepository) RemoveCoin(ctx context.Context, id domain.CoinId) error {
	count, err := querierFromContext(ctx, r.querier).DeleteCoin(ctx, queries.DeleteCoinParams{
		Txid:        id.TxId.String(),
		OutputIndex: int32(id.OutputIndex),
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
	supply, err := querierFromContext(ctx, r.querier).SelectSupplyByAsset(ctx, asset.String())
	if err != nil {
		return 0, fmt.Errorf("failed to get supply: %w", err)
	}
	amount, err := strconv.ParseUint(supply, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid supply %s: %w", supply, err)
	}
	return amount, nil
}

func (r *coinRepository) Close() {
	_ = r.db.Close()
}
