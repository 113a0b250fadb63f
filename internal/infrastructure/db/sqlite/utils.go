package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db/sqlite/sqlc/queries"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

type txKey struct{}

// OpenDb opens the sqlite db at the given path, creating its parent directory if needed.
// A single connection is kept open so that writes are serialized by the driver.
func OpenDb(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %v", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}

// RunInTx opens a transaction, carried by the context passed to fn, that is committed only if fn
// succeeds. If the context already carries a transaction fn joins it.
func RunInTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		//nolint:all
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func querierFromContext(ctx context.Context, q *queries.Queries) *queries.Queries {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return q.WithTx(tx)
	}
	return q
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func toCoin(row queries.Coin) (*domain.Coin, error) {
	txid, err := domain.TxIdFromString(row.Txid)
	if err != nil {
		return nil, err
	}
	owner, err := domain.OwnerFromString(row.Owner)
	if err != nil {
		return nil, err
	}
	asset, err := domain.AssetIdFromString(row.AssetID)
	if err != nil {
		return nil, err
	}
	amount, err := strconv.ParseUint(row.Amount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %s: %w", row.Amount, err)
	}
	return &domain.Coin{
		CoinId:  domain.CoinId{TxId: txid, OutputIndex: uint16(row.OutputIndex)},
		Owner:   owner,
		Amount:  amount,
		AssetId: asset,
	}, nil
}
