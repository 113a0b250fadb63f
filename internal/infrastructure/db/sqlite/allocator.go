package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db/sqlite/sqlc/queries"
)

type indexAllocator struct {
	db      *sql.DB
	querier *queries.Queries
}

func NewIndexAllocator(config ...interface{}) (domain.IndexAllocator, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config: expected 1 argument, got %d", len(config))
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf(
			"cannot open index allocator: expected *sql.DB but got %T", config[0],
		)
	}

	return &indexAllocator{
		db:      db,
		querier: queries.New(db),
	}, nil
}

func (a *indexAllocator) NextIndex(ctx context.Context) (domain.TxId, error) {
	counter, err := querierFromContext(ctx, a.querier).IncrementAllocator(ctx)
	if err != nil {
		return domain.TxId{}, fmt.Errorf("failed to increment allocator: %w", err)
	}
	return domain.TxIdFromIndex(uint64(counter)), nil
}

func (a *indexAllocator) Close() {
	_ = a.db.Close()
}
