package ports

import (
	"context"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
)

type RepoManager interface {
	Events() domain.EventRepository
	Coins() domain.CoinRepository
	Accounts() domain.AccountRepository
	Allocator() domain.IndexAllocator
	// RunInTx runs fn as a single unit of work: either every write made through the repositories
	// with the given context is persisted or none is.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	Close()
}
